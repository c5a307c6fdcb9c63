// Package utils holds small filesystem helpers shared by the CLI
// commands under cmd/.
package utils

import (
	"errors"
	"fmt"
	"os"
)

// Exists reports whether the file f exists.
func Exists(f string) bool {
	if _, err := os.Stat(f); err == nil {
		return true
	} else if errors.Is(err, os.ErrNotExist) {
		return false
	} else {
		panic(err)
	}
}

// CheckKeyPairFresh guards keypair generation against clobbering: it
// returns nil only when neither the public nor the private key file
// exists yet. A lone survivor of a half-written pair is reported
// separately from a complete existing pair, so the operator knows
// whether to delete one file or pick a new name.
func CheckKeyPairFresh(pubFile, privFile string) error {
	pubExists, privExists := Exists(pubFile), Exists(privFile)
	switch {
	case pubExists && privExists:
		return fmt.Errorf("both key files already exist: %s, %s", pubFile, privFile)
	case pubExists:
		return fmt.Errorf("public key file %s exists without its private half %s", pubFile, privFile)
	case privExists:
		return fmt.Errorf("private key file %s exists without its public half %s", privFile, pubFile)
	}
	return nil
}
