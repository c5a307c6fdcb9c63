// Package pem implements a PEM file write barrier for BIKE key
// material: a thin KeyMaterial interface over the Marshal/Unmarshal
// pair package kem's PublicKey, SecretKey, and Ciphertext expose,
// plus ToFile/FromFile.
package pem

import (
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"
)

// KeyMaterial is anything that can be packed to and from a fixed-size
// byte buffer and names its own PEM block type.
type KeyMaterial interface {
	Marshal() []byte
	Unmarshal([]byte)
	KeyType() string
}

// ToFile writes key to f as a PEM block labeled with key.KeyType().
// It refuses to serialize an all-zero buffer, which is what a
// zero-value or zeroized key marshals to, rather than a live key.
func ToFile(f string, key KeyMaterial) error {
	keyType := strings.ToUpper(key.KeyType())
	raw := key.Marshal()

	if isAllZero(raw) {
		return fmt.Errorf("pem: ToFile/%s: attempted to serialize a scrubbed key", keyType)
	}

	blk := &pem.Block{
		Type:  keyType,
		Bytes: raw,
	}
	out, err := os.OpenFile(f, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	outBuf := pem.EncodeToMemory(blk)
	writeCount, err := out.Write(outBuf)
	if err != nil {
		return err
	}
	if writeCount != len(outBuf) {
		return errors.New("pem: ToFile: partial write failure")
	}
	if err := out.Sync(); err != nil {
		return err
	}
	return out.Close()
}

// FromFile reads a PEM block from f into key, rejecting a mismatched
// block type.
func FromFile(f string, key KeyMaterial) error {
	keyType := strings.ToUpper(key.KeyType())

	buf, err := os.ReadFile(f)
	if err != nil {
		return fmt.Errorf("pem: FromFile: %w", err)
	}
	blk, _ := pem.Decode(buf)
	if blk == nil {
		return fmt.Errorf("pem: FromFile: failed to decode PEM file %s", f)
	}
	if blk.Type != keyType {
		return fmt.Errorf("pem: FromFile: wrong key type in %s: got %s, want %s", f, blk.Type, keyType)
	}
	if want := len(key.Marshal()); len(blk.Bytes) != want {
		return fmt.Errorf("pem: FromFile: wrong %s length in %s: got %d, want %d", keyType, f, len(blk.Bytes), want)
	}
	key.Unmarshal(blk.Bytes)
	return nil
}

func isAllZero(b []byte) bool {
	var acc byte
	for _, v := range b {
		acc |= v
	}
	return acc == 0
}
