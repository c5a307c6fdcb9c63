// Command bikekat is the CLI surface around package kem: keypair
// generation and encapsulate/decapsulate round trips over PEM-encoded
// key/ciphertext files, plus a self-test driver. This is ambient
// tooling, not part of the KEM orchestration core in package kem.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	logging "gopkg.in/op/go-logging.v1"

	"github.com/bike-kem/bike/core/crypto/pem"
	"github.com/bike-kem/bike/core/log"
	"github.com/bike-kem/bike/core/utils"
	"github.com/bike-kem/bike/kem"
)

var cliLog = mustLogger()

func mustLogger() *logging.Logger {
	backend, err := log.New("", "NOTICE", false)
	if err != nil {
		panic(err)
	}
	return backend.GetLogger("bikekat")
}

var rootCmd = &cobra.Command{
	Use:           "bikekat",
	Short:         "BIKE-1 Round-2 KEM command-line tool",
	Long:          "Generate keypairs and run encapsulate/decapsulate round trips for the BIKE-1 Round-2 KEM.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

var genKeyCmd = &cobra.Command{
	Use:   "genkey",
	Short: "Generate a BIKE keypair",
	RunE: func(cmd *cobra.Command, args []string) error {
		pubFile, _ := cmd.Flags().GetString("pub")
		privFile, _ := cmd.Flags().GetString("priv")

		if err := utils.CheckKeyPairFresh(pubFile, privFile); err != nil {
			return err
		}

		pub, priv, err := kem.KeyGen()
		if err != nil {
			return fmt.Errorf("keygen failed: %w", err)
		}

		if err := pem.ToFile(pubFile, &pub); err != nil {
			return err
		}
		if err := pem.ToFile(privFile, &priv); err != nil {
			return err
		}

		cliLog.Noticef("wrote %s and %s", pubFile, privFile)
		return nil
	},
}

var encapCmd = &cobra.Command{
	Use:   "encap",
	Short: "Encapsulate a shared secret against a public key",
	RunE: func(cmd *cobra.Command, args []string) error {
		pubFile, _ := cmd.Flags().GetString("pub")
		ctFile, _ := cmd.Flags().GetString("ct")
		ssFile, _ := cmd.Flags().GetString("ss")

		var pub kem.PublicKey
		if err := pem.FromFile(pubFile, &pub); err != nil {
			return err
		}

		ct, ss, err := kem.Encapsulate(&pub)
		if err != nil {
			return fmt.Errorf("encapsulate failed: %w", err)
		}

		if err := pem.ToFile(ctFile, &ct); err != nil {
			return err
		}
		if err := writeHexFile(ssFile, ss[:]); err != nil {
			return err
		}

		cliLog.Noticef("wrote %s and %s", ctFile, ssFile)
		return nil
	},
}

var decapCmd = &cobra.Command{
	Use:   "decap",
	Short: "Decapsulate a shared secret from a ciphertext",
	RunE: func(cmd *cobra.Command, args []string) error {
		privFile, _ := cmd.Flags().GetString("priv")
		ctFile, _ := cmd.Flags().GetString("ct")
		ssFile, _ := cmd.Flags().GetString("ss")

		var priv kem.SecretKey
		if err := pem.FromFile(privFile, &priv); err != nil {
			return err
		}

		var ct kem.Ciphertext
		if err := pem.FromFile(ctFile, &ct); err != nil {
			return err
		}

		ss, err := kem.Decapsulate(&priv, &ct)
		if err != nil {
			return fmt.Errorf("decapsulate failed: %w", err)
		}

		if err := writeHexFile(ssFile, ss[:]); err != nil {
			return err
		}

		cliLog.Noticef("wrote %s", ssFile)
		return nil
	},
}

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Run N keypair/encapsulate/decapsulate round trips in-process",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("rounds")

		for i := 0; i < n; i++ {
			pub, priv, err := kem.KeyGen()
			if err != nil {
				return fmt.Errorf("round %d: keygen: %w", i, err)
			}
			ct, ssEnc, err := kem.Encapsulate(&pub)
			if err != nil {
				return fmt.Errorf("round %d: encapsulate: %w", i, err)
			}
			ssDec, err := kem.Decapsulate(&priv, &ct)
			if err != nil {
				return fmt.Errorf("round %d: decapsulate: %w", i, err)
			}
			if ssEnc != ssDec {
				return fmt.Errorf("round %d: shared secret mismatch", i)
			}
			cliLog.Noticef("round %d: ok", i)
		}
		return nil
	},
}

func writeHexFile(path string, b []byte) error {
	enc := hex.EncodeToString(b) + "\n"
	if err := os.WriteFile(path, []byte(enc), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func init() {
	genKeyCmd.Flags().String("pub", "bike.public.pem", "output public key file")
	genKeyCmd.Flags().String("priv", "bike.private.pem", "output private key file")

	encapCmd.Flags().String("pub", "bike.public.pem", "input public key file")
	encapCmd.Flags().String("ct", "bike.ciphertext.pem", "output ciphertext file")
	encapCmd.Flags().String("ss", "bike.ss.hex", "output shared secret file")

	decapCmd.Flags().String("priv", "bike.private.pem", "input private key file")
	decapCmd.Flags().String("ct", "bike.ciphertext.pem", "input ciphertext file")
	decapCmd.Flags().String("ss", "bike.ss.dec.hex", "output shared secret file")

	selftestCmd.Flags().Int("rounds", 1, "number of keygen/encap/decap round trips to run")

	rootCmd.AddCommand(genKeyCmd, encapCmd, decapCmd, selftestCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		cliLog.Errorf("%v", err)
		os.Exit(1)
	}
}
