// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package generate

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sixafter/drbg"
)

var (
	mechanismFlag        string
	bytesFlag            int
	securityStrengthFlag int
	predictionResistance bool
	verbose              bool
)

var mechanismsByFlag = map[string]drbg.MechanismKind{
	"hmac-sha256": drbg.HMACSHA256,
	"hmac-sha512": drbg.HMACSHA512,
	"hash-sha256": drbg.HashSHA256,
	"hash-sha512": drbg.HashSHA512,
	"ctr-aes128":  drbg.CTRAES128,
	"ctr-aes192":  drbg.CTRAES192,
	"ctr-aes256":  drbg.CTRAES256,
}

// NewGenerateCommand creates and returns the generate command.
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate random bytes from a DRBG instance",
		Long: `generate instantiates a DRBG with the chosen mechanism and writes the
requested number of hex-encoded random bytes to stdout.

--mechanism selects one of: hmac-sha256, hmac-sha512, hash-sha256,
hash-sha512, ctr-aes128, ctr-aes192, ctr-aes256.`,
		RunE: runGenerate,
	}

	cmd.Flags().StringVarP(&mechanismFlag, "mechanism", "m", "hmac-sha256", "DRBG mechanism to use")
	cmd.Flags().IntVarP(&bytesFlag, "bytes", "b", 32, "number of random bytes to generate")
	cmd.Flags().IntVarP(&securityStrengthFlag, "security-strength", "s", 256, "requested security strength in bits [112,256]")
	cmd.Flags().BoolVarP(&predictionResistance, "prediction-resistance", "p", false, "force a reseed before generating")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print throughput statistics to stderr")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if bytesFlag <= 0 {
		return fmt.Errorf("--bytes must be a positive integer")
	}

	kind, ok := mechanismsByFlag[mechanismFlag]
	if !ok {
		return fmt.Errorf("unknown --mechanism %q", mechanismFlag)
	}

	inst, err := drbg.New(
		drbg.WithMechanism(kind),
		drbg.WithSecurityStrength(securityStrengthFlag),
	)
	if err != nil {
		return fmt.Errorf("failed to instantiate DRBG: %w", err)
	}

	out := make([]byte, bytesFlag)

	start := time.Now()
	if err := inst.Generate(out, securityStrengthFlag, predictionResistance, nil); err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}
	duration := time.Since(start)

	writer := bufio.NewWriter(cmd.OutOrStdout())
	_, _ = writer.WriteString(hex.EncodeToString(out) + "\n")
	if ferr := writer.Flush(); ferr != nil {
		return fmt.Errorf("error writing output: %w", ferr)
	}

	if verbose {
		throughput := float64(bytesFlag) / duration.Seconds()
		_, _ = fmt.Fprintf(cmd.OutOrStderr(), "mechanism...: %s\n", mechanismFlag)
		_, _ = fmt.Fprintf(cmd.OutOrStderr(), "bytes.......: %s\n", humanize.Bytes(uint64(bytesFlag)))
		_, _ = fmt.Fprintf(cmd.OutOrStderr(), "duration....: %s\n", duration)
		_, _ = fmt.Fprintf(cmd.OutOrStderr(), "throughput..: %s/s\n", humanize.Bytes(uint64(throughput)))
	}

	return nil
}
