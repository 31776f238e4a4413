// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package selftest

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sixafter/drbg/selftest"
)

var verbose bool

// NewSelfTestCommand creates and returns the selftest command. It runs
// every mechanism's known-answer tests plus the envelope's negative-path
// checks via selftest.RunAll, prints a pass/fail summary, and exits
// non-zero if any check failed.
func NewSelfTestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Run the DRBG known-answer and negative-path self-tests",
		Long: `selftest drives every mechanism's known-answer test vectors and the
envelope's negative-path checks (bounds validation, reseed behavior), then
reports how many checks failed.`,
		RunE: runSelfTest,
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also print each check's result, with failure details, as the harness runs")

	return cmd
}

func runSelfTest(cmd *cobra.Command, args []string) error {
	failures, results, err := selftest.RunAll(verbose)
	if err != nil {
		return fmt.Errorf("self-test harness failed to run: %w", err)
	}

	writer := bufio.NewWriter(cmd.OutOrStdout())
	defer func() {
		if ferr := writer.Flush(); ferr != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error flushing writer: %v\n", ferr)
		}
	}()

	for _, r := range results {
		status := "PASS"
		if r.Err != nil {
			status = "FAIL"
		}
		_, _ = writer.WriteString(fmt.Sprintf("%-4s %s\n", status, r.Name))
	}

	_, _ = writer.WriteString(fmt.Sprintf("\n%d check(s) run, %d failure(s)\n", len(results), failures))

	if failures > 0 {
		return fmt.Errorf("%d self-test check(s) failed", failures)
	}
	return nil
}
