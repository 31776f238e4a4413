// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sixafter/drbg/cmd/drbgctl/cmd/generate"
	"github.com/sixafter/drbg/cmd/drbgctl/cmd/selftest"
	"github.com/sixafter/drbg/cmd/drbgctl/cmd/version"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "drbgctl",
	Short: "A CLI for driving and self-testing the SP 800-90A DRBG library",
	Long: `drbgctl is a command-line tool for exercising the drbg module's
deterministic random bit generator mechanisms: running their known-answer
self-tests and generating sample output for manual inspection.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(); it only needs to happen
// once to RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing drbgctl: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(selftest.NewSelfTestCommand())
	RootCmd.AddCommand(generate.NewGenerateCommand())
	RootCmd.AddCommand(version.NewVersionCommand())
}
