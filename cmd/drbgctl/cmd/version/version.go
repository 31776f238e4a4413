// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package version

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sixafter/drbg/internal/buildinfo"
)

// NewVersionCommand creates and returns the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the version of drbgctl",
		Long:  `Display the current version and commit of drbgctl.`,
		Run: func(cmd *cobra.Command, args []string) {
			writer := bufio.NewWriter(cmd.OutOrStdout())
			defer func() {
				if err := writer.Flush(); err != nil {
					_, _ = fmt.Fprintf(os.Stderr, "Error flushing writer: %v\n", err)
				}
			}()

			_, _ = writer.WriteString(fmt.Sprintf("version: %s\n", buildinfo.Version()))
			_, _ = writer.WriteString(fmt.Sprintf("commit: %s\n", buildinfo.Commit()))

			if v, err := buildinfo.Semver(); err == nil {
				_, _ = writer.WriteString(fmt.Sprintf("semver: %s\n", v.String()))
			}
		},
	}
}
