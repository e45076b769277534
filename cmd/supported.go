// Copyright (C) 2025 Mono Technologies Inc.
//
// This program is free software; you can redistribute it and/or
// modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.

// Package cmd implements the CLI commands for lightsd using cobra.
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/we-are-mono/lightsd/daemon"
)

var supportedCmd = &cobra.Command{
	Use:   "supported",
	Short: "List the supported light types",
	Run:   runSupported,
}

func init() {
	rootCmd.AddCommand(supportedCmd)
}

func runSupported(cmd *cobra.Command, args []string) {
	if err := executeSupported(cmd.OutOrStdout(), defaultClient); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

// executeSupported executes the supported command with the given client.
func executeSupported(w io.Writer, client ClientInterface) error {
	resp, err := client.Send(daemon.Request{
		Command: "supported-types",
	})

	if err != nil {
		return err
	}

	if !resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}

	// JSON decoding hands the name list back as []interface{}.
	names, ok := resp.Data.([]interface{})
	if !ok {
		return fmt.Errorf("unexpected response format")
	}

	fmt.Fprintln(w, "Supported lights:")
	for _, name := range names {
		fmt.Fprintf(w, "  %v\n", name)
	}
	return nil
}
