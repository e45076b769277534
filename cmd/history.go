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

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent light updates",
	Long:  `Displays the most recent light updates recorded by the daemon, newest first.`,
	Run:   runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of events to show")
}

func runHistory(cmd *cobra.Command, args []string) {
	if err := executeHistory(cmd.OutOrStdout(), defaultClient, historyLimit); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

// executeHistory executes the history command with the given client.
func executeHistory(w io.Writer, client ClientInterface, limit int) error {
	resp, err := client.Send(daemon.Request{
		Command: "history",
		Limit:   limit,
	})

	if err != nil {
		return err
	}

	if !resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}

	events, ok := resp.Data.([]interface{})
	if !ok || len(events) == 0 {
		fmt.Fprintln(w, "No light updates recorded")
		return nil
	}

	fmt.Fprintf(w, "%-20s %-14s %-9s %-9s %s\n", "TIMESTAMP", "LIGHT", "COLOR", "FLASH", "TIMING")
	for _, raw := range events {
		event, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		color := uint32(0)
		if c, ok := event["color"].(float64); ok {
			color = uint32(c)
		}

		timing := "-"
		onMs, _ := event["flash_on_ms"].(float64)
		offMs, _ := event["flash_off_ms"].(float64)
		if onMs > 0 || offMs > 0 {
			timing = fmt.Sprintf("%v/%v ms", onMs, offMs)
		}

		fmt.Fprintf(w, "%-20v %-14v %08X  %-9v %s\n",
			event["timestamp"], event["light"], color, event["flash_mode"], timing)
	}

	return nil
}
