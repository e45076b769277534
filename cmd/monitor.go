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
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"github.com/we-are-mono/lightsd/daemon"
)

var (
	monitorSamples  int
	monitorInterval time.Duration
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Graph the backlight brightness over time",
	Long:  `Samples the panel backlight brightness from the daemon and renders an ASCII graph.`,
	Run:   runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().IntVar(&monitorSamples, "samples", 60, "Number of samples to collect")
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", 500*time.Millisecond, "Delay between samples")
}

func runMonitor(cmd *cobra.Command, args []string) {
	if err := executeMonitor(cmd.OutOrStdout(), defaultClient, monitorSamples, monitorInterval); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

// executeMonitor executes the monitor command with the given client.
func executeMonitor(w io.Writer, client ClientInterface, samples int, interval time.Duration) error {
	if samples < 2 {
		return fmt.Errorf("need at least 2 samples to graph")
	}

	data := make([]float64, 0, samples)
	for i := 0; i < samples; i++ {
		resp, err := client.Send(daemon.Request{Command: "status"})
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("%s", resp.Error)
		}

		status, ok := resp.Data.(map[string]interface{})
		if !ok {
			return fmt.Errorf("unexpected response format")
		}

		value, _ := status["backlight_brightness"].(float64)
		data = append(data, value)

		if i < samples-1 {
			time.Sleep(interval)
		}
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Caption(fmt.Sprintf("backlight brightness (%s per sample)", interval)))

	fmt.Fprintln(w, graph)
	return nil
}
