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

package daemon

import (
	"fmt"
	"os"

	"github.com/caarlos0/env"
)

// Config holds the daemon configuration, populated from the
// environment. Every field has a working default so lightsd runs
// without any configuration on real hardware.
type Config struct {
	SocketPath string `env:"LIGHTSD_SOCKET_PATH" envDefault:"/var/run/lightsd.sock"`
	PIDFile    string `env:"LIGHTSD_PID_FILE" envDefault:"/var/run/lightsd.pid"`
	SysfsRoot  string `env:"LIGHTSD_SYSFS_ROOT" envDefault:"/sys/class/leds"`
	HistoryDB  string `env:"LIGHTSD_HISTORY_DB" envDefault:"/var/lib/lightsd/history.db"`
	LogLevel   string `env:"LIGHTSD_LOG_LEVEL" envDefault:"info"`
}

// LoadConfig parses the daemon configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// GetSocketPath returns the socket path, preferring the
// LIGHTSD_SOCKET_PATH env var. Used by clients, which share the env
// convention with the daemon but not its Config.
func GetSocketPath() string {
	if path := os.Getenv("LIGHTSD_SOCKET_PATH"); path != "" {
		return path
	}
	return "/var/run/lightsd.sock"
}
