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
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	_ "modernc.org/sqlite" // Pure-Go SQLite3 driver
)

// defaultHistoryLimit caps history queries when the caller does not ask
// for a specific row count.
const defaultHistoryLimit = 20

// Event is one recorded light update. This is an audit trail only: the
// daemon never replays events into the hardware.
type Event struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	Light     string `json:"light"`
	Color     uint32 `json:"color"`
	FlashMode string `json:"flash_mode"`
	OnMs      int    `json:"flash_on_ms"`
	OffMs     int    `json:"flash_off_ms"`
}

// HistoryStore persists light updates to a SQLite database.
type HistoryStore struct {
	db  *sql.DB
	log hclog.Logger
}

// NewHistoryStore opens (creating if needed) the history database.
func NewHistoryStore(path string, log hclog.Logger) (*HistoryStore, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &HistoryStore{db: db, log: log.Named("history")}
	if err := s.initializeSchema(); err != nil {
		db.Close()
		return nil, err
	}

	s.log.Debug("history database ready", "path", path)
	return s, nil
}

func (s *HistoryStore) initializeSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS light_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT NOT NULL,
			light TEXT NOT NULL,
			color INTEGER NOT NULL,
			flash_mode TEXT NOT NULL,
			flash_on_ms INTEGER DEFAULT 0,
			flash_off_ms INTEGER DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_light_events_light ON light_events(light)`,
		`CREATE INDEX IF NOT EXISTS idx_light_events_timestamp ON light_events(timestamp)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// Record stores one light update. Failures are logged and swallowed:
// history must never block a light change.
func (s *HistoryStore) Record(light, flashMode string, color uint32, onMs, offMs int) {
	_, err := s.db.Exec(
		`INSERT INTO light_events (timestamp, light, color, flash_mode, flash_on_ms, flash_off_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), light, color, flashMode, onMs, offMs)
	if err != nil {
		s.log.Warn("failed to record light event", "light", light, "error", err)
	}
}

// Recent returns the most recent events, newest first.
func (s *HistoryStore) Recent(limit int) ([]Event, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	rows, err := s.db.Query(
		`SELECT id, timestamp, light, color, flash_mode, flash_on_ms, flash_off_ms
		 FROM light_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Light, &e.Color, &e.FlashMode, &e.OnMs, &e.OffMs); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Count returns the total number of recorded events.
func (s *HistoryStore) Count() (int64, error) {
	var count int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM light_events`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return count, nil
}

// Close closes the underlying database.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}
