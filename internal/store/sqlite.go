// Package store provides storage backends for payees and account alerts.
//
// This file implements the SQLite-backed store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	_ "github.com/mattn/go-sqlite3"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// SQLiteStore persists payees and alerts in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN (a file path).
// The containing directory is created when missing.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")
	if cfg.DSN == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(cfg.DSN)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run SQLite migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")
	return &SQLiteStore{db: db}, nil
}

// AddPayee appends a payee to the user's list.
func (s *SQLiteStore) AddPayee(p models.Payee) error {
	_, err := s.db.Exec(
		`INSERT INTO payees (id, user_id, name, email, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Name, nilIfEmpty(p.Email), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payee: %w", err)
	}
	return nil
}

// ListPayees returns the user's payees in insertion order.
func (s *SQLiteStore) ListPayees(userID string) ([]models.Payee, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, name, email, created_at FROM payees WHERE user_id = ? ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query payees: %w", err)
	}
	defer rows.Close()

	var payees []models.Payee
	for rows.Next() {
		p, err := scanPayee(rows)
		if err != nil {
			return nil, err
		}
		payees = append(payees, p)
	}
	return payees, rows.Err()
}

// SaveAlert stores an alert, replacing any existing alert with the same
// (user, type) key.
func (s *SQLiteStore) SaveAlert(a models.Alert) error {
	_, err := s.db.Exec(
		`INSERT INTO alerts (id, user_id, type, threshold, phone, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, type) DO UPDATE SET
		   threshold = excluded.threshold,
		   phone = excluded.phone,
		   updated_at = excluded.updated_at`,
		a.ID, a.UserID, a.Type, a.Threshold, nilIfEmpty(a.Phone), a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save alert: %w", err)
	}
	return nil
}

// ListAlerts returns the user's alerts ordered by type.
func (s *SQLiteStore) ListAlerts(userID string) ([]models.Alert, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, type, threshold, phone, created_at, updated_at FROM alerts WHERE user_id = ? ORDER BY type`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
