// Package store provides storage backends for payees and account alerts.
//
// This file implements the PostgreSQL-backed store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "embed"

	_ "github.com/lib/pq"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
)

//go:embed migrations_postgres.sql
var postgresMigrations string

// PostgresStore persists payees and alerts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL store with the given DSN.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewPostgresStore invoked", "DSN_set", cfg.DSN != "")
	if cfg.DSN == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run Postgres migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")
	return &PostgresStore{db: db}, nil
}

// AddPayee appends a payee to the user's list.
func (s *PostgresStore) AddPayee(p models.Payee) error {
	_, err := s.db.Exec(
		`INSERT INTO payees (id, user_id, name, email, created_at) VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.UserID, p.Name, nilIfEmpty(p.Email), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payee: %w", err)
	}
	return nil
}

// ListPayees returns the user's payees in insertion order.
func (s *PostgresStore) ListPayees(userID string) ([]models.Payee, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, name, email, created_at FROM payees WHERE user_id = $1 ORDER BY created_at, id`,
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
func (s *PostgresStore) SaveAlert(a models.Alert) error {
	_, err := s.db.Exec(
		`INSERT INTO alerts (id, user_id, type, threshold, phone, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, type) DO UPDATE SET
		   threshold = EXCLUDED.threshold,
		   phone = EXCLUDED.phone,
		   updated_at = EXCLUDED.updated_at`,
		a.ID, a.UserID, a.Type, a.Threshold, nilIfEmpty(a.Phone), a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save alert: %w", err)
	}
	return nil
}

// ListAlerts returns the user's alerts ordered by type.
func (s *PostgresStore) ListAlerts(userID string) ([]models.Alert, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, type, threshold, phone, created_at, updated_at FROM alerts WHERE user_id = $1 ORDER BY type`,
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
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
