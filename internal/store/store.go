// Package store provides storage backends for payees and account alerts.
//
// Payees are list-append per user; alerts are replace-by-(user, type). The
// default backend is in-memory; SQLite and PostgreSQL backends share the same
// interface and embedded migrations.
package store

import (
	"sort"
	"sync"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
)

// Store defines the persistence operations the API depends on.
type Store interface {
	AddPayee(p models.Payee) error
	ListPayees(userID string) ([]models.Payee, error)
	SaveAlert(a models.Alert) error
	ListAlerts(userID string) ([]models.Alert, error)
	Close() error
}

// Opts holds configuration options for store backends.
type Opts struct {
	DSN string
}

// Option defines a configuration option for store backends.
type Option func(*Opts)

// WithDSN sets the database connection string.
func WithDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// InMemoryStore keeps payees and alerts in process memory. Used as the
// default backend and in tests.
type InMemoryStore struct {
	mu     sync.RWMutex
	payees map[string][]models.Payee          // userID -> payees, append order
	alerts map[string]map[string]models.Alert // userID -> type -> alert
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		payees: make(map[string][]models.Payee),
		alerts: make(map[string]map[string]models.Alert),
	}
}

// AddPayee appends a payee to the user's list.
func (s *InMemoryStore) AddPayee(p models.Payee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payees[p.UserID] = append(s.payees[p.UserID], p)
	return nil
}

// ListPayees returns the user's payees in insertion order.
func (s *InMemoryStore) ListPayees(userID string) ([]models.Payee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Payee, len(s.payees[userID]))
	copy(out, s.payees[userID])
	return out, nil
}

// SaveAlert stores an alert, replacing any existing alert with the same
// (user, type) key.
func (s *InMemoryStore) SaveAlert(a models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byType, ok := s.alerts[a.UserID]
	if !ok {
		byType = make(map[string]models.Alert)
		s.alerts[a.UserID] = byType
	}
	byType[a.Type] = a
	return nil
}

// ListAlerts returns the user's alerts sorted by type for stable output.
func (s *InMemoryStore) ListAlerts(userID string) ([]models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byType := s.alerts[userID]
	out := make([]models.Alert, 0, len(byType))
	for _, a := range byType {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error { return nil }
