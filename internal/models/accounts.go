// Package models defines persistence structures for payees and account alerts.
package models

import (
	"errors"
	"strings"
	"time"
)

// Error variables for payee and alert validation.
var (
	ErrMissingUserID    = errors.New("user_id is required")
	ErrMissingPayeeName = errors.New("payee name is required")
	ErrMissingAlertType = errors.New("alert type is required")
)

// Payee is a saved transfer recipient for one user. Payees are list-append:
// creating a payee never replaces an existing one.
type Payee struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks required payee fields.
func (p *Payee) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return ErrMissingUserID
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingPayeeName
	}
	return nil
}

// Alert is a notification rule for one user. Alerts are replace-by-key: one
// alert per (user, type), newest definition wins.
type Alert struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`                // e.g. "low_balance", "large_withdrawal"
	Threshold float64   `json:"threshold,omitempty"` // amount the rule triggers at, when applicable
	Phone     string    `json:"phone,omitempty"`     // SMS destination, when notification is wanted
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks required alert fields.
func (a *Alert) Validate() error {
	if strings.TrimSpace(a.UserID) == "" {
		return ErrMissingUserID
	}
	if strings.TrimSpace(a.Type) == "" {
		return ErrMissingAlertType
	}
	return nil
}
