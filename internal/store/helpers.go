package store

import (
	"database/sql"
	"fmt"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
)

// nilIfEmpty returns nil if s is empty, otherwise returns s.
// Used for nullable database columns.
func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// scanPayee scans a Payee from sql.Rows.
func scanPayee(rows *sql.Rows) (models.Payee, error) {
	var p models.Payee
	var email sql.NullString
	if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &email, &p.CreatedAt); err != nil {
		return p, fmt.Errorf("scan payee failed: %w", err)
	}
	p.Email = email.String
	return p, nil
}

// scanAlert scans an Alert from sql.Rows.
func scanAlert(rows *sql.Rows) (models.Alert, error) {
	var a models.Alert
	var threshold sql.NullFloat64
	var phone sql.NullString
	if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &threshold, &phone, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return a, fmt.Errorf("scan alert failed: %w", err)
	}
	a.Threshold = threshold.Float64
	a.Phone = phone.String
	return a, nil
}
