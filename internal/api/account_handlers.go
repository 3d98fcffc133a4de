// Package api provides payee and alert management handlers.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
)

// createPayeeHandler handles POST /payees. Payees are list-append: creating
// one never replaces an existing entry.
func (s *Server) createPayeeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	var p models.Payee
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		slog.Warn("Server.createPayeeHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := p.Validate(); err != nil {
		slog.Warn("Server.createPayeeHandler: validation failed", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}

	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	if err := s.st.AddPayee(p); err != nil {
		slog.Error("Server.createPayeeHandler: save failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to save payee"))
		return
	}

	slog.Info("Server.createPayeeHandler: payee created", "id", p.ID, "user_id", p.UserID)
	writeJSONResponse(w, http.StatusCreated, models.SuccessWithMessage("Payee created", p))
}

// listPayeesHandler handles GET /payees?user_id=...
func (s *Server) listPayeesHandler(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("user_id query parameter is required"))
		return
	}
	payees, err := s.st.ListPayees(userID)
	if err != nil {
		slog.Error("Server.listPayeesHandler: list failed", "error", err, "user_id", userID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to list payees"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(payees))
}

// createAlertHandler handles POST /alerts. Alerts are replace-by-key: one
// alert per (user, type), the newest definition wins. When the alert carries
// a phone number and a notifier is configured, a confirmation SMS goes out;
// SMS failure never fails the request.
func (s *Server) createAlertHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	var a models.Alert
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		slog.Warn("Server.createAlertHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := a.Validate(); err != nil {
		slog.Warn("Server.createAlertHandler: validation failed", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}

	now := time.Now()
	a.ID = uuid.NewString()
	a.CreatedAt = now
	a.UpdatedAt = now
	if err := s.st.SaveAlert(a); err != nil {
		slog.Error("Server.createAlertHandler: save failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to save alert"))
		return
	}

	if s.notifier != nil && a.Phone != "" {
		body := fmt.Sprintf("Your %s alert is now active.", a.Type)
		if err := s.notifier.SendSMS(r.Context(), a.Phone, body); err != nil {
			slog.Warn("Server.createAlertHandler: confirmation SMS failed", "error", err, "alert_id", a.ID)
		}
	}

	slog.Info("Server.createAlertHandler: alert saved", "id", a.ID, "user_id", a.UserID, "type", a.Type)
	writeJSONResponse(w, http.StatusCreated, models.SuccessWithMessage("Alert saved", a))
}

// listAlertsHandler handles GET /alerts?user_id=...
func (s *Server) listAlertsHandler(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("user_id query parameter is required"))
		return
	}
	alerts, err := s.st.ListAlerts(userID)
	if err != nil {
		slog.Error("Server.listAlertsHandler: list failed", "error", err, "user_id", userID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to list alerts"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(alerts))
}
