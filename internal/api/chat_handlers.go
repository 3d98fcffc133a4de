// Package api provides the conversational turn endpoints.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/metrics"
	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
	"github.com/liuzz10/gui-agent-banking-assistant/internal/oracle"
)

// chatHandler handles POST /chat, /tellerbot and /tutorbot. A non-empty
// forced persona overrides whatever the request body carries, so the legacy
// per-persona endpoints keep working unchanged.
//
// Unlike the CRUD endpoints, the turn endpoints return the TurnResult as the
// bare response body: the frontend reads intent/message/actions directly and
// replays substepFlags/formState on the next turn.
func (s *Server) chatHandler(forced models.Persona) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			defer r.Body.Close()
		}
		slog.Debug("Server.chatHandler: processing turn", "path", r.URL.Path)

		var req models.TurnRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Warn("Server.chatHandler: failed to decode JSON", "error", err)
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
			return
		}
		if forced != "" {
			req.Persona = string(forced)
		}
		if err := req.Validate(); err != nil {
			slog.Warn("Server.chatHandler: validation failed", "error", err)
			writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
			return
		}

		result, err := s.orchestrator.ProcessTurn(r.Context(), &req)
		if err != nil {
			if errors.Is(err, oracle.ErrOracleUnavailable) {
				slog.Error("Server.chatHandler: oracle unavailable", "error", err)
				writeJSONResponse(w, http.StatusBadGateway, models.Error("The assistant is temporarily unavailable. Please try again."))
				return
			}
			slog.Error("Server.chatHandler: turn processing failed", "error", err)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to process the turn"))
			return
		}

		metrics.IncTurn(string(result.Intent), string(models.NormalizePersona(req.Persona)))
		slog.Debug("Server.chatHandler: turn processed", "intent", result.Intent, "actions", len(result.Actions))
		writeJSONResponse(w, http.StatusOK, result)
	}
}
