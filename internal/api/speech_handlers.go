// Package api provides the speech relay endpoint.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
)

// speakRequest is the POST /speak body.
type speakRequest struct {
	Text string `json:"text"`
}

// speakHandler relays text to the configured TTS service and streams the
// audio back.
func (s *Server) speakHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if s.speech == nil {
		writeJSONResponse(w, http.StatusServiceUnavailable, models.Error("Speech relay is not configured"))
		return
	}

	var req speakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.speakHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("text is required"))
		return
	}

	audio, contentType, err := s.speech.Synthesize(r.Context(), req.Text)
	if err != nil {
		slog.Error("Server.speakHandler: synthesis failed", "error", err)
		writeJSONResponse(w, http.StatusBadGateway, models.Error("Speech synthesis failed"))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio); err != nil {
		slog.Error("Server.speakHandler: failed to write audio response", "error", err)
	}
}
