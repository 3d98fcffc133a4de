package flow

import (
	"context"
	"log/slog"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
)

// DirectHandler surfaces a one-shot instruction requiring no interpretation.
// It never calls the oracle: the sub-step's immediate reply and actions are
// returned verbatim and its condition is marked complete immediately, on the
// very first visit.
type DirectHandler struct{}

// Handle implements the Handler contract.
func (h *DirectHandler) Handle(ctx context.Context, in HandlerInput) (*models.TurnResult, error) {
	slog.Debug("DirectHandler.Handle: returning immediate reply", "substep", in.Substep.Name, "intent", in.Intent)
	res := &models.TurnResult{
		Intent:  in.Intent,
		Message: in.Substep.ImmediateReply,
		Actions: in.Substep.Actions,
	}
	res.MarkComplete(in.Substep.CompletionCondition)
	return res, nil
}
