package flow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
	"github.com/liuzz10/gui-agent-banking-assistant/internal/oracle"
)

// ConfirmationHandler asks the oracle a yes/no/unclear question about the
// user's single most recent turn, parameterized by the sub-step's action
// description. "yes" executes the sub-step's actions and marks completion;
// "no" returns a neutral acknowledgment and leaves the sub-step open for the
// user to restate intent; "unclear" asks the user to reconfirm.
type ConfirmationHandler struct {
	Oracle oracle.ClientInterface
}

// Handle implements the Handler contract.
func (h *ConfirmationHandler) Handle(ctx context.Context, in HandlerInput) (*models.TurnResult, error) {
	ss := in.Substep
	if in.ScreenJustLoaded {
		slog.Debug("ConfirmationHandler.Handle: first arrival, returning prompt", "substep", ss.Name)
		return &models.TurnResult{Intent: in.Intent, Message: ss.ImmediateReply}, nil
	}

	instruction := fmt.Sprintf(confirmInstructionTmpl, ss.ActionDescription)
	answer, err := h.Oracle.Call(ctx, instruction, lastUserTurn(in.Turns))
	if err != nil {
		return nil, err
	}

	res := &models.TurnResult{Intent: in.Intent}
	switch canonicalLabel(answer) {
	case "yes":
		slog.Debug("ConfirmationHandler.Handle: confirmed", "substep", ss.Name)
		res.Message = confirmedMessage(ss)
		res.Actions = ss.Actions
		res.MarkComplete(ss.CompletionCondition)
	case "no":
		slog.Debug("ConfirmationHandler.Handle: declined", "substep", ss.Name)
		res.Message = neutralAckMessage
	default:
		slog.Debug("ConfirmationHandler.Handle: unclear, asking to reconfirm", "substep", ss.Name, "answer", answer)
		res.Message = fmt.Sprintf("Just to confirm — would you like to %s? Please answer yes or no.", ss.ActionDescription)
	}
	return res, nil
}

// confirmedMessage prefers a per-sub-step "yes" option description over the
// generic acknowledgment.
func confirmedMessage(ss *Substep) string {
	if opt, ok := ss.Options["yes"]; ok && opt.Description != "" {
		return opt.Description
	}
	return fmt.Sprintf("Done — going ahead to %s.", ss.ActionDescription)
}
