package flow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
	"github.com/liuzz10/gui-agent-banking-assistant/internal/oracle"
)

// yesNoHistoryWindow bounds how much history the ternary classification sees.
const yesNoHistoryWindow = 3

// YesNoHandler asks a question on first arrival and classifies the user's
// answer into yes/no/unclear on subsequent turns. "yes" and "no" each map to a
// pre-declared option and mark the condition complete; "unclear" leaves the
// condition open so the same sub-step is retried next turn.
type YesNoHandler struct {
	Oracle oracle.ClientInterface
}

// Handle implements the Handler contract.
func (h *YesNoHandler) Handle(ctx context.Context, in HandlerInput) (*models.TurnResult, error) {
	ss := in.Substep
	if in.ScreenJustLoaded {
		slog.Debug("YesNoHandler.Handle: first arrival, returning prompt", "substep", ss.Name)
		return &models.TurnResult{Intent: in.Intent, Message: ss.ImmediateReply}, nil
	}

	instruction := fmt.Sprintf(yesNoInstructionTmpl, ss.ImmediateReply)
	answer, err := h.Oracle.Call(ctx, instruction, lastTurns(in.Turns, yesNoHistoryWindow))
	if err != nil {
		return nil, err
	}

	res := &models.TurnResult{Intent: in.Intent}
	switch canonicalLabel(answer) {
	case "yes", "no":
		label, opt, ok := matchOption(ss.Options, answer)
		if !ok {
			slog.Warn("YesNoHandler.Handle: sub-step has no option for answer", "substep", ss.Name, "answer", answer)
			res.Message = didNotUnderstandMessage
			return res, nil
		}
		slog.Debug("YesNoHandler.Handle: answer classified", "substep", ss.Name, "label", label)
		res.Message = opt.Description
		res.Actions = opt.Actions
		res.MarkComplete(ss.CompletionCondition)
	default:
		slog.Debug("YesNoHandler.Handle: answer unclear, asking again", "substep", ss.Name, "answer", answer)
		res.Message = yesNoClarifyMessage
	}
	return res, nil
}
