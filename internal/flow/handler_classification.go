package flow

import (
	"context"
	"log/slog"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
	"github.com/liuzz10/gui-agent-banking-assistant/internal/oracle"
)

// ClassificationHandler generalizes yes/no to an arbitrary label set. The
// instruction lists the sub-step's option labels plus clarification_required
// as an escape value. An exact case-insensitive label match dispatches to that
// option's actions; the escape value triggers a second oracle call producing a
// short disambiguating question; anything else is a recoverable error surfaced
// as a generic "didn't understand" message with the condition left open.
type ClassificationHandler struct {
	Oracle oracle.ClientInterface
}

// Handle implements the Handler contract.
func (h *ClassificationHandler) Handle(ctx context.Context, in HandlerInput) (*models.TurnResult, error) {
	return classify(ctx, h.Oracle, in, in.Turns)
}

// SelectionHandler has the same shape as classification but is scoped to a
// forced-choice UI menu: only the latest user answer is relevant context, so
// the oracle sees just the most recent user turn. This avoids bleed-through
// from earlier unrelated turns.
type SelectionHandler struct {
	Oracle oracle.ClientInterface
}

// Handle implements the Handler contract.
func (h *SelectionHandler) Handle(ctx context.Context, in HandlerInput) (*models.TurnResult, error) {
	return classify(ctx, h.Oracle, in, lastUserTurn(in.Turns))
}

func classify(ctx context.Context, oc oracle.ClientInterface, in HandlerInput, turns []models.Turn) (*models.TurnResult, error) {
	ss := in.Substep
	if in.ScreenJustLoaded {
		slog.Debug("classify: first arrival, returning prompt", "substep", ss.Name)
		return &models.TurnResult{Intent: in.Intent, Message: ss.ImmediateReply}, nil
	}

	answer, err := oc.Call(ctx, buildClassifyInstruction(ss.Options), turns)
	if err != nil {
		return nil, err
	}

	res := &models.TurnResult{Intent: in.Intent}
	if label, opt, ok := matchOption(ss.Options, answer); ok {
		slog.Debug("classify: matched label", "substep", ss.Name, "label", label)
		res.Message = opt.Description
		res.Actions = opt.Actions
		res.MarkComplete(ss.CompletionCondition)
		return res, nil
	}

	if canonicalLabel(answer) == models.ClarificationRequired {
		question, err := oc.Call(ctx, buildOptionClarifyInstruction(ss.Options), turns)
		if err != nil {
			return nil, err
		}
		slog.Debug("classify: clarification required", "substep", ss.Name)
		res.Message = question
		return res, nil
	}

	slog.Warn("classify: answer matched no label and no escape value", "substep", ss.Name, "answer", answer)
	res.Message = didNotUnderstandMessage
	return res, nil
}
