package flow

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
	"github.com/liuzz10/gui-agent-banking-assistant/internal/oracle"
)

// fillHistoryWindow bounds how many trailing turns the extraction sees.
const fillHistoryWindow = 5

var (
	spacedDigitsRe = regexp.MustCompile(`(\d)\s+(\d)`)
	numericTokenRe = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// FillHandler extracts a single field value from recent turns subject to a
// natural-language constraint description (e.g. "numbers only"). Voice
// transcripts routinely split digits ("1 0 0"), so adjacent digits are merged
// before extraction. When the constraint is numeric, the first numeric token
// of the oracle's answer is taken as a defense against verbose replies. When
// the constraint concerns a name, a second oracle call strips letter-by-letter
// spelling from the answer before acceptance.
type FillHandler struct {
	Oracle oracle.ClientInterface
}

// Handle implements the Handler contract.
func (h *FillHandler) Handle(ctx context.Context, in HandlerInput) (*models.TurnResult, error) {
	ss := in.Substep
	if in.ScreenJustLoaded {
		slog.Debug("FillHandler.Handle: first arrival, returning prompt", "substep", ss.Name)
		return &models.TurnResult{Intent: in.Intent, Message: ss.ImmediateReply}, nil
	}

	turns := prepareFillTurns(lastTurns(in.Turns, fillHistoryWindow))
	instruction := fmt.Sprintf(fillInstructionTmpl, ss.Field, ss.Constraint, models.ClarificationRequired)
	answer, err := h.Oracle.Call(ctx, instruction, turns)
	if err != nil {
		return nil, err
	}

	res := &models.TurnResult{Intent: in.Intent}
	value := strings.TrimSpace(answer)
	if value == "" || canonicalLabel(value) == models.ClarificationRequired {
		slog.Debug("FillHandler.Handle: no value extracted", "substep", ss.Name, "field", ss.Field)
		res.Message = fmt.Sprintf("Sorry, I didn't catch the %s. Could you tell me again?", ss.Field)
		return res, nil
	}

	if constraintMentionsNumber(ss.Constraint) {
		token := numericTokenRe.FindString(value)
		if token == "" {
			slog.Debug("FillHandler.Handle: numeric constraint but no numeric token", "substep", ss.Name, "answer", value)
			res.Message = fmt.Sprintf("Sorry, I didn't catch the %s. Could you tell me again?", ss.Field)
			return res, nil
		}
		value = token
	}

	if constraintMentionsName(ss.Constraint) {
		stripped, err := h.Oracle.Call(ctx, fmt.Sprintf(stripSpellingInstructionTmpl, value), nil)
		if err != nil {
			return nil, err
		}
		if s := strings.TrimSpace(stripped); s != "" {
			value = s
		}
	}

	slog.Debug("FillHandler.Handle: value extracted", "substep", ss.Name, "field", ss.Field, "value", value)
	res.Message = fmt.Sprintf("Got it — %s.", value)
	res.Actions = actionsWithValue(ss.Actions, value)
	res.MarkComplete(ss.CompletionCondition)
	return res, nil
}

// prepareFillTurns merges whitespace-separated adjacent digits in user turns.
func prepareFillTurns(turns []models.Turn) []models.Turn {
	out := make([]models.Turn, len(turns))
	copy(out, turns)
	for i := range out {
		if out[i].Role == models.RoleUser {
			out[i].Content = mergeSpacedDigits(out[i].Content)
		}
	}
	return out
}

// mergeSpacedDigits collapses "1 0 0" into "100". The replacement is repeated
// because each regexp pass consumes the trailing digit of a match.
func mergeSpacedDigits(s string) string {
	for {
		next := spacedDigitsRe.ReplaceAllString(s, "$1$2")
		if next == s {
			return next
		}
		s = next
	}
}

// actionsWithValue copies the action list, filling the extracted value into
// fill and select actions that carry no literal value of their own.
func actionsWithValue(actions []models.UIAction, value string) []models.UIAction {
	out := make([]models.UIAction, len(actions))
	copy(out, actions)
	for i := range out {
		if (out[i].Kind == models.UIActionFill || out[i].Kind == models.UIActionSelect) && out[i].Value == "" {
			out[i].Value = value
		}
	}
	return out
}

func constraintMentionsNumber(constraint string) bool {
	c := strings.ToLower(constraint)
	return strings.Contains(c, "number") || strings.Contains(c, "numeric") ||
		strings.Contains(c, "digit") || strings.Contains(c, "amount")
}

func constraintMentionsName(constraint string) bool {
	return strings.Contains(strings.ToLower(constraint), "name")
}
