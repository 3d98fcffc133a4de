package flow

import (
	"context"
	"strings"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
	"github.com/liuzz10/gui-agent-banking-assistant/internal/oracle"
)

// Handler is the common contract for interaction strategies. Each variant owns
// the logic for one interaction pattern and may issue zero, one, or two
// sequential oracle calls per turn, never concurrent ones.
type Handler interface {
	Handle(ctx context.Context, in HandlerInput) (*models.TurnResult, error)
}

// HandlerInput carries everything a strategy needs for one turn.
type HandlerInput struct {
	Substep          *Substep
	Turns            []models.Turn
	Intent           models.Intent
	ScreenJustLoaded bool
	FormState        models.FormState
}

// handlerFor selects the strategy implementation for a sub-step's tag. The
// switch is exhaustive over the declared handler kinds; an empty or unknown
// tag falls back to the direct strategy.
func handlerFor(kind models.HandlerKind, oc oracle.ClientInterface) Handler {
	switch kind {
	case models.HandlerYesNo:
		return &YesNoHandler{Oracle: oc}
	case models.HandlerClassification:
		return &ClassificationHandler{Oracle: oc}
	case models.HandlerSelection:
		return &SelectionHandler{Oracle: oc}
	case models.HandlerConfirmation:
		return &ConfirmationHandler{Oracle: oc}
	case models.HandlerFill:
		return &FillHandler{Oracle: oc}
	case models.HandlerCollectThenAct:
		return &CollectThenActHandler{Oracle: oc}
	case models.HandlerDirect:
		return &DirectHandler{}
	default:
		return &DirectHandler{}
	}
}

// canonicalLabel normalizes oracle output for label matching: trimmed,
// lowercased, stripped of trailing sentence punctuation and surrounding
// quotes. Label matching is case-insensitive throughout.
func canonicalLabel(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	s = strings.TrimRight(s, ".!?")
	return strings.ToLower(strings.TrimSpace(s))
}

// matchOption finds the option whose label equals the canonicalized answer.
func matchOption(options map[string]OptionSpec, answer string) (string, OptionSpec, bool) {
	want := canonicalLabel(answer)
	for label, opt := range options {
		if canonicalLabel(label) == want {
			return label, opt, true
		}
	}
	return "", OptionSpec{}, false
}

// lastTurns returns at most n trailing turns.
func lastTurns(turns []models.Turn, n int) []models.Turn {
	if len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}

// lastUserTurn returns the most recent user turn only, or nil when the
// history holds none.
func lastUserTurn(turns []models.Turn) []models.Turn {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == models.RoleUser {
			return []models.Turn{turns[i]}
		}
	}
	return nil
}
