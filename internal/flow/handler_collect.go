package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
	"github.com/liuzz10/gui-agent-banking-assistant/internal/oracle"
)

// confirmedField is the reserved form-state key the confirmation routine sets.
const confirmedField = "confirmed"

// CollectThenActHandler gathers several form fields across turns, asks the
// user to confirm the assembled values, and only then emits the final action.
//
// Phases, determined solely by the replayed form state:
//  1. empty state: return the opening prompt plus a skeleton with every
//     required field null.
//  2. required fields missing: conversational filling via the oracle, merging
//     parsed state non-null-wise; once all required fields are known, also
//     emit the composed UI actions that set them.
//  3. all fields present, not confirmed: confirmation routine; an affirmed
//     state emits the final actions and completes, a declined one hands
//     control back to the filling routine seeded with the updated state.
//  4. already confirmed: replay the final actions, defending against
//     duplicate submissions.
type CollectThenActHandler struct {
	Oracle oracle.ClientInterface
}

// Handle implements the Handler contract.
func (h *CollectThenActHandler) Handle(ctx context.Context, in HandlerInput) (*models.TurnResult, error) {
	ss := in.Substep

	if len(in.FormState) == 0 {
		slog.Debug("CollectThenActHandler.Handle: phase 1, returning skeleton", "substep", ss.Name)
		skeleton := models.FormState{}
		for _, f := range ss.RequiredFields {
			skeleton[f] = nil
		}
		return &models.TurnResult{Intent: in.Intent, Message: ss.ImmediateReply, FormState: skeleton}, nil
	}

	if stateConfirmed(in.FormState) {
		slog.Debug("CollectThenActHandler.Handle: phase 4, replaying final actions", "substep", ss.Name)
		res := &models.TurnResult{
			Intent:    in.Intent,
			Message:   confirmedMessage(ss),
			Actions:   ss.FinalActions,
			FormState: in.FormState,
		}
		res.MarkComplete(ss.CompletionCondition)
		return res, nil
	}

	if len(missingFields(ss.RequiredFields, in.FormState)) > 0 {
		return h.fillConversationally(ctx, in, in.FormState)
	}
	return h.confirmAssembled(ctx, in)
}

// fillConversationally runs the phase-2 routine: a state-aware instruction
// with the known values substituted in, parsed reply merged into form state.
func (h *CollectThenActHandler) fillConversationally(ctx context.Context, in HandlerInput, seed models.FormState) (*models.TurnResult, error) {
	ss := in.Substep
	instruction := fmt.Sprintf(collectFillInstructionTmpl, strings.Join(ss.RequiredFields, ", "), renderState(seed, ss.RequiredFields))
	raw, err := h.Oracle.Call(ctx, instruction, in.Turns)
	if err != nil {
		return nil, err
	}
	parsed := ParseOracleReply(raw)
	merged := MergeFormState(seed, parsed.State)

	res := &models.TurnResult{Intent: in.Intent, Message: parsed.Message, FormState: merged}
	if len(missingFields(ss.RequiredFields, merged)) == 0 {
		slog.Debug("CollectThenActHandler.fillConversationally: all fields known, composing actions", "substep", ss.Name)
		res.Actions = composeFieldActions(ss, merged)
	}
	return res, nil
}

// confirmAssembled runs the phase-3 routine: ask the user to affirm the
// assembled values and act on the extracted confirmed flag.
func (h *CollectThenActHandler) confirmAssembled(ctx context.Context, in HandlerInput) (*models.TurnResult, error) {
	ss := in.Substep
	instruction := fmt.Sprintf(collectConfirmInstructionTmpl, renderState(in.FormState, ss.RequiredFields))
	raw, err := h.Oracle.Call(ctx, instruction, in.Turns)
	if err != nil {
		return nil, err
	}
	parsed := ParseOracleReply(raw)
	merged := MergeFormState(in.FormState, parsed.State)

	if stateConfirmed(merged) {
		slog.Debug("CollectThenActHandler.confirmAssembled: confirmed, emitting final actions", "substep", ss.Name)
		res := &models.TurnResult{Intent: in.Intent, Message: parsed.Message, Actions: ss.FinalActions, FormState: merged}
		res.MarkComplete(ss.CompletionCondition)
		return res, nil
	}

	if v, ok := merged[confirmedField]; ok {
		if b, isBool := v.(bool); isBool && !b {
			// The user wants to amend a field; hand control back to the
			// filling routine seeded with the updated state.
			slog.Debug("CollectThenActHandler.confirmAssembled: declined, reopening collection", "substep", ss.Name)
			delete(merged, confirmedField)
			return h.fillConversationally(ctx, in, merged)
		}
	}

	return &models.TurnResult{Intent: in.Intent, Message: parsed.Message, FormState: merged}, nil
}

// stateConfirmed reports whether the form state carries confirmed == true.
func stateConfirmed(fs models.FormState) bool {
	b, ok := fs[confirmedField].(bool)
	return ok && b
}

// missingFields lists required fields that are absent or null.
func missingFields(required []string, fs models.FormState) []string {
	var missing []string
	for _, f := range required {
		if v, ok := fs[f]; !ok || v == nil {
			missing = append(missing, f)
		}
	}
	return missing
}

// renderState serializes the known values for substitution into instructions.
// Only required fields appear, so stray keys never leak into prompts.
func renderState(fs models.FormState, required []string) string {
	view := make(map[string]any, len(required))
	for _, f := range required {
		if v, ok := fs[f]; ok {
			view[f] = v
		} else {
			view[f] = nil
		}
	}
	b, err := json.Marshal(view)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// composeFieldActions builds the UI actions that set each collected field,
// in required-field order.
func composeFieldActions(ss *Substep, fs models.FormState) []models.UIAction {
	var actions []models.UIAction
	for _, f := range ss.RequiredFields {
		tmpl, ok := ss.FieldActions[f]
		if !ok {
			continue
		}
		tmpl.Value = formatValue(fs[f])
		actions = append(actions, tmpl)
	}
	return actions
}

// formatValue renders a form-state value for a UI action. JSON numbers arrive
// as float64 and render without a trailing ".0".
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
