package flow

import (
	"context"
	"testing"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
)

func collectSubstep() *Substep {
	return &Substep{
		Name:                "collect_transfer_details",
		ImmediateReply:      "Which account, and how much?",
		CompletionCondition: "transfer_details_submitted",
		ActionDescription:   "send the transfer details",
		RequiredFields:      []string{"account", "amount"},
		FieldActions: map[string]models.UIAction{
			"account": {Kind: models.UIActionSelect, Selector: "#from-account"},
			"amount":  {Kind: models.UIActionFill, Selector: "#amount"},
		},
		FinalActions: []models.UIAction{{Kind: models.UIActionClick, Selector: "#send-button"}},
	}
}

func TestCollectThenActSkeletonPhase(t *testing.T) {
	oc := &scriptedOracle{}
	h := &CollectThenActHandler{Oracle: oc}
	res, err := h.Handle(context.Background(), HandlerInput{
		Substep: collectSubstep(),
		Turns:   []models.Turn{userTurn("I want to send money")},
	})
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if res.Message != "Which account, and how much?" {
		t.Errorf("Message = %q", res.Message)
	}
	if len(oc.calls) != 0 {
		t.Errorf("skeleton phase should not call the oracle, got %d calls", len(oc.calls))
	}
	for _, f := range []string{"account", "amount"} {
		v, ok := res.FormState[f]
		if !ok || v != nil {
			t.Errorf("skeleton should carry %s = null, got %v (present=%v)", f, v, ok)
		}
	}
	if len(res.SubstepFlags) != 0 {
		t.Error("skeleton phase should not complete anything")
	}
}

func TestCollectThenActFillingPhase(t *testing.T) {
	oc := &scriptedOracle{replies: []string{
		"Got it, chequing. How much would you like to send?\nSTATE: {\"account\": \"chequing\", \"amount\": null}",
	}}
	h := &CollectThenActHandler{Oracle: oc}
	res, err := h.Handle(context.Background(), HandlerInput{
		Substep:   collectSubstep(),
		Turns:     []models.Turn{userTurn("from chequing")},
		FormState: models.FormState{"account": nil, "amount": nil},
	})
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if res.FormState["account"] != "chequing" {
		t.Errorf("account should be merged in, got %v", res.FormState)
	}
	if res.FormState["amount"] != nil {
		t.Errorf("amount should remain null, got %v", res.FormState["amount"])
	}
	if len(res.Actions) != 0 {
		t.Errorf("no actions until every field is known, got %v", res.Actions)
	}
	if len(res.SubstepFlags) != 0 {
		t.Error("filling phase should not complete the condition")
	}
}

func TestCollectThenActComposesActionsWhenComplete(t *testing.T) {
	oc := &scriptedOracle{replies: []string{
		"Sending $50 from chequing. Shall I go ahead?\nSTATE: {\"account\": \"chequing\", \"amount\": 50}",
	}}
	h := &CollectThenActHandler{Oracle: oc}
	res, err := h.Handle(context.Background(), HandlerInput{
		Substep:   collectSubstep(),
		Turns:     []models.Turn{userTurn("50 dollars")},
		FormState: models.FormState{"account": "chequing", "amount": nil},
	})
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if len(res.Actions) != 2 {
		t.Fatalf("expected composed field actions, got %v", res.Actions)
	}
	if res.Actions[0].Kind != models.UIActionSelect || res.Actions[0].Value != "chequing" {
		t.Errorf("account action = %v", res.Actions[0])
	}
	// JSON numbers arrive as float64; the action value must not read "50.0".
	if res.Actions[1].Kind != models.UIActionFill || res.Actions[1].Value != "50" {
		t.Errorf("amount action = %v", res.Actions[1])
	}
	if len(res.SubstepFlags) != 0 {
		t.Error("completion waits for the confirmation phase")
	}
}

func TestCollectThenActConfirmationPhase(t *testing.T) {
	t.Run("affirmed", func(t *testing.T) {
		oc := &scriptedOracle{replies: []string{
			"Done!\nSTATE: {\"account\": \"chequing\", \"amount\": 50, \"confirmed\": true}",
		}}
		h := &CollectThenActHandler{Oracle: oc}
		res, err := h.Handle(context.Background(), HandlerInput{
			Substep:   collectSubstep(),
			Turns:     []models.Turn{userTurn("yes, send it")},
			FormState: models.FormState{"account": "chequing", "amount": float64(50)},
		})
		if err != nil {
			t.Fatalf("Handle() error: %v", err)
		}
		if len(res.Actions) != 1 || res.Actions[0].Selector != "#send-button" {
			t.Errorf("affirmation should emit the final actions, got %v", res.Actions)
		}
		if !res.SubstepFlags["transfer_details_submitted"] {
			t.Error("affirmation should complete the condition")
		}
	})

	t.Run("declined reopens collection", func(t *testing.T) {
		oc := &scriptedOracle{replies: []string{
			"Okay, what should change?\nSTATE: {\"account\": \"chequing\", \"amount\": 50, \"confirmed\": false}",
			"Sure, updating the amount. What should it be?\nSTATE: {\"account\": \"chequing\", \"amount\": null}",
		}}
		h := &CollectThenActHandler{Oracle: oc}
		res, err := h.Handle(context.Background(), HandlerInput{
			Substep:   collectSubstep(),
			Turns:     []models.Turn{userTurn("no wait, change the amount")},
			FormState: models.FormState{"account": "chequing", "amount": float64(50)},
		})
		if err != nil {
			t.Fatalf("Handle() error: %v", err)
		}
		if len(oc.calls) != 2 {
			t.Fatalf("decline should hand back to the filling routine, got %d calls", len(oc.calls))
		}
		if _, ok := res.FormState[confirmedField]; ok {
			t.Errorf("confirmed flag should be cleared on decline, state = %v", res.FormState)
		}
		if len(res.SubstepFlags) != 0 {
			t.Error("declined confirmation must not complete the condition")
		}
	})

	t.Run("unclear repeats confirmation", func(t *testing.T) {
		oc := &scriptedOracle{replies: []string{
			"Could you confirm: $50 from chequing?\nSTATE: {\"account\": \"chequing\", \"amount\": 50}",
		}}
		h := &CollectThenActHandler{Oracle: oc}
		res, err := h.Handle(context.Background(), HandlerInput{
			Substep:   collectSubstep(),
			Turns:     []models.Turn{userTurn("hmm")},
			FormState: models.FormState{"account": "chequing", "amount": float64(50)},
		})
		if err != nil {
			t.Fatalf("Handle() error: %v", err)
		}
		if len(res.Actions) != 0 || len(res.SubstepFlags) != 0 {
			t.Errorf("unclear confirmation should just re-ask: %+v", res)
		}
	})
}

func TestCollectThenActReplayPhase(t *testing.T) {
	oc := &scriptedOracle{}
	h := &CollectThenActHandler{Oracle: oc}
	res, err := h.Handle(context.Background(), HandlerInput{
		Substep:   collectSubstep(),
		Turns:     []models.Turn{userTurn("did it work?")},
		FormState: models.FormState{"account": "chequing", "amount": float64(50), "confirmed": true},
	})
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if len(oc.calls) != 0 {
		t.Errorf("replay phase should not call the oracle, got %d calls", len(oc.calls))
	}
	if len(res.Actions) != 1 || res.Actions[0].Selector != "#send-button" {
		t.Errorf("replay should re-emit the final actions, got %v", res.Actions)
	}
	if !res.SubstepFlags["transfer_details_submitted"] {
		t.Error("replay should keep the condition marked complete")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"chequing", "chequing"},
		{true, "true"},
		{float64(50), "50"},
		{float64(12.5), "12.5"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
