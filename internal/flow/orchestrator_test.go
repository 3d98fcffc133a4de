package flow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
)

func newTestOrchestrator(oc *scriptedOracle) *Orchestrator {
	return NewOrchestrator(DefaultRegistry(), oc)
}

func TestProcessTurnResolvesIntent(t *testing.T) {
	oc := &scriptedOracle{replies: []string{"e_transfer"}}
	o := newTestOrchestrator(oc)

	res, err := o.ProcessTurn(context.Background(), &models.TurnRequest{
		Messages:         []models.Turn{userTurn("I want to send money to my friend")},
		CurrentScreen:    "index.html",
		ScreenJustLoaded: true,
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error: %v", err)
	}
	if res.Intent != models.IntentETransfer {
		t.Errorf("Intent = %q, want e_transfer", res.Intent)
	}
	if !res.SubstepFlags["etransfer_tab_opened"] {
		t.Errorf("direct first sub-step should complete immediately, flags = %v", res.SubstepFlags)
	}
	if len(res.Actions) != 1 {
		t.Errorf("expected the tab action, got %v", res.Actions)
	}
	if !strings.Contains(oc.calls[0].instruction, "e_transfer") {
		t.Errorf("intent instruction should list registered intents, got %q", oc.calls[0].instruction)
	}
}

func TestProcessTurnIntentSentinelsTreatedAsUnset(t *testing.T) {
	for _, sentinel := range []string{"", "unknown", "null", "undefined", "none"} {
		oc := &scriptedOracle{replies: []string{"e_transfer"}}
		o := newTestOrchestrator(oc)
		res, err := o.ProcessTurn(context.Background(), &models.TurnRequest{
			Messages:         []models.Turn{userTurn("send money")},
			Intent:           sentinel,
			CurrentScreen:    "index.html",
			ScreenJustLoaded: true,
		})
		if err != nil {
			t.Fatalf("sentinel %q: ProcessTurn() error: %v", sentinel, err)
		}
		if len(oc.calls) != 1 {
			t.Errorf("sentinel %q should trigger intent resolution, got %d oracle calls", sentinel, len(oc.calls))
		}
		if res.Intent != models.IntentETransfer {
			t.Errorf("sentinel %q: Intent = %q", sentinel, res.Intent)
		}
	}
}

func TestProcessTurnIntentClarification(t *testing.T) {
	oc := &scriptedOracle{replies: []string{models.ClarificationRequired, "What would you like to do today?"}}
	o := newTestOrchestrator(oc)

	res, err := o.ProcessTurn(context.Background(), &models.TurnRequest{
		Messages:      []models.Turn{userTurn("hello")},
		CurrentScreen: "index.html",
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error: %v", err)
	}
	if res.Intent != models.IntentUnknown {
		t.Errorf("Intent = %q, want the unknown sentinel", res.Intent)
	}
	if res.Message != "What would you like to do today?" {
		t.Errorf("Message = %q", res.Message)
	}
}

func TestProcessTurnHallucinatedIntentLabel(t *testing.T) {
	oc := &scriptedOracle{replies: []string{"buy_crypto", "Did you want to transfer money, pay a bill, or check a balance?"}}
	o := newTestOrchestrator(oc)

	res, err := o.ProcessTurn(context.Background(), &models.TurnRequest{
		Messages:      []models.Turn{userTurn("do the thing")},
		CurrentScreen: "index.html",
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error: %v", err)
	}
	if res.Intent != models.IntentUnknown {
		t.Errorf("an unregistered label should fall back to clarification, got intent %q", res.Intent)
	}
	if len(oc.calls) != 2 {
		t.Errorf("expected a clarifying second call, got %d", len(oc.calls))
	}
}

func TestProcessTurnKnownIntentSkipsResolution(t *testing.T) {
	oc := &scriptedOracle{}
	o := newTestOrchestrator(oc)

	res, err := o.ProcessTurn(context.Background(), &models.TurnRequest{
		Messages:         []models.Turn{userTurn("ok")},
		Intent:           "e_transfer",
		CurrentScreen:    "index.html",
		ScreenJustLoaded: true,
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error: %v", err)
	}
	if len(oc.calls) != 0 {
		t.Errorf("known intent must not call the oracle for resolution, got %d calls", len(oc.calls))
	}
	if res.Intent != models.IntentETransfer {
		t.Errorf("Intent = %q", res.Intent)
	}
}

func TestProcessTurnRegistryMissFallsBack(t *testing.T) {
	oc := &scriptedOracle{}
	o := newTestOrchestrator(oc)

	res, err := o.ProcessTurn(context.Background(), &models.TurnRequest{
		Messages:      []models.Turn{userTurn("help")},
		Intent:        "e_transfer",
		CurrentScreen: "mystery.html",
	})
	if err != nil {
		t.Fatalf("registry miss must not be an error: %v", err)
	}
	if res.Message != fallbackMessage {
		t.Errorf("Message = %q, want the fallback", res.Message)
	}
}

func TestProcessTurnAdvancesToNextSubstep(t *testing.T) {
	// recipient_known already satisfied; the fill sub-step should run next.
	// The name constraint triggers a second, spelling-strip oracle call.
	oc := &scriptedOracle{replies: []string{"Alex", "Alex"}}
	o := newTestOrchestrator(oc)

	res, err := o.ProcessTurn(context.Background(), &models.TurnRequest{
		Messages:      []models.Turn{assistantTurn("Who would you like to send money to?"), userTurn("Alex")},
		Intent:        "e_transfer",
		CurrentScreen: "etransfer.html",
		SubstepFlags:  models.CompletionFlags{"recipient_known": true},
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error: %v", err)
	}
	if !res.SubstepFlags["recipient_selected"] {
		t.Errorf("expected the recipient fill sub-step to complete, flags = %v", res.SubstepFlags)
	}
	if len(res.Actions) != 1 || res.Actions[0].Selector != "#contact-search" {
		t.Errorf("Actions = %v", res.Actions)
	}
}

func TestProcessTurnAllCompleteFreeChat(t *testing.T) {
	oc := &scriptedOracle{replies: []string{"You can pick a contact from the list on the left."}}
	o := newTestOrchestrator(oc)

	res, err := o.ProcessTurn(context.Background(), &models.TurnRequest{
		Messages:      []models.Turn{userTurn("where do I find my contacts?")},
		Intent:        "e_transfer",
		CurrentScreen: "etransfer.html",
		SubstepFlags:  models.CompletionFlags{"recipient_known": true, "recipient_selected": true},
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error: %v", err)
	}
	if res.Message != "You can pick a contact from the list on the left." {
		t.Errorf("Message = %q", res.Message)
	}
	if len(oc.calls) != 1 || oc.calls[0].instruction != pickRecipientPrompt {
		t.Errorf("free chat should use the step prompt, got %q", oc.calls[0].instruction)
	}
}

func TestProcessTurnAllCompleteOnFreshLoad(t *testing.T) {
	oc := &scriptedOracle{}
	o := newTestOrchestrator(oc)

	res, err := o.ProcessTurn(context.Background(), &models.TurnRequest{
		Messages:         []models.Turn{userTurn("back again")},
		Intent:           "e_transfer",
		CurrentScreen:    "etransfer.html",
		ScreenJustLoaded: true,
		SubstepFlags:     models.CompletionFlags{"recipient_known": true, "recipient_selected": true},
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error: %v", err)
	}
	if res.Message != stepCompleteMessage {
		t.Errorf("Message = %q, want the step-complete message", res.Message)
	}
	if len(oc.calls) != 0 {
		t.Errorf("fresh load with everything complete should not call the oracle, got %d calls", len(oc.calls))
	}
}

func TestProcessTurnOracleFailurePropagates(t *testing.T) {
	wantErr := errors.New("oracle down")
	oc := &scriptedOracle{err: wantErr}
	o := newTestOrchestrator(oc)

	_, err := o.ProcessTurn(context.Background(), &models.TurnRequest{
		Messages:      []models.Turn{userTurn("send money")},
		CurrentScreen: "index.html",
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected oracle failure to propagate, got %v", err)
	}
}

func TestProcessTurnTellerPersonaActs(t *testing.T) {
	oc := &scriptedOracle{}
	o := newTestOrchestrator(oc)

	res, err := o.ProcessTurn(context.Background(), &models.TurnRequest{
		Messages:         []models.Turn{userTurn("send money")},
		Intent:           "e_transfer",
		CurrentScreen:    "index.html",
		ScreenJustLoaded: true,
		Persona:          "teller",
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error: %v", err)
	}
	if len(res.Actions) != 1 || res.Actions[0].Kind != models.UIActionClick {
		t.Errorf("teller should click on the user's behalf, got %v", res.Actions)
	}
}

func TestProcessTurnTutorPersonaGuides(t *testing.T) {
	oc := &scriptedOracle{}
	o := newTestOrchestrator(oc)

	res, err := o.ProcessTurn(context.Background(), &models.TurnRequest{
		Messages:         []models.Turn{userTurn("send money")},
		Intent:           "e_transfer",
		CurrentScreen:    "index.html",
		ScreenJustLoaded: true,
		Persona:          "tutor",
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error: %v", err)
	}
	if len(res.Actions) != 1 || res.Actions[0].Kind != models.UIActionHighlight {
		t.Errorf("tutor should highlight rather than act, got %v", res.Actions)
	}
}

func TestRegistryIntentsSorted(t *testing.T) {
	reg := DefaultRegistry()
	intents := reg.Intents()
	want := []models.Intent{models.IntentCheckBalance, models.IntentETransfer, models.IntentPayBills}
	if len(intents) != len(want) {
		t.Fatalf("Intents() = %v, want %v", intents, want)
	}
	for i := range want {
		if intents[i] != want[i] {
			t.Errorf("Intents()[%d] = %q, want %q", i, intents[i], want[i])
		}
	}
}

func TestRegistryResolveStep(t *testing.T) {
	reg := DefaultRegistry()
	if _, err := reg.ResolveStep(models.IntentETransfer, models.PersonaTutor, "etransfer.html"); err != nil {
		t.Errorf("expected step for known key, got %v", err)
	}
	if _, err := reg.ResolveStep("mortgage", models.PersonaTutor, "index.html"); !errors.Is(err, ErrUnknownIntent) {
		t.Errorf("expected ErrUnknownIntent, got %v", err)
	}
	if _, err := reg.ResolveStep(models.IntentETransfer, models.PersonaTutor, "nope.html"); !errors.Is(err, ErrUnknownScreen) {
		t.Errorf("expected ErrUnknownScreen, got %v", err)
	}
}
