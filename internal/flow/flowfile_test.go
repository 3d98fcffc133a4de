package flow

import (
	"strings"
	"testing"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
)

const sampleFlowYAML = `
flows:
  - intent: order_cheques
    personas: [tutor]
    screens:
      index.html:
        prompt: "Help the user order cheques."
        substeps:
          - name: open_services_tab
            handler: direct
            immediate_reply: "Click the 'Services' tab."
            completion_condition: services_tab_opened
            actions:
              - kind: highlight
                selector: "#nav-services"
      services.html:
        substeps:
          - name: confirm_order
            handler: confirmation
            immediate_reply: "Should I order a new cheque book?"
            completion_condition: cheques_ordered
            action_description: "order a cheque book"
            actions:
              - kind: click
                selector: "#order-button"
`

func TestLoadFlowBytes(t *testing.T) {
	reg := NewRegistry()
	if err := loadFlowBytes(reg, []byte(sampleFlowYAML)); err != nil {
		t.Fatalf("loadFlowBytes() error: %v", err)
	}

	step, err := reg.ResolveStep("order_cheques", models.PersonaTutor, "index.html")
	if err != nil {
		t.Fatalf("ResolveStep() error: %v", err)
	}
	if step.Prompt != "Help the user order cheques." {
		t.Errorf("Prompt = %q", step.Prompt)
	}
	if len(step.Substeps) != 1 {
		t.Fatalf("Substeps = %v", step.Substeps)
	}
	ss := step.Substeps[0]
	if ss.Handler != models.HandlerDirect || ss.CompletionCondition != "services_tab_opened" {
		t.Errorf("substep = %+v", ss)
	}
	if len(ss.Actions) != 1 || ss.Actions[0].Kind != models.UIActionHighlight || ss.Actions[0].Selector != "#nav-services" {
		t.Errorf("actions = %v", ss.Actions)
	}

	// The personas list was explicit, so only tutor is registered.
	if _, err := reg.ResolveStep("order_cheques", models.PersonaTeller, "index.html"); err == nil {
		t.Error("teller flow should not exist for a tutor-only definition")
	}

	confirm, err := reg.ResolveStep("order_cheques", models.PersonaTutor, "services.html")
	if err != nil {
		t.Fatalf("ResolveStep(services) error: %v", err)
	}
	if confirm.Substeps[0].ActionDescription != "order a cheque book" {
		t.Errorf("confirmation substep = %+v", confirm.Substeps[0])
	}
}

func TestLoadFlowBytesDefaultsPersonas(t *testing.T) {
	doc := `
flows:
  - intent: order_cheques
    screens:
      index.html:
        substeps:
          - name: only_step
            immediate_reply: "hi"
            completion_condition: done
`
	reg := NewRegistry()
	if err := loadFlowBytes(reg, []byte(doc)); err != nil {
		t.Fatalf("loadFlowBytes() error: %v", err)
	}
	for _, p := range []models.Persona{models.PersonaTutor, models.PersonaTeller} {
		if _, err := reg.ResolveStep("order_cheques", p, "index.html"); err != nil {
			t.Errorf("expected flow registered for persona %q, got %v", p, err)
		}
	}
	// An omitted handler runs as direct.
	step, _ := reg.ResolveStep("order_cheques", models.PersonaTutor, "index.html")
	if step.Substeps[0].Handler != models.HandlerDirect {
		t.Errorf("Handler = %q, want direct", step.Substeps[0].Handler)
	}
}

func TestLoadFlowBytesRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantSub string
	}{
		{
			name:    "missing intent",
			doc:     "flows:\n  - screens: {}\n",
			wantSub: "missing intent",
		},
		{
			name: "unknown handler kind",
			doc: `
flows:
  - intent: x
    screens:
      index.html:
        substeps:
          - name: bad
            handler: teleport
`,
			wantSub: "unknown handler kind",
		},
		{
			name:    "not yaml",
			doc:     "{{{",
			wantSub: "failed to parse",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := loadFlowBytes(NewRegistry(), []byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("expected error containing %q, got %v", tt.wantSub, err)
			}
		})
	}
}

func TestLoadFlowBytesOverridesBuiltin(t *testing.T) {
	doc := `
flows:
  - intent: e_transfer
    personas: [tutor]
    screens:
      index.html:
        substeps:
          - name: custom_open
            immediate_reply: "Custom opening line."
            completion_condition: etransfer_tab_opened
`
	reg := DefaultRegistry()
	if err := loadFlowBytes(reg, []byte(doc)); err != nil {
		t.Fatalf("loadFlowBytes() error: %v", err)
	}
	step, err := reg.ResolveStep(models.IntentETransfer, models.PersonaTutor, "index.html")
	if err != nil {
		t.Fatalf("ResolveStep() error: %v", err)
	}
	if step.Substeps[0].ImmediateReply != "Custom opening line." {
		t.Errorf("override did not take effect: %+v", step.Substeps[0])
	}
	// The teller variant keeps its built-in flow.
	if _, err := reg.ResolveStep(models.IntentETransfer, models.PersonaTeller, "etransfer.html"); err != nil {
		t.Errorf("teller built-in should survive a tutor-only override, got %v", err)
	}
}
