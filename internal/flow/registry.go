// Package flow implements the flow orchestration engine: the static flow
// catalog, completion tracking, handler strategies, and the per-turn
// orchestrator that ties them together.
package flow

import (
	"errors"
	"log/slog"
	"sort"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
)

// Error variables for registry lookups.
var (
	ErrUnknownIntent = errors.New("no flow registered for intent")
	ErrUnknownScreen = errors.New("no step registered for screen")
)

// OptionSpec maps a canonical classification label to the reply and UI actions
// chosen when the oracle resolves the user's text to that label.
type OptionSpec struct {
	Description string
	Actions     []models.UIAction
}

// Substep is the atomic unit of guided progress within a step.
//
// A sub-step with a Handler must define the data that strategy requires:
// Options for yes/no, classification and selection; ActionDescription for
// confirmation; Field and Constraint for fill; RequiredFields, FieldActions
// and FinalActions for collect-then-act.
type Substep struct {
	Name                string
	ImmediateReply      string // shown on first arrival
	CompletionCondition string // flag name; empty means the tracker never waits on it
	Handler             models.HandlerKind
	Prompt              string                       // strategy-specific framing, where a handler wants one
	Options             map[string]OptionSpec        // label -> option, matched case-insensitively
	ActionDescription   string                       // confirmation: what a "yes" will do
	Field               string                       // fill: name of the extracted field
	Constraint          string                       // fill: natural-language value constraint
	RequiredFields      []string                     // collect: fields that must become non-null
	FieldActions        map[string]models.UIAction   // collect: field -> action template for composed fills
	FinalActions        []models.UIAction            // collect: emitted once the user confirms
	Actions             []models.UIAction            // literal action list for direct/fill/confirmation
}

// Step holds either a single directive or an ordered collection of sub-steps.
// Prompt, when set, is the system instruction for free-form follow-up chat
// once every sub-step of the step is complete.
type Step struct {
	ImmediateReply string
	Prompt         string
	Desc           string
	Actions        []models.UIAction
	Substeps       []Substep
}

// Flow is an ordered mapping from screen to step, scoped per (intent, persona).
type Flow map[models.Screen]*Step

type flowKey struct {
	intent  models.Intent
	persona models.Persona
}

// Registry is the static, read-only catalog of flows. It is populated once at
// startup and never mutated afterwards.
type Registry struct {
	flows map[flowKey]Flow
}

// NewRegistry creates an empty flow registry.
func NewRegistry() *Registry {
	return &Registry{flows: make(map[flowKey]Flow)}
}

// Register adds a flow for the given intent and persona. Registering the same
// key twice replaces the earlier flow; this only happens at startup when a
// flow-definition file overrides a built-in.
func (r *Registry) Register(intent models.Intent, persona models.Persona, f Flow) {
	slog.Debug("Registry.Register: adding flow", "intent", intent, "persona", persona, "screens", len(f))
	r.flows[flowKey{intent: intent, persona: persona}] = f
}

// ResolveStep looks up the step for (intent, persona, screen).
func (r *Registry) ResolveStep(intent models.Intent, persona models.Persona, screen models.Screen) (*Step, error) {
	f, ok := r.flows[flowKey{intent: intent, persona: persona}]
	if !ok {
		return nil, ErrUnknownIntent
	}
	step, ok := f[screen]
	if !ok {
		return nil, ErrUnknownScreen
	}
	return step, nil
}

// HasIntent reports whether any flow is registered for the intent, regardless
// of persona.
func (r *Registry) HasIntent(intent models.Intent) bool {
	for k := range r.flows {
		if k.intent == intent {
			return true
		}
	}
	return false
}

// Intents returns the sorted set of registered intents. The orchestrator uses
// it to build the intent-classification instruction.
func (r *Registry) Intents() []models.Intent {
	seen := make(map[models.Intent]struct{})
	for k := range r.flows {
		seen[k.intent] = struct{}{}
	}
	out := make([]models.Intent, 0, len(seen))
	for in := range seen {
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
