package flow

import (
	"context"
	"errors"
	"log/slog"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
	"github.com/liuzz10/gui-agent-banking-assistant/internal/oracle"
)

// Orchestrator resolves the intent, locates the current step and sub-step,
// and dispatches to the governing handler strategy. It holds no per-task
// state: every call is fully determined by the request plus the registry.
type Orchestrator struct {
	registry *Registry
	oracle   oracle.ClientInterface
}

// NewOrchestrator creates an orchestrator over an immutable registry.
func NewOrchestrator(reg *Registry, oc oracle.ClientInterface) *Orchestrator {
	return &Orchestrator{registry: reg, oracle: oc}
}

// ProcessTurn runs one conversational turn end to end.
func (o *Orchestrator) ProcessTurn(ctx context.Context, req *models.TurnRequest) (*models.TurnResult, error) {
	persona := models.NormalizePersona(req.Persona)
	intent := models.NormalizeIntent(req.Intent)
	screen := models.Screen(req.CurrentScreen)
	slog.Debug("Orchestrator.ProcessTurn: processing turn",
		"intent", intent, "persona", persona, "screen", screen,
		"screen_just_loaded", req.ScreenJustLoaded, "turns", len(req.Messages))

	if intent == "" {
		resolved, result, err := o.resolveIntent(ctx, req.Messages)
		if err != nil {
			return nil, err
		}
		if result != nil {
			// Intent still unclear; a clarifying question goes back without
			// touching the flow registry.
			return result, nil
		}
		intent = resolved
	}

	step, err := o.registry.ResolveStep(intent, persona, screen)
	if err != nil {
		if errors.Is(err, ErrUnknownIntent) || errors.Is(err, ErrUnknownScreen) {
			slog.Warn("Orchestrator.ProcessTurn: registry miss, returning fallback",
				"intent", intent, "persona", persona, "screen", screen, "error", err)
			return &models.TurnResult{Intent: intent, Message: fallbackMessage}, nil
		}
		return nil, err
	}

	substeps := step.Substeps
	if len(substeps) == 0 {
		// A step without sub-steps acts as a single always-applicable
		// directive.
		if req.ScreenJustLoaded || step.Prompt == "" {
			return &models.TurnResult{Intent: intent, Message: step.ImmediateReply, Actions: step.Actions}, nil
		}
		return o.freeChat(ctx, intent, step, req.Messages)
	}

	ss, found := FirstIncomplete(substeps, req.SubstepFlags)
	if !found {
		// Every condition on this screen is satisfied. Keep answering
		// questions against the step's prompt when it has one.
		if step.Prompt != "" && !req.ScreenJustLoaded {
			return o.freeChat(ctx, intent, step, req.Messages)
		}
		return &models.TurnResult{Intent: intent, Message: stepCompleteMessage}, nil
	}

	slog.Debug("Orchestrator.ProcessTurn: dispatching sub-step",
		"substep", ss.Name, "handler", ss.Handler, "condition", ss.CompletionCondition)
	handler := handlerFor(ss.Handler, o.oracle)
	return handler.Handle(ctx, HandlerInput{
		Substep:          ss,
		Turns:            req.Messages,
		Intent:           intent,
		ScreenJustLoaded: req.ScreenJustLoaded,
		FormState:        req.FormState,
	})
}

// resolveIntent classifies the conversation into a known intent. When the
// oracle escapes with clarification_required, or hallucinates a label outside
// the registry, a second call produces a clarifying question and the turn
// returns immediately with the unknown sentinel.
func (o *Orchestrator) resolveIntent(ctx context.Context, turns []models.Turn) (models.Intent, *models.TurnResult, error) {
	intents := o.registry.Intents()
	answer, err := o.oracle.Call(ctx, buildIntentInstruction(intents), turns)
	if err != nil {
		return "", nil, err
	}

	label := models.Intent(canonicalLabel(answer))
	if label != models.Intent(models.ClarificationRequired) && o.registry.HasIntent(label) {
		slog.Debug("Orchestrator.resolveIntent: intent resolved", "intent", label)
		return label, nil, nil
	}

	if label != models.Intent(models.ClarificationRequired) {
		slog.Warn("Orchestrator.resolveIntent: oracle returned unknown intent label", "answer", answer)
	}
	question, err := o.oracle.Call(ctx, buildIntentClarifyInstruction(intents), turns)
	if err != nil {
		return "", nil, err
	}
	return "", &models.TurnResult{Intent: models.IntentUnknown, Message: question}, nil
}

// freeChat answers follow-up questions against the step's system prompt while
// the user lingers on a screen whose instructions were already given.
func (o *Orchestrator) freeChat(ctx context.Context, intent models.Intent, step *Step, turns []models.Turn) (*models.TurnResult, error) {
	reply, err := o.oracle.Call(ctx, step.Prompt, turns)
	if err != nil {
		return nil, err
	}
	return &models.TurnResult{Intent: intent, Message: reply}, nil
}
