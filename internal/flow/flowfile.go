package flow

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
)

// Flow-definition files let a deployment override or extend the built-in
// catalog without recompiling. The file is read once at startup; the registry
// stays immutable afterwards.

type flowFileDoc struct {
	Flows []flowFileFlow `yaml:"flows"`
}

type flowFileFlow struct {
	Intent   string                  `yaml:"intent"`
	Personas []string                `yaml:"personas"`
	Screens  map[string]flowFileStep `yaml:"screens"`
}

type flowFileStep struct {
	ImmediateReply string            `yaml:"immediate_reply"`
	Prompt         string            `yaml:"prompt"`
	Desc           string            `yaml:"desc"`
	Actions        []flowFileAction  `yaml:"actions"`
	Substeps       []flowFileSubstep `yaml:"substeps"`
}

type flowFileSubstep struct {
	Name                string                    `yaml:"name"`
	Handler             string                    `yaml:"handler"`
	ImmediateReply      string                    `yaml:"immediate_reply"`
	CompletionCondition string                    `yaml:"completion_condition"`
	Prompt              string                    `yaml:"prompt"`
	ActionDescription   string                    `yaml:"action_description"`
	Field               string                    `yaml:"field"`
	Constraint          string                    `yaml:"constraint"`
	RequiredFields      []string                  `yaml:"required_fields"`
	Options             map[string]flowFileOption `yaml:"options"`
	FieldActions        map[string]flowFileAction `yaml:"field_actions"`
	FinalActions        []flowFileAction          `yaml:"final_actions"`
	Actions             []flowFileAction          `yaml:"actions"`
}

type flowFileOption struct {
	Description string           `yaml:"description"`
	Actions     []flowFileAction `yaml:"actions"`
}

type flowFileAction struct {
	Kind     string `yaml:"kind"`
	Selector string `yaml:"selector"`
	Value    string `yaml:"value"`
	Message  string `yaml:"message"`
}

// LoadFlowFile parses a YAML flow-definition file and registers its flows,
// replacing any built-in flow with the same (intent, persona) key.
func LoadFlowFile(reg *Registry, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read flow file: %w", err)
	}
	return loadFlowBytes(reg, data)
}

func loadFlowBytes(reg *Registry, data []byte) error {
	var doc flowFileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse flow file: %w", err)
	}

	for _, fd := range doc.Flows {
		if fd.Intent == "" {
			return fmt.Errorf("flow definition missing intent")
		}
		personas := fd.Personas
		if len(personas) == 0 {
			personas = []string{string(models.PersonaTutor), string(models.PersonaTeller)}
		}
		f := Flow{}
		for screen, sd := range fd.Screens {
			step, err := convertStep(fd.Intent, screen, sd)
			if err != nil {
				return err
			}
			f[models.Screen(screen)] = step
		}
		for _, p := range personas {
			reg.Register(models.Intent(fd.Intent), models.Persona(p), f)
		}
		slog.Info("LoadFlowFile: registered flow from file", "intent", fd.Intent, "personas", personas, "screens", len(f))
	}
	return nil
}

func convertStep(intent, screen string, sd flowFileStep) (*Step, error) {
	step := &Step{
		ImmediateReply: sd.ImmediateReply,
		Prompt:         sd.Prompt,
		Desc:           sd.Desc,
		Actions:        convertActions(sd.Actions),
	}
	for _, ssd := range sd.Substeps {
		kind := models.HandlerKind(ssd.Handler)
		if ssd.Handler == "" {
			kind = models.HandlerDirect
		}
		if !models.IsValidHandlerKind(kind) {
			return nil, fmt.Errorf("flow %s screen %s: unknown handler kind %q", intent, screen, ssd.Handler)
		}
		ss := Substep{
			Name:                ssd.Name,
			Handler:             kind,
			ImmediateReply:      ssd.ImmediateReply,
			CompletionCondition: ssd.CompletionCondition,
			Prompt:              ssd.Prompt,
			ActionDescription:   ssd.ActionDescription,
			Field:               ssd.Field,
			Constraint:          ssd.Constraint,
			RequiredFields:      ssd.RequiredFields,
			FinalActions:        convertActions(ssd.FinalActions),
			Actions:             convertActions(ssd.Actions),
		}
		if len(ssd.Options) > 0 {
			ss.Options = make(map[string]OptionSpec, len(ssd.Options))
			for label, od := range ssd.Options {
				ss.Options[label] = OptionSpec{Description: od.Description, Actions: convertActions(od.Actions)}
			}
		}
		if len(ssd.FieldActions) > 0 {
			ss.FieldActions = make(map[string]models.UIAction, len(ssd.FieldActions))
			for field, ad := range ssd.FieldActions {
				ss.FieldActions[field] = convertAction(ad)
			}
		}
		step.Substeps = append(step.Substeps, ss)
	}
	return step, nil
}

func convertActions(in []flowFileAction) []models.UIAction {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.UIAction, len(in))
	for i, a := range in {
		out[i] = convertAction(a)
	}
	return out
}

func convertAction(a flowFileAction) models.UIAction {
	return models.UIAction{
		Kind:     models.UIActionKind(a.Kind),
		Selector: a.Selector,
		Value:    a.Value,
		Message:  a.Message,
	}
}
