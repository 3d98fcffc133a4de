// Package models defines the core data structures for the banking assistant.
//
// It includes the per-turn request/response contract, UI action descriptions,
// and the shared API response envelope used by every HTTP handler.
package models

import (
	"errors"
	"strings"
)

// Role constants for conversation turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// UIActionKind defines the client-side effect an action describes.
type UIActionKind string

const (
	// UIActionClick asks the client to click the element at Selector.
	UIActionClick UIActionKind = "click"
	// UIActionSelect asks the client to choose Value in the select at Selector.
	UIActionSelect UIActionKind = "select"
	// UIActionFill asks the client to type Value into the input at Selector.
	UIActionFill UIActionKind = "fill"
	// UIActionHighlight asks the client to visually mark the element at Selector.
	UIActionHighlight UIActionKind = "highlight"
	// UIActionNavigate asks the client to load the page named by Selector.
	UIActionNavigate UIActionKind = "navigate"
)

// Validation constants for input validation
const (
	// MaxTurnContentLength defines the maximum allowed length for a single turn's text
	MaxTurnContentLength = 4096
	// MaxTurnsPerRequest defines the maximum number of conversation turns accepted per request
	MaxTurnsPerRequest = 200
)

// Error variables for better error handling and testability
var (
	ErrEmptyMessages     = errors.New("at least one message is required")
	ErrTooManyMessages   = errors.New("too many messages in request")
	ErrInvalidRole       = errors.New("message role must be 'user' or 'assistant'")
	ErrTurnContentTooLong = errors.New("message content exceeds maximum length")
	ErrMissingScreen     = errors.New("currentScreen is required")
)

// Turn is a single speaker entry in the conversation history.
type Turn struct {
	Role    string `json:"role"`    // "user" or "assistant"
	Content string `json:"content"` // message text
}

// UIAction describes a side effect the engine requests but never executes.
type UIAction struct {
	Kind     UIActionKind `json:"kind"`
	Selector string       `json:"selector"`
	Value    string       `json:"value,omitempty"`
	Message  string       `json:"message,omitempty"`
}

// CompletionFlags records which sub-step conditions have been satisfied. The
// caller owns its lifecycle and replays it on every turn.
type CompletionFlags map[string]bool

// FormState holds the structured field values being collected across turns.
// Values are merged monotonically: non-null incoming values overwrite, null
// never erases.
type FormState map[string]any

// TurnRequest is the per-turn input to the orchestration engine.
//
// The engine is stateless across turns: SubstepFlags and FormState must be
// reconstructed by the caller from the previous TurnResult plus local UI
// events. Two concurrent requests for the same logical task can race and
// silently diverge; callers must serialize turns per task instance.
type TurnRequest struct {
	Messages         []Turn          `json:"messages"`
	Intent           string          `json:"intent,omitempty"` // nullable enum or sentinel string
	CurrentScreen    string          `json:"currentScreen"`
	ScreenJustLoaded bool            `json:"screenJustLoaded"`
	SubstepFlags     CompletionFlags `json:"substepFlags,omitempty"`
	FormState        FormState       `json:"formState,omitempty"`
	Persona          string          `json:"persona,omitempty"`
}

// Validate performs validation on a TurnRequest structure.
func (r *TurnRequest) Validate() error {
	if len(r.Messages) == 0 {
		return ErrEmptyMessages
	}
	if len(r.Messages) > MaxTurnsPerRequest {
		return ErrTooManyMessages
	}
	for _, m := range r.Messages {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return ErrInvalidRole
		}
		if len(m.Content) > MaxTurnContentLength {
			return ErrTurnContentTooLong
		}
	}
	if strings.TrimSpace(r.CurrentScreen) == "" {
		return ErrMissingScreen
	}
	return nil
}

// NormalizeIntent maps the frontend's assorted "no intent yet" sentinels to
// the empty string so the orchestrator has a single unset representation.
func NormalizeIntent(raw string) Intent {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "", "unknown", "null", "undefined", "none":
		return ""
	default:
		return Intent(strings.TrimSpace(raw))
	}
}

// NormalizePersona defaults blank personas to the tutor variant.
func NormalizePersona(raw string) Persona {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case string(PersonaTeller):
		return PersonaTeller
	default:
		return PersonaTutor
	}
}

// TurnResult is the engine's answer for one turn. SubstepFlags is a delta the
// caller merges into its copy; FormState, when present, replaces the caller's
// copy wholesale.
type TurnResult struct {
	Intent       Intent          `json:"intent"`
	Message      string          `json:"message,omitempty"`
	Actions      []UIAction      `json:"actions,omitempty"`
	SubstepFlags CompletionFlags `json:"substepFlags,omitempty"`
	FormState    FormState       `json:"formState,omitempty"`
}

// MarkComplete records a satisfied completion condition on the result,
// allocating the delta map on first use. Empty condition names are ignored.
func (t *TurnResult) MarkComplete(condition string) {
	if condition == "" {
		return
	}
	if t.SubstepFlags == nil {
		t.SubstepFlags = CompletionFlags{}
	}
	t.SubstepFlags[condition] = true
}
