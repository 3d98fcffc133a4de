// Package models defines flow type definitions to avoid circular imports.
package models

// Intent represents the user's overall task goal for a session.
type Intent string

// Persona selects which behavior variant of a flow drives the conversation.
type Persona string

// Screen identifies the UI page the user is currently viewing.
type Screen string

// HandlerKind tags the interaction strategy that governs a sub-step.
type HandlerKind string

// Known intents. The orchestrator only accepts intents that resolve in the
// flow registry; everything else is treated as unset.
const (
	IntentETransfer    Intent = "e_transfer"
	IntentPayBills     Intent = "pay_bills"
	IntentCheckBalance Intent = "check_balance"
	// IntentUnknown is the sentinel echoed to the caller while the intent is
	// still being resolved.
	IntentUnknown Intent = "unknown"
)

// Personas. Tutor guides the user to act; Teller acts on the user's behalf.
const (
	PersonaTutor  Persona = "tutor"
	PersonaTeller Persona = "teller"
)

// Handler strategy tags. Sub-steps with an empty kind run as HandlerDirect.
const (
	HandlerDirect         HandlerKind = "direct"
	HandlerYesNo          HandlerKind = "yes_no"
	HandlerClassification HandlerKind = "classification"
	HandlerSelection      HandlerKind = "selection"
	HandlerConfirmation   HandlerKind = "confirmation"
	HandlerFill           HandlerKind = "fill"
	HandlerCollectThenAct HandlerKind = "collect_then_act"
)

// IsValidHandlerKind checks if the given handler kind is supported.
func IsValidHandlerKind(k HandlerKind) bool {
	switch k {
	case HandlerDirect, HandlerYesNo, HandlerClassification, HandlerSelection,
		HandlerConfirmation, HandlerFill, HandlerCollectThenAct:
		return true
	default:
		return false
	}
}

// ClarificationRequired is the escape value every classification-style oracle
// instruction offers when the user's text does not resolve to a known label.
const ClarificationRequired = "clarification_required"
