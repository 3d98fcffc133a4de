package flow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
)

// Fixed oracle instructions. Classification-style instructions always offer
// clarification_required as an escape value so the oracle never has to guess.

const intentInstructionTmpl = `You are a helpful banking assistant. Your job is to identify the user's goal (choose one of: %s).
If the user's goal is clear, reply with exactly one of the intent names above.
If the user's goal is unclear, ambiguous, or missing, respond with exactly: %s.
Do not guess. Do not explain your choice. Do not include any punctuation or extra words.`

const intentClarifyInstructionTmpl = `The user's intent is unclear. Ask a short, polite follow-up question that will help determine which of these banking tasks the user wants: %s.
Respond with a single, clear question, no longer than 20 words. Do not guess the user's intent. Only ask one question at a time.`

const yesNoInstructionTmpl = `The user was asked: "%s"
Decide whether the user's latest reply means yes or no.
Reply with exactly one word: yes, no, or unclear. Do not add punctuation or extra words.`

const confirmInstructionTmpl = `The user was asked to confirm whether they want to %s.
Decide whether the user's latest reply means yes or no.
Reply with exactly one word: yes, no, or unclear. Do not add punctuation or extra words.`

const classifyInstructionTmpl = `You are helping the user with a banking task. Classify the user's answer into exactly one of these labels:
%s
If the answer does not clearly match any label, respond with exactly: %s.
Reply with the label only. Do not explain. Do not add punctuation or extra words.`

const optionClarifyInstructionTmpl = `The user's answer did not clearly match any of the available choices: %s.
Ask a single short question, no longer than 20 words, that helps the user pick one of those choices.`

const fillInstructionTmpl = `Extract the value of "%s" from the user's recent messages. Constraint: %s.
Reply with the value only, nothing else.
If the value is not present or you are not sure, respond with exactly: %s.`

const stripSpellingInstructionTmpl = `The following text contains a name, possibly followed or preceded by the same name spelled out letter by letter (for example "Alex, A L E X").
Reply with just the name itself, without any letter-by-letter spelling: %s`

const collectFillInstructionTmpl = `You are helping the user fill in a form, one short conversational turn at a time.
Fields to collect: %s.
Values known so far: %s.
Ask for the missing fields naturally, one or two at a time. When the user provides a value, acknowledge it briefly. Once every field has a value, ask the user to confirm the assembled values.
End every reply with a line reading STATE: followed by a single JSON object holding all fields, using null for anything still unknown.`

const collectConfirmInstructionTmpl = `You are helping the user confirm a form before submitting it.
Assembled values: %s.
If the user affirms, reply with a short acknowledgment and end with a line reading STATE: followed by a JSON object containing the values plus "confirmed": true.
If the user declines or wants to change a value, update the values from their reply, set "confirmed": false, and end with the STATE: line and JSON object.
If the reply is unclear, ask the user to confirm again and repeat the current STATE: line unchanged.`

// Recoverable-ambiguity messages surfaced to the user.
const (
	yesNoClarifyMessage     = "Sorry, I didn't catch that — was that a yes or a no?"
	didNotUnderstandMessage = "Sorry, I didn't quite understand that. Could you rephrase?"
	neutralAckMessage       = "No problem. Tell me what you'd like to change or do instead."
	fallbackMessage         = "I'm not sure how to help with this page. You can ask me a question, or head back to the home page to continue."
	stepCompleteMessage     = "You've completed this step! Let me know if you need anything else."
)

func buildIntentInstruction(intents []models.Intent) string {
	names := make([]string, len(intents))
	for i, in := range intents {
		names[i] = string(in)
	}
	return fmt.Sprintf(intentInstructionTmpl, strings.Join(names, ", "), models.ClarificationRequired)
}

func buildIntentClarifyInstruction(intents []models.Intent) string {
	names := make([]string, len(intents))
	for i, in := range intents {
		names[i] = string(in)
	}
	return fmt.Sprintf(intentClarifyInstructionTmpl, strings.Join(names, ", "))
}

// sortedLabels returns the option labels in deterministic order so the
// instruction text is stable across turns.
func sortedLabels(options map[string]OptionSpec) []string {
	labels := make([]string, 0, len(options))
	for l := range options {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

func buildClassifyInstruction(options map[string]OptionSpec) string {
	var b strings.Builder
	for _, label := range sortedLabels(options) {
		opt := options[label]
		if opt.Description != "" {
			fmt.Fprintf(&b, "- %s: %s\n", label, opt.Description)
		} else {
			fmt.Fprintf(&b, "- %s\n", label)
		}
	}
	return fmt.Sprintf(classifyInstructionTmpl, strings.TrimRight(b.String(), "\n"), models.ClarificationRequired)
}

func buildOptionClarifyInstruction(options map[string]OptionSpec) string {
	return fmt.Sprintf(optionClarifyInstructionTmpl, strings.Join(sortedLabels(options), ", "))
}
