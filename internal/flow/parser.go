package flow

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/metrics"
	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
)

// Oracle reply grammar: free text, then an optional marker line reading
// "STATE:" (possibly preceded by a separator line of dashes), then a JSON
// object. Trailing commas before a closing brace or bracket are tolerated.
var (
	stateMarkerRe   = regexp.MustCompile(`(?m)^\s*STATE:\s*`)
	separatorLineRe = regexp.MustCompile(`(?m)^\s*-{3,}\s*$`)
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
)

// ParsedReply is the result of splitting raw oracle text into the spoken
// message and the machine-readable state blob.
type ParsedReply struct {
	Message string
	State   models.FormState
}

// ParseOracleReply extracts the human-readable message and the optional state
// object from raw oracle output. Any deviation from the grammar is a
// recoverable parse failure: the state defaults to empty and the turn
// proceeds with a message-only result.
func ParseOracleReply(raw string) ParsedReply {
	loc := stateMarkerRe.FindStringIndex(raw)
	if loc == nil {
		return ParsedReply{Message: strings.TrimSpace(raw), State: models.FormState{}}
	}

	message := raw[:loc[0]]
	message = separatorLineRe.ReplaceAllString(message, "")
	message = strings.TrimSpace(message)

	blob := strings.TrimSpace(raw[loc[1]:])
	blob = trailingCommaRe.ReplaceAllString(blob, "$1")

	state := models.FormState{}
	if blob != "" {
		if err := json.Unmarshal([]byte(blob), &state); err != nil {
			slog.Warn("ParseOracleReply: state blob is not valid JSON, continuing message-only", "error", err)
			metrics.IncStateParseFailure()
			state = models.FormState{}
		}
	}
	return ParsedReply{Message: message, State: state}
}
