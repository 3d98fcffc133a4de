package flow

import "github.com/liuzz10/gui-agent-banking-assistant/internal/models"

// FirstIncomplete scans sub-steps in declaration order and returns the first
// whose completion condition is falsy in flags. Sub-step order encodes the
// required task sequence; conditions already marked true are treated as
// permanently satisfied for the remainder of the turn. A sub-step with an
// empty condition never blocks the scan.
func FirstIncomplete(substeps []Substep, flags models.CompletionFlags) (*Substep, bool) {
	for i := range substeps {
		ss := &substeps[i]
		if ss.CompletionCondition == "" {
			continue
		}
		if !flags[ss.CompletionCondition] {
			return ss, true
		}
	}
	return nil, false
}
