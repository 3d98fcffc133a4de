package oracle

import "github.com/liuzz10/gui-agent-banking-assistant/internal/models"

// MergeConsecutiveTurns collapses runs of consecutive same-role turns into one
// turn by joining their text with a single space, preserving order. The oracle
// contract requires strict alternation between the two speakers; sending
// un-normalized history causes API-side errors.
func MergeConsecutiveTurns(turns []models.Turn) []models.Turn {
	if len(turns) == 0 {
		return []models.Turn{}
	}
	merged := make([]models.Turn, 0, len(turns))
	merged = append(merged, turns[0])
	for _, t := range turns[1:] {
		last := &merged[len(merged)-1]
		if t.Role == last.Role {
			last.Content += " " + t.Content
		} else {
			merged = append(merged, t)
		}
	}
	return merged
}
