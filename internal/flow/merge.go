package flow

import "github.com/liuzz10/gui-agent-banking-assistant/internal/models"

// MergeFormState merges update into existing, overwriting a field only when
// the incoming value is non-null. Null or absent values never erase a
// previously known field. Neither input is modified.
func MergeFormState(existing, update models.FormState) models.FormState {
	merged := make(models.FormState, len(existing)+len(update))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range update {
		if v == nil {
			continue
		}
		merged[k] = v
	}
	return merged
}
