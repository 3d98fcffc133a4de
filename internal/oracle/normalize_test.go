package oracle

import (
	"reflect"
	"testing"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
)

func TestMergeConsecutiveTurns(t *testing.T) {
	tests := []struct {
		name  string
		turns []models.Turn
		want  []models.Turn
	}{
		{
			name:  "empty history",
			turns: nil,
			want:  []models.Turn{},
		},
		{
			name: "already alternating",
			turns: []models.Turn{
				{Role: models.RoleUser, Content: "hi"},
				{Role: models.RoleAssistant, Content: "hello"},
			},
			want: []models.Turn{
				{Role: models.RoleUser, Content: "hi"},
				{Role: models.RoleAssistant, Content: "hello"},
			},
		},
		{
			name: "run of user turns",
			turns: []models.Turn{
				{Role: models.RoleUser, Content: "send money"},
				{Role: models.RoleUser, Content: "to Alex"},
				{Role: models.RoleAssistant, Content: "sure"},
				{Role: models.RoleUser, Content: "thanks"},
			},
			want: []models.Turn{
				{Role: models.RoleUser, Content: "send money to Alex"},
				{Role: models.RoleAssistant, Content: "sure"},
				{Role: models.RoleUser, Content: "thanks"},
			},
		},
		{
			name: "all one role",
			turns: []models.Turn{
				{Role: models.RoleUser, Content: "a"},
				{Role: models.RoleUser, Content: "b"},
				{Role: models.RoleUser, Content: "c"},
			},
			want: []models.Turn{
				{Role: models.RoleUser, Content: "a b c"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeConsecutiveTurns(tt.turns)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeConsecutiveTurns() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeConsecutiveTurnsDoesNotMutateInput(t *testing.T) {
	turns := []models.Turn{
		{Role: models.RoleUser, Content: "a"},
		{Role: models.RoleUser, Content: "b"},
	}
	MergeConsecutiveTurns(turns)
	if turns[0].Content != "a" {
		t.Errorf("input slice was mutated: %v", turns)
	}
}
