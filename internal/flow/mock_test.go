package flow

import (
	"context"
	"fmt"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
)

// scriptedOracle replays a fixed sequence of replies and records every call it
// receives, so tests can assert both the dispatch result and the instructions
// plus history each strategy sent.
type scriptedOracle struct {
	replies []string
	err     error
	calls   []oracleCall
}

type oracleCall struct {
	instruction string
	turns       []models.Turn
}

func (s *scriptedOracle) Call(ctx context.Context, instruction string, turns []models.Turn) (string, error) {
	s.calls = append(s.calls, oracleCall{instruction: instruction, turns: turns})
	if s.err != nil {
		return "", s.err
	}
	i := len(s.calls) - 1
	if i >= len(s.replies) {
		return "", fmt.Errorf("unexpected oracle call %d: %q", i, instruction)
	}
	return s.replies[i], nil
}

func userTurn(content string) models.Turn {
	return models.Turn{Role: models.RoleUser, Content: content}
}

func assistantTurn(content string) models.Turn {
	return models.Turn{Role: models.RoleAssistant, Content: content}
}
