package models

import (
	"errors"
	"strings"
	"testing"
)

func TestTurnRequestValidate(t *testing.T) {
	valid := TurnRequest{
		Messages:      []Turn{{Role: RoleUser, Content: "hi"}},
		CurrentScreen: "index.html",
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid request to pass, got %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(r *TurnRequest)
		wantErr error
	}{
		{
			name:    "empty messages",
			mutate:  func(r *TurnRequest) { r.Messages = nil },
			wantErr: ErrEmptyMessages,
		},
		{
			name: "too many messages",
			mutate: func(r *TurnRequest) {
				r.Messages = make([]Turn, MaxTurnsPerRequest+1)
				for i := range r.Messages {
					r.Messages[i] = Turn{Role: RoleUser, Content: "x"}
				}
			},
			wantErr: ErrTooManyMessages,
		},
		{
			name:    "invalid role",
			mutate:  func(r *TurnRequest) { r.Messages = []Turn{{Role: "system", Content: "x"}} },
			wantErr: ErrInvalidRole,
		},
		{
			name: "content too long",
			mutate: func(r *TurnRequest) {
				r.Messages = []Turn{{Role: RoleUser, Content: strings.Repeat("a", MaxTurnContentLength+1)}}
			},
			wantErr: ErrTurnContentTooLong,
		},
		{
			name:    "missing screen",
			mutate:  func(r *TurnRequest) { r.CurrentScreen = "  " },
			wantErr: ErrMissingScreen,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			if err := req.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeIntent(t *testing.T) {
	tests := []struct {
		raw  string
		want Intent
	}{
		{"", ""},
		{"unknown", ""},
		{"NULL", ""},
		{"undefined", ""},
		{"none", ""},
		{"e_transfer", IntentETransfer},
		{"  e_transfer  ", IntentETransfer},
		{"pay_bills", IntentPayBills},
	}
	for _, tt := range tests {
		if got := NormalizeIntent(tt.raw); got != tt.want {
			t.Errorf("NormalizeIntent(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizePersona(t *testing.T) {
	if got := NormalizePersona(""); got != PersonaTutor {
		t.Errorf("blank persona should default to tutor, got %q", got)
	}
	if got := NormalizePersona("Teller"); got != PersonaTeller {
		t.Errorf("NormalizePersona(Teller) = %q, want teller", got)
	}
	if got := NormalizePersona("something_else"); got != PersonaTutor {
		t.Errorf("unrecognized persona should default to tutor, got %q", got)
	}
}

func TestMarkComplete(t *testing.T) {
	var res TurnResult
	res.MarkComplete("")
	if res.SubstepFlags != nil {
		t.Error("empty condition should not allocate the flags map")
	}
	res.MarkComplete("amount_entered")
	if !res.SubstepFlags["amount_entered"] {
		t.Error("expected amount_entered to be marked complete")
	}
}

func TestPayeeValidate(t *testing.T) {
	p := Payee{UserID: "u1", Name: "Alex"}
	if err := p.Validate(); err != nil {
		t.Errorf("expected valid payee, got %v", err)
	}
	noUser := Payee{Name: "Alex"}
	if err := noUser.Validate(); !errors.Is(err, ErrMissingUserID) {
		t.Errorf("expected ErrMissingUserID, got %v", err)
	}
	noName := Payee{UserID: "u1"}
	if err := noName.Validate(); !errors.Is(err, ErrMissingPayeeName) {
		t.Errorf("expected ErrMissingPayeeName, got %v", err)
	}
}

func TestAlertValidate(t *testing.T) {
	a := Alert{UserID: "u1", Type: "low_balance"}
	if err := a.Validate(); err != nil {
		t.Errorf("expected valid alert, got %v", err)
	}
	noUser := Alert{Type: "low_balance"}
	if err := noUser.Validate(); !errors.Is(err, ErrMissingUserID) {
		t.Errorf("expected ErrMissingUserID, got %v", err)
	}
	noType := Alert{UserID: "u1"}
	if err := noType.Validate(); !errors.Is(err, ErrMissingAlertType) {
		t.Errorf("expected ErrMissingAlertType, got %v", err)
	}
}

func TestIsValidHandlerKind(t *testing.T) {
	for _, k := range []HandlerKind{HandlerDirect, HandlerYesNo, HandlerClassification, HandlerSelection, HandlerConfirmation, HandlerFill, HandlerCollectThenAct} {
		if !IsValidHandlerKind(k) {
			t.Errorf("expected %q to be a valid handler kind", k)
		}
	}
	if IsValidHandlerKind("teleport") {
		t.Error("expected unknown kind to be invalid")
	}
}
