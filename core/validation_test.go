package core

import (
	"errors"
	"testing"
)

func validSituation() *Situation {
	return &Situation{
		ID:             "police_id_check",
		Category:       "identificacion",
		Title:          "Me piden el DNI",
		Description:    "Un policía te pide identificarte.",
		Severity:       SeverityMedium,
		Keywords:       []string{"dni", "documento"},
		NaturalQueries: []string{"me piden el dni"},
		IsActive:       true,
	}
}

func TestValidateSituation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Situation)
		nilArg  bool
		wantErr error
	}{
		{name: "valid situation", mutate: func(s *Situation) {}},
		{name: "nil situation", nilArg: true, wantErr: ErrInvalidSituation},
		{name: "empty id", mutate: func(s *Situation) { s.ID = "" }, wantErr: ErrMissingField},
		{name: "blank title", mutate: func(s *Situation) { s.Title = "   " }, wantErr: ErrMissingField},
		{name: "no keywords", mutate: func(s *Situation) { s.Keywords = nil }, wantErr: ErrMissingField},
		{name: "blank keywords", mutate: func(s *Situation) { s.Keywords = []string{"", " "} }, wantErr: ErrMissingField},
		{name: "no natural queries", mutate: func(s *Situation) { s.NaturalQueries = []string{} }, wantErr: ErrMissingField},
		{name: "unknown severity", mutate: func(s *Situation) { s.Severity = "extreme" }, wantErr: ErrInvalidSeverity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s *Situation
			if !tt.nilArg {
				s = validSituation()
				tt.mutate(s)
			}
			err := ValidateSituation(s)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSituation() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSituation() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidSituation) {
				t.Errorf("ValidateSituation() error = %v, want it wrapped in ErrInvalidSituation", err)
			}
		})
	}
}

func TestValidateRight(t *testing.T) {
	valid := func() *Right {
		return &Right{
			ID:          "right_silence",
			Title:       "Derecho a guardar silencio",
			Description: "Puedes no declarar.",
			LegalBasis:  "CPP art. 71",
			Category:    "debido_proceso",
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *Right)
		wantErr error
	}{
		{name: "valid right", mutate: func(r *Right) {}},
		{name: "missing legal basis", mutate: func(r *Right) { r.LegalBasis = "" }, wantErr: ErrMissingField},
		{name: "wrong prefix", mutate: func(r *Right) { r.ID = "silence" }, wantErr: ErrInvalidIDPrefix},
		{name: "unknown category", mutate: func(r *Right) { r.Category = "otros" }, wantErr: ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(r)
			err := ValidateRight(r)
			if tt.wantErr == nil && err != nil {
				t.Errorf("ValidateRight() unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRight() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAction(t *testing.T) {
	tests := []struct {
		name    string
		action  *Action
		wantErr error
	}{
		{
			name:   "valid action",
			action: &Action{ID: "action_record", ActionType: ActionRecord, Title: "Graba", Description: "Graba la intervención."},
		},
		{
			name:    "unknown type",
			action:  &Action{ID: "action_run", ActionType: "correr", Title: "Corre", Description: "No."},
			wantErr: ErrInvalidActionType,
		},
		{
			name:    "wrong prefix",
			action:  &Action{ID: "record", ActionType: ActionRecord, Title: "Graba", Description: "Graba."},
			wantErr: ErrInvalidIDPrefix,
		},
		{
			name:    "nil action",
			action:  nil,
			wantErr: ErrInvalidAction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAction(tt.action)
			if tt.wantErr == nil && err != nil {
				t.Errorf("ValidateAction() unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAction() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateContact(t *testing.T) {
	c := &EmergencyContact{ID: "contact_x", Institution: "Defensoría", Description: "Quejas", ContactType: "denuncia"}
	if err := ValidateContact(c); !errors.Is(err, ErrNoContactChannel) {
		t.Errorf("ValidateContact() error = %v, want %v", err, ErrNoContactChannel)
	}

	c.WhatsApp = "999999999"
	if err := ValidateContact(c); err != nil {
		t.Errorf("ValidateContact() unexpected error: %v", err)
	}

	c.ContactType = "chisme"
	if err := ValidateContact(c); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("ValidateContact() error = %v, want %v", err, ErrInvalidCategory)
	}
}

func TestValidateSource(t *testing.T) {
	s := &LegalSource{
		ID:         "const_art2",
		SourceType: "constitucion",
		Name:       "Constitución",
		FullText:   "Toda persona tiene derecho...",
		Summary:    "Derechos fundamentales",
		Status:     "vigente",
	}
	if err := ValidateSource(s); err != nil {
		t.Errorf("ValidateSource() unexpected error: %v", err)
	}

	s.Status = "olvidado"
	if err := ValidateSource(s); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("ValidateSource() error = %v, want %v", err, ErrInvalidCategory)
	}

	s.Status = "vigente"
	s.Summary = ""
	if err := ValidateSource(s); !errors.Is(err, ErrMissingField) {
		t.Errorf("ValidateSource() error = %v, want %v", err, ErrMissingField)
	}
}

func TestValidateTimeLimit(t *testing.T) {
	negative := -1.0
	tests := []struct {
		name    string
		tl      *TimeLimit
		wantErr error
	}{
		{name: "valid", tl: &TimeLimit{ID: "tl_1", SituationID: "s", Description: "d", MaxHours: 4}},
		{name: "fractional hours", tl: &TimeLimit{ID: "tl_2", SituationID: "s", Description: "d", MaxHours: 0.5}},
		{name: "negative hours", tl: &TimeLimit{ID: "tl_3", SituationID: "s", Description: "d", MaxHours: -2}, wantErr: ErrNegativeHours},
		{name: "negative emergency hours", tl: &TimeLimit{ID: "tl_4", SituationID: "s", Description: "d", MaxHoursEmergency: &negative}, wantErr: ErrNegativeHours},
		{name: "no owner", tl: &TimeLimit{ID: "tl_5", Description: "d"}, wantErr: ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimeLimit(tt.tl)
			if tt.wantErr == nil && err != nil {
				t.Errorf("ValidateTimeLimit() unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTimeLimit() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateContextAndMyth(t *testing.T) {
	if err := ValidateContext(&Context{ID: "normal", Name: "Normal", ContextType: ContextTypeNormal}); err != nil {
		t.Errorf("ValidateContext() unexpected error: %v", err)
	}
	if err := ValidateContext(&Context{ID: "x", Name: "X", ContextType: "guerra"}); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("ValidateContext() error = %v, want %v", err, ErrInvalidCategory)
	}
	if err := ValidateMyth(&Myth{ID: "myth_1", Myth: "m", Reality: "r", Category: "c"}); !errors.Is(err, ErrMissingField) {
		t.Errorf("ValidateMyth() error = %v, want %v", err, ErrMissingField)
	}
}

func TestValidateStepOrder(t *testing.T) {
	step := func(situation, context string, order int, available bool) *SituationAction {
		return &SituationAction{SituationID: situation, ActionID: "action_x", ContextID: context, StepOrder: order, IsAvailable: available}
	}

	tests := []struct {
		name    string
		steps   []*SituationAction
		wantErr bool
	}{
		{
			name:  "contiguous from one",
			steps: []*SituationAction{step("a", "normal", 1, true), step("a", "normal", 2, true), step("a", "normal", 3, true)},
		},
		{
			name:  "contiguous from arbitrary start, unordered input",
			steps: []*SituationAction{step("a", "normal", 7, true), step("a", "normal", 5, true), step("a", "normal", 6, true)},
		},
		{
			name: "independent contexts",
			steps: []*SituationAction{
				step("a", "normal", 1, true), step("a", "normal", 2, true),
				step("a", "estado_emergencia", 1, true),
			},
		},
		{
			name:  "trailing unavailable step",
			steps: []*SituationAction{step("a", "normal", 1, true), step("a", "normal", 2, false)},
		},
		{
			name:    "gap",
			steps:   []*SituationAction{step("a", "normal", 1, true), step("a", "normal", 3, true)},
			wantErr: true,
		},
		{
			name:    "duplicate order",
			steps:   []*SituationAction{step("a", "normal", 1, true), step("a", "normal", 1, true)},
			wantErr: true,
		},
		{
			name:    "unavailable step in the middle",
			steps:   []*SituationAction{step("a", "normal", 1, true), step("a", "normal", 2, false), step("a", "normal", 3, true)},
			wantErr: true,
		},
		{
			name:  "empty",
			steps: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStepOrder(tt.steps)
			if tt.wantErr && !errors.Is(err, ErrStepOrderGap) {
				t.Errorf("ValidateStepOrder() error = %v, want %v", err, ErrStepOrderGap)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateStepOrder() unexpected error: %v", err)
			}
		})
	}
}
