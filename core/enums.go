// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"fmt"
	"slices"
)

// Severity ranks how serious a situation is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityOrder = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Rank returns 1 for low through 4 for critical, 0 for unknown values.
func (s Severity) Rank() int {
	return slices.Index(severityOrder, s) + 1
}

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// ParseSeverity converts a string to a Severity.
// An empty string yields SeverityMedium.
func ParseSeverity(s string) (Severity, error) {
	if s == "" {
		return SeverityMedium, nil
	}
	sev := Severity(s)
	if !sev.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSeverity, s)
	}
	return sev, nil
}

// ActionType classifies what an action asks of the citizen.
type ActionType string

const (
	ActionSay      ActionType = "decir"
	ActionDo       ActionType = "hacer"
	ActionDoNot    ActionType = "no_hacer"
	ActionRecord   ActionType = "grabar"
	ActionCall     ActionType = "llamar"
	ActionDocument ActionType = "documentar"
)

var actionTypes = []ActionType{ActionSay, ActionDo, ActionDoNot, ActionRecord, ActionCall, ActionDocument}

// Valid reports whether t is one of the closed set of action types.
func (t ActionType) Valid() bool {
	return slices.Contains(actionTypes, t)
}

// Context types.
const (
	ContextTypeNormal    = "normal"
	ContextTypeEmergency = "estado_emergencia"
	ContextTypeCurfew    = "toque_queda"
	ContextTypeOperation = "operativo"
)

// Closed vocabularies checked at validation time.
var (
	RightCategories = []string{"libertad", "integridad", "comunicaciones", "propiedad", "debido_proceso", "dignidad"}
	ContactTypes    = []string{"denuncia", "asesoria", "emergencia", "habeas_corpus"}
	SourceTypes     = []string{
		"constitucion", "codigo_penal", "codigo_procesal", "decreto_legislativo",
		"ley", "jurisprudencia", "tratado_internacional",
	}
	SourceStatuses = []string{"vigente", "modificado", "derogado", "parcialmente_inconstitucional"}
	ContextTypes   = []string{ContextTypeNormal, ContextTypeEmergency, ContextTypeCurfew, ContextTypeOperation}
)
