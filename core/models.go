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

import "time"

const (
	// ContextNormal is the legal regime that applies unless another one is declared.
	// Every catalog must define it.
	ContextNormal = "normal"

	// AppliesToAll is the default scope of a time limit.
	AppliesToAll = "todos"

	// RelevancePrimary tags the main legal sources backing a right.
	RelevancePrimary = "primary"
)

// Situation is a cataloged police-encounter scenario.
// Keywords and NaturalQueries are never empty in a valid catalog.
type Situation struct {
	ID             string   `json:"id"`
	Category       string   `json:"category"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Severity       Severity `json:"severity"`
	Keywords       []string `json:"keywords"`
	NaturalQueries []string `json:"natural_queries"`
	Icon           string   `json:"icon,omitempty"`
	IsActive       bool     `json:"is_active"`
	ParentID       string   `json:"parent_situation_id,omitempty"` // grouping only, never scored
	DisplayOrder   int      `json:"display_order"`
}

// Right is a legal guarantee a citizen can invoke.
type Right struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	LegalBasis     string `json:"legal_basis"`
	IsAbsolute     bool   `json:"is_absolute"`
	NeverSuspended bool   `json:"never_suspended"`
	Category       string `json:"category"`
	DisplayOrder   int    `json:"display_order"`
}

// Action is a single thing the citizen should say or do.
type Action struct {
	ID                string     `json:"id"`
	ActionType        ActionType `json:"action_type"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Script            string     `json:"script,omitempty"`
	Warning           string     `json:"warning,omitempty"`
	LegalBasisSummary string     `json:"legal_basis_summary,omitempty"`
	Priority          int        `json:"priority"`
}

// EmergencyContact is an institution the citizen can reach for help.
type EmergencyContact struct {
	ID             string `json:"id"`
	Institution    string `json:"institution"`
	Description    string `json:"description"`
	Phone          string `json:"phone,omitempty"`
	WhatsApp       string `json:"whatsapp,omitempty"`
	Email          string `json:"email,omitempty"`
	Website        string `json:"website,omitempty"`
	IsFree         bool   `json:"is_free"`
	AvailableHours string `json:"available_hours,omitempty"`
	ContactType    string `json:"contact_type"`
	RequiresLawyer bool   `json:"requires_lawyer"`
	Priority       int    `json:"priority"`
}

// HasChannel reports whether the contact can be reached at all.
func (c *EmergencyContact) HasChannel() bool {
	return c.Phone != "" || c.WhatsApp != "" || c.Email != "" || c.Website != ""
}

// TimeLimit is a legal maximum duration that applies within a situation.
type TimeLimit struct {
	ID                string   `json:"id"`
	SituationID       string   `json:"situation_id"`
	Description       string   `json:"description"`
	MaxHours          float64  `json:"max_hours"`
	MaxHoursEmergency *float64 `json:"max_hours_emergency,omitempty"`
	AppliesTo         string   `json:"applies_to"`
	AfterExpiryAction string   `json:"after_expiry_action,omitempty"`
	SourceID          string   `json:"source_id,omitempty"`
}

// Context is a named legal regime that can alter which rights apply.
type Context struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	ContextType       string   `json:"context_type"`
	IsCurrentlyActive bool     `json:"is_currently_active"`
	ActiveRegions     []string `json:"active_regions,omitempty"`
	AffectsRights     []string `json:"affects_rights,omitempty"`
	DecreeNumber      string   `json:"decree_number,omitempty"`
	StartDate         string   `json:"start_date,omitempty"`
	EndDate           string   `json:"end_date,omitempty"`
	SourceID          string   `json:"source_id,omitempty"`
}

// IsActiveEmergency reports whether the context is a declared emergency in force.
func (c *Context) IsActiveEmergency() bool {
	return c.IsCurrentlyActive && c.ContextType == ContextTypeEmergency
}

// LegalSource is a citable legal text.
type LegalSource struct {
	ID              string `json:"id"`
	SourceType      string `json:"source_type"`
	Name            string `json:"name"`
	Article         string `json:"article,omitempty"`
	FullText        string `json:"full_text"`
	Summary         string `json:"summary"`
	PublicationDate string `json:"publication_date,omitempty"`
	OfficialURL     string `json:"official_url,omitempty"`
	Status          string `json:"status"`
}

// Myth pairs a common misconception with the legal reality.
type Myth struct {
	ID               string   `json:"id"`
	Myth             string   `json:"myth"`
	Reality          string   `json:"reality"`
	Explanation      string   `json:"explanation"`
	RelatedSourceIDs []string `json:"related_source_ids,omitempty"`
	Category         string   `json:"category"`
	DisplayOrder     int      `json:"display_order"`
}

// SituationRight links a right to a situation under one context.
// The same right may appear once per context with different Applies and Notes.
type SituationRight struct {
	SituationID string `json:"situation_id"`
	RightID     string `json:"right_id"`
	ContextID   string `json:"context_id"`
	Applies     bool   `json:"applies"`
	Notes       string `json:"notes,omitempty"`
}

// SituationAction places an action at a step of a situation under one context.
type SituationAction struct {
	SituationID string `json:"situation_id"`
	ActionID    string `json:"action_id"`
	ContextID   string `json:"context_id"`
	StepOrder   int    `json:"step_order"`
	IsAvailable bool   `json:"is_available"`
}

// SituationContact ranks a contact within a situation; lower Priority first.
type SituationContact struct {
	SituationID string `json:"situation_id"`
	ContactID   string `json:"contact_id"`
	Priority    int    `json:"priority"`
}

// RightSource cites a legal source for a right.
type RightSource struct {
	RightID   string `json:"right_id"`
	SourceID  string `json:"source_id"`
	Relevance string `json:"relevance"`
}

// Manifest describes the catalog currently installed in a store.
// Version changes whenever the catalog content changes.
type Manifest struct {
	Version     string         `json:"version"`
	Country     string         `json:"country"`
	DataVersion string         `json:"data_version"`
	BuiltAt     time.Time      `json:"built_at"`
	Counts      map[string]int `json:"counts"`
}

// ComponentScores holds the four independent relevance signals of a match.
type ComponentScores struct {
	NaturalQuery float64 `json:"natural_query"`
	Keyword      float64 `json:"keyword"`
	Title        float64 `json:"title"`
	Partial      float64 `json:"partial"`
}

// MatchResult is a ranked situation for a query.
type MatchResult struct {
	SituationID string          `json:"situation_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Severity    Severity        `json:"severity"`
	Category    string          `json:"category"`
	Score       float64         `json:"score"`
	Components  ComponentScores `json:"components"`
}

// RightDetail is a right as it applies to a situation under a context.
type RightDetail struct {
	Right     Right  `json:"right"`
	ContextID string `json:"context_id"`
	Applies   bool   `json:"applies"`
	Notes     string `json:"notes,omitempty"`
}

// ActionStep is an available action at its step in a situation.
type ActionStep struct {
	Action    Action `json:"action"`
	ContextID string `json:"context_id"`
	StepOrder int    `json:"step_order"`
}

// ContactDetail is a contact ranked for a situation.
type ContactDetail struct {
	Contact  EmergencyContact `json:"contact"`
	Priority int              `json:"priority"`
}

// Details is everything attached to a situation.
// All four lists are non-nil, possibly empty.
type Details struct {
	Rights     []RightDetail   `json:"rights"`
	Actions    []ActionStep    `json:"actions"`
	Contacts   []ContactDetail `json:"contacts"`
	TimeLimits []TimeLimit     `json:"time_limits"`
}

// NewDetails returns a Details with empty, non-nil lists.
func NewDetails() *Details {
	return &Details{
		Rights:     []RightDetail{},
		Actions:    []ActionStep{},
		Contacts:   []ContactDetail{},
		TimeLimits: []TimeLimit{},
	}
}

// IsEmpty reports whether nothing is attached.
func (d *Details) IsEmpty() bool {
	return len(d.Rights) == 0 && len(d.Actions) == 0 && len(d.Contacts) == 0 && len(d.TimeLimits) == 0
}
