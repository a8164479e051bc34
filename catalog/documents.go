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

package catalog

import (
	"github.com/poiesic/derechos/core"
)

// Metadata describes a country catalog.
type Metadata struct {
	CountryCode  string          `json:"country_code"`
	CountryName  string          `json:"country_name"`
	Language     string          `json:"language"`
	LastVerified string          `json:"last_verified"`
	DataVersion  string          `json:"data_version"`
	Completeness map[string]bool `json:"completeness,omitempty"`
	Disclaimer   string          `json:"disclaimer"`
}

// Catalog is a fully loaded country catalog with its join rows flattened.
type Catalog struct {
	Metadata Metadata `json:"metadata"`

	Situations []*core.Situation        `json:"situations"`
	Rights     []*core.Right            `json:"rights"`
	Actions    []*core.Action           `json:"actions"`
	Contacts   []*core.EmergencyContact `json:"contacts"`
	Contexts   []*core.Context          `json:"contexts"`
	Sources    []*core.LegalSource      `json:"sources"`
	Myths      []*core.Myth             `json:"myths"`

	SituationRights   []*core.SituationRight   `json:"situation_rights"`
	SituationActions  []*core.SituationAction  `json:"situation_actions"`
	SituationContacts []*core.SituationContact `json:"situation_contacts"`
	TimeLimits        []*core.TimeLimit        `json:"time_limits"`
	RightSources      []*core.RightSource      `json:"right_sources"`
}

// Counts returns the number of records of each kind.
func (c *Catalog) Counts() map[string]int {
	return map[string]int{
		"situations":         len(c.Situations),
		"rights":             len(c.Rights),
		"actions":            len(c.Actions),
		"contacts":           len(c.Contacts),
		"contexts":           len(c.Contexts),
		"sources":            len(c.Sources),
		"myths":              len(c.Myths),
		"situation_rights":   len(c.SituationRights),
		"situation_actions":  len(c.SituationActions),
		"situation_contacts": len(c.SituationContacts),
		"time_limits":        len(c.TimeLimits),
		"right_sources":      len(c.RightSources),
	}
}

// rightDocument is a right as authored, citing its sources inline.
type rightDocument struct {
	core.Right
	SourceIDs []string `json:"source_ids,omitempty"`
}

// situationDocument is a situation as authored, with its links embedded.
// Pointers distinguish an omitted flag from an explicit false.
type situationDocument struct {
	ID             string   `json:"id"`
	Category       string   `json:"category"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Severity       string   `json:"severity"`
	Keywords       []string `json:"keywords"`
	NaturalQueries []string `json:"natural_queries"`
	Icon           string   `json:"icon,omitempty"`
	IsActive       *bool    `json:"is_active,omitempty"`
	ParentID       string   `json:"parent_situation_id,omitempty"`
	DisplayOrder   int      `json:"display_order"`

	Rights     []rightLink         `json:"rights"`
	Actions    []actionLink        `json:"actions"`
	Contacts   []string            `json:"contacts"`
	TimeLimits []timeLimitDocument `json:"time_limits"`
}

type rightLink struct {
	RightID string `json:"right_id"`
	Context string `json:"context,omitempty"`
	Applies *bool  `json:"applies,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

type actionLink struct {
	ActionID    string `json:"action_id"`
	Context     string `json:"context,omitempty"`
	StepOrder   int    `json:"step_order"`
	IsAvailable *bool  `json:"is_available,omitempty"`
}

type timeLimitDocument struct {
	ID                string   `json:"id"`
	Description       string   `json:"description"`
	MaxHours          float64  `json:"max_hours"`
	MaxHoursEmergency *float64 `json:"max_hours_emergency,omitempty"`
	AppliesTo         string   `json:"applies_to,omitempty"`
	AfterExpiryAction string   `json:"after_expiry_action,omitempty"`
	SourceID          string   `json:"source_id,omitempty"`
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func contextOrNormal(id string) string {
	if id == "" {
		return core.ContextNormal
	}
	return id
}

// severityOf defaults a blank severity to medium. Unknown values are kept
// so that validation reports them.
func severityOf(s string) core.Severity {
	sev, err := core.ParseSeverity(s)
	if err != nil {
		return core.Severity(s)
	}
	return sev
}

// addRight appends a right and its citations.
func (c *Catalog) addRight(doc *rightDocument) {
	right := doc.Right
	c.Rights = append(c.Rights, &right)
	for _, sourceID := range doc.SourceIDs {
		c.RightSources = append(c.RightSources, &core.RightSource{
			RightID:   right.ID,
			SourceID:  sourceID,
			Relevance: core.RelevancePrimary,
		})
	}
}

// addSituation appends a situation and flattens its embedded links.
func (c *Catalog) addSituation(doc *situationDocument) {
	c.Situations = append(c.Situations, &core.Situation{
		ID:             doc.ID,
		Category:       doc.Category,
		Title:          doc.Title,
		Description:    doc.Description,
		Severity:       severityOf(doc.Severity),
		Keywords:       doc.Keywords,
		NaturalQueries: doc.NaturalQueries,
		Icon:           doc.Icon,
		IsActive:       boolOr(doc.IsActive, true),
		ParentID:       doc.ParentID,
		DisplayOrder:   doc.DisplayOrder,
	})

	for _, link := range doc.Rights {
		c.SituationRights = append(c.SituationRights, &core.SituationRight{
			SituationID: doc.ID,
			RightID:     link.RightID,
			ContextID:   contextOrNormal(link.Context),
			Applies:     boolOr(link.Applies, true),
			Notes:       link.Notes,
		})
	}
	for _, link := range doc.Actions {
		c.SituationActions = append(c.SituationActions, &core.SituationAction{
			SituationID: doc.ID,
			ActionID:    link.ActionID,
			ContextID:   contextOrNormal(link.Context),
			StepOrder:   link.StepOrder,
			IsAvailable: boolOr(link.IsAvailable, true),
		})
	}
	for i, contactID := range doc.Contacts {
		c.SituationContacts = append(c.SituationContacts, &core.SituationContact{
			SituationID: doc.ID,
			ContactID:   contactID,
			Priority:    i + 1,
		})
	}
	for _, tl := range doc.TimeLimits {
		appliesTo := tl.AppliesTo
		if appliesTo == "" {
			appliesTo = core.AppliesToAll
		}
		c.TimeLimits = append(c.TimeLimits, &core.TimeLimit{
			ID:                tl.ID,
			SituationID:       doc.ID,
			Description:       tl.Description,
			MaxHours:          tl.MaxHours,
			MaxHoursEmergency: tl.MaxHoursEmergency,
			AppliesTo:         appliesTo,
			AfterExpiryAction: tl.AfterExpiryAction,
			SourceID:          tl.SourceID,
		})
	}
}
