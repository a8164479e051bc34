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

package sqlite

import (
	"time"

	"github.com/poiesic/derechos/core"
	"gorm.io/datatypes"
)

// Table names match the schema read by the mobile application.
const (
	tableSituations        = "situations"
	tableRights            = "rights"
	tableActions           = "actions"
	tableContacts          = "emergency_contacts"
	tableTimeLimits        = "time_limits"
	tableContexts          = "contexts"
	tableSources           = "legal_sources"
	tableMyths             = "myths"
	tableSituationRights   = "situation_rights"
	tableSituationActions  = "situation_actions"
	tableSituationContacts = "situation_contacts"
	tableRightSources      = "right_sources"
	tableManifest          = "catalog_manifest"
)

// Booleans carry no gorm default: a default would replace an explicit false.

type situationModel struct {
	ID                string                      `gorm:"primaryKey;size:100"`
	Category          string                      `gorm:"not null;index"`
	Title             string                      `gorm:"not null"`
	Description       string                      `gorm:"not null"`
	Severity          string                      `gorm:"not null;size:20"`
	Keywords          datatypes.JSONSlice[string] `gorm:"not null"`
	NaturalQueries    datatypes.JSONSlice[string] `gorm:"not null"`
	Icon              string
	IsActive          bool    `gorm:"not null;index"`
	ParentSituationID *string `gorm:"index;size:100"`
	DisplayOrder      int     `gorm:"not null"`
}

func (situationModel) TableName() string { return tableSituations }

type rightModel struct {
	ID             string `gorm:"primaryKey;size:100"`
	Title          string `gorm:"not null"`
	Description    string `gorm:"not null"`
	LegalBasis     string `gorm:"not null"`
	IsAbsolute     bool   `gorm:"not null"`
	NeverSuspended bool   `gorm:"not null"`
	Category       string `gorm:"not null;index"`
	DisplayOrder   int    `gorm:"not null"`
}

func (rightModel) TableName() string { return tableRights }

type actionModel struct {
	ID                string `gorm:"primaryKey;size:100"`
	ActionType        string `gorm:"not null;size:20"`
	Title             string `gorm:"not null"`
	Description       string `gorm:"not null"`
	Script            string
	Warning           string
	LegalBasisSummary string
	Priority          int `gorm:"not null"`
}

func (actionModel) TableName() string { return tableActions }

type contactModel struct {
	ID             string `gorm:"primaryKey;size:100"`
	Institution    string `gorm:"not null"`
	Description    string `gorm:"not null"`
	Phone          string
	WhatsApp       string `gorm:"column:whatsapp"`
	Email          string
	Website        string
	IsFree         bool `gorm:"not null"`
	AvailableHours string
	ContactType    string `gorm:"not null;size:30"`
	RequiresLawyer bool   `gorm:"not null"`
	Priority       int    `gorm:"not null"`
}

func (contactModel) TableName() string { return tableContacts }

type timeLimitModel struct {
	ID                string `gorm:"primaryKey;size:100"`
	SituationID       string `gorm:"not null;index;size:100"`
	Description       string `gorm:"not null"`
	MaxHours          float64
	MaxHoursEmergency *float64
	AppliesTo         string `gorm:"not null;size:50"`
	AfterExpiryAction string
	SourceID          string `gorm:"size:100"`
}

func (timeLimitModel) TableName() string { return tableTimeLimits }

type contextModel struct {
	ID                string `gorm:"primaryKey;size:100"`
	Name              string `gorm:"not null"`
	Description       string
	ContextType       string                      `gorm:"not null;size:30"`
	IsCurrentlyActive bool                        `gorm:"not null"`
	ActiveRegions     datatypes.JSONSlice[string] `gorm:"not null"`
	AffectsRights     datatypes.JSONSlice[string] `gorm:"not null"`
	DecreeNumber      string
	StartDate         string
	EndDate           string
	SourceID          string `gorm:"size:100"`
}

func (contextModel) TableName() string { return tableContexts }

type sourceModel struct {
	ID              string `gorm:"primaryKey;size:100"`
	SourceType      string `gorm:"not null;size:40"`
	Name            string `gorm:"not null"`
	Article         string
	FullText        string `gorm:"not null"`
	Summary         string `gorm:"not null"`
	PublicationDate string
	OfficialURL     string `gorm:"column:official_url"`
	Status          string `gorm:"not null;size:40"`
}

func (sourceModel) TableName() string { return tableSources }

type mythModel struct {
	ID               string `gorm:"primaryKey;size:100"`
	Myth             string `gorm:"not null"`
	Reality          string `gorm:"not null"`
	Explanation      string `gorm:"not null"`
	RelatedSourceIDs datatypes.JSONSlice[string] `gorm:"column:related_source_ids;not null"`
	Category         string                      `gorm:"not null"`
	DisplayOrder     int                         `gorm:"not null"`
}

func (mythModel) TableName() string { return tableMyths }

type situationRightModel struct {
	SituationID string `gorm:"primaryKey;size:100"`
	RightID     string `gorm:"primaryKey;size:100"`
	ContextID   string `gorm:"primaryKey;size:100"`
	Applies     bool   `gorm:"not null"`
	Notes       string
}

func (situationRightModel) TableName() string { return tableSituationRights }

type situationActionModel struct {
	SituationID string `gorm:"primaryKey;size:100"`
	ContextID   string `gorm:"primaryKey;size:100"`
	StepOrder   int    `gorm:"primaryKey;autoIncrement:false"`
	ActionID    string `gorm:"not null;index;size:100"`
	IsAvailable bool   `gorm:"not null"`
}

func (situationActionModel) TableName() string { return tableSituationActions }

type situationContactModel struct {
	SituationID string `gorm:"primaryKey;size:100"`
	ContactID   string `gorm:"primaryKey;size:100"`
	Priority    int    `gorm:"not null"`
}

func (situationContactModel) TableName() string { return tableSituationContacts }

type rightSourceModel struct {
	RightID   string `gorm:"primaryKey;size:100"`
	SourceID  string `gorm:"primaryKey;size:100"`
	Relevance string `gorm:"not null;size:20"`
}

func (rightSourceModel) TableName() string { return tableRightSources }

// manifestModel holds a single row.
type manifestModel struct {
	ID          uint `gorm:"primaryKey;autoIncrement:false"`
	Version     string
	Country     string
	DataVersion string
	BuiltAt     time.Time
	Counts      datatypes.JSONType[map[string]int]
}

func (manifestModel) TableName() string { return tableManifest }

const manifestRowID = 1

func allModels() []any {
	return []any{
		&situationModel{}, &rightModel{}, &actionModel{}, &contactModel{},
		&timeLimitModel{}, &contextModel{}, &sourceModel{}, &mythModel{},
		&situationRightModel{}, &situationActionModel{}, &situationContactModel{},
		&rightSourceModel{}, &manifestModel{},
	}
}

func slice(values []string) datatypes.JSONSlice[string] {
	if values == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](values)
}

// list converts back to a plain slice; empty lists read back as nil.
func list(values datatypes.JSONSlice[string]) []string {
	if len(values) == 0 {
		return nil
	}
	return []string(values)
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func toSituationModel(s *core.Situation) *situationModel {
	return &situationModel{
		ID:                s.ID,
		Category:          s.Category,
		Title:             s.Title,
		Description:       s.Description,
		Severity:          string(s.Severity),
		Keywords:          slice(s.Keywords),
		NaturalQueries:    slice(s.NaturalQueries),
		Icon:              s.Icon,
		IsActive:          s.IsActive,
		ParentSituationID: optional(s.ParentID),
		DisplayOrder:      s.DisplayOrder,
	}
}

func (m *situationModel) toCore() *core.Situation {
	s := &core.Situation{
		ID:             m.ID,
		Category:       m.Category,
		Title:          m.Title,
		Description:    m.Description,
		Severity:       core.Severity(m.Severity),
		Keywords:       list(m.Keywords),
		NaturalQueries: list(m.NaturalQueries),
		Icon:           m.Icon,
		IsActive:       m.IsActive,
		DisplayOrder:   m.DisplayOrder,
	}
	if m.ParentSituationID != nil {
		s.ParentID = *m.ParentSituationID
	}
	return s
}

func toRightModel(r *core.Right) *rightModel {
	return &rightModel{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		LegalBasis:     r.LegalBasis,
		IsAbsolute:     r.IsAbsolute,
		NeverSuspended: r.NeverSuspended,
		Category:       r.Category,
		DisplayOrder:   r.DisplayOrder,
	}
}

func (m *rightModel) toCore() *core.Right {
	return &core.Right{
		ID:             m.ID,
		Title:          m.Title,
		Description:    m.Description,
		LegalBasis:     m.LegalBasis,
		IsAbsolute:     m.IsAbsolute,
		NeverSuspended: m.NeverSuspended,
		Category:       m.Category,
		DisplayOrder:   m.DisplayOrder,
	}
}

func toActionModel(a *core.Action) *actionModel {
	return &actionModel{
		ID:                a.ID,
		ActionType:        string(a.ActionType),
		Title:             a.Title,
		Description:       a.Description,
		Script:            a.Script,
		Warning:           a.Warning,
		LegalBasisSummary: a.LegalBasisSummary,
		Priority:          a.Priority,
	}
}

func (m *actionModel) toCore() *core.Action {
	return &core.Action{
		ID:                m.ID,
		ActionType:        core.ActionType(m.ActionType),
		Title:             m.Title,
		Description:       m.Description,
		Script:            m.Script,
		Warning:           m.Warning,
		LegalBasisSummary: m.LegalBasisSummary,
		Priority:          m.Priority,
	}
}

func toContactModel(c *core.EmergencyContact) *contactModel {
	return &contactModel{
		ID:             c.ID,
		Institution:    c.Institution,
		Description:    c.Description,
		Phone:          c.Phone,
		WhatsApp:       c.WhatsApp,
		Email:          c.Email,
		Website:        c.Website,
		IsFree:         c.IsFree,
		AvailableHours: c.AvailableHours,
		ContactType:    c.ContactType,
		RequiresLawyer: c.RequiresLawyer,
		Priority:       c.Priority,
	}
}

func (m *contactModel) toCore() *core.EmergencyContact {
	return &core.EmergencyContact{
		ID:             m.ID,
		Institution:    m.Institution,
		Description:    m.Description,
		Phone:          m.Phone,
		WhatsApp:       m.WhatsApp,
		Email:          m.Email,
		Website:        m.Website,
		IsFree:         m.IsFree,
		AvailableHours: m.AvailableHours,
		ContactType:    m.ContactType,
		RequiresLawyer: m.RequiresLawyer,
		Priority:       m.Priority,
	}
}

func toTimeLimitModel(tl *core.TimeLimit) *timeLimitModel {
	return &timeLimitModel{
		ID:                tl.ID,
		SituationID:       tl.SituationID,
		Description:       tl.Description,
		MaxHours:          tl.MaxHours,
		MaxHoursEmergency: tl.MaxHoursEmergency,
		AppliesTo:         tl.AppliesTo,
		AfterExpiryAction: tl.AfterExpiryAction,
		SourceID:          tl.SourceID,
	}
}

func (m *timeLimitModel) toCore() *core.TimeLimit {
	return &core.TimeLimit{
		ID:                m.ID,
		SituationID:       m.SituationID,
		Description:       m.Description,
		MaxHours:          m.MaxHours,
		MaxHoursEmergency: m.MaxHoursEmergency,
		AppliesTo:         m.AppliesTo,
		AfterExpiryAction: m.AfterExpiryAction,
		SourceID:          m.SourceID,
	}
}

func toContextModel(c *core.Context) *contextModel {
	return &contextModel{
		ID:                c.ID,
		Name:              c.Name,
		Description:       c.Description,
		ContextType:       c.ContextType,
		IsCurrentlyActive: c.IsCurrentlyActive,
		ActiveRegions:     slice(c.ActiveRegions),
		AffectsRights:     slice(c.AffectsRights),
		DecreeNumber:      c.DecreeNumber,
		StartDate:         c.StartDate,
		EndDate:           c.EndDate,
		SourceID:          c.SourceID,
	}
}

func (m *contextModel) toCore() *core.Context {
	return &core.Context{
		ID:                m.ID,
		Name:              m.Name,
		Description:       m.Description,
		ContextType:       m.ContextType,
		IsCurrentlyActive: m.IsCurrentlyActive,
		ActiveRegions:     list(m.ActiveRegions),
		AffectsRights:     list(m.AffectsRights),
		DecreeNumber:      m.DecreeNumber,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		SourceID:          m.SourceID,
	}
}

func toSourceModel(s *core.LegalSource) *sourceModel {
	return &sourceModel{
		ID:              s.ID,
		SourceType:      s.SourceType,
		Name:            s.Name,
		Article:         s.Article,
		FullText:        s.FullText,
		Summary:         s.Summary,
		PublicationDate: s.PublicationDate,
		OfficialURL:     s.OfficialURL,
		Status:          s.Status,
	}
}

func (m *sourceModel) toCore() *core.LegalSource {
	return &core.LegalSource{
		ID:              m.ID,
		SourceType:      m.SourceType,
		Name:            m.Name,
		Article:         m.Article,
		FullText:        m.FullText,
		Summary:         m.Summary,
		PublicationDate: m.PublicationDate,
		OfficialURL:     m.OfficialURL,
		Status:          m.Status,
	}
}

func toMythModel(m *core.Myth) *mythModel {
	return &mythModel{
		ID:               m.ID,
		Myth:             m.Myth,
		Reality:          m.Reality,
		Explanation:      m.Explanation,
		RelatedSourceIDs: slice(m.RelatedSourceIDs),
		Category:         m.Category,
		DisplayOrder:     m.DisplayOrder,
	}
}

func (m *mythModel) toCore() *core.Myth {
	return &core.Myth{
		ID:               m.ID,
		Myth:             m.Myth,
		Reality:          m.Reality,
		Explanation:      m.Explanation,
		RelatedSourceIDs: list(m.RelatedSourceIDs),
		Category:         m.Category,
		DisplayOrder:     m.DisplayOrder,
	}
}
