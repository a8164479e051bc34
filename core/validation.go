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
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	rightIDPrefix  = "right_"
	actionIDPrefix = "action_"
)

type field struct {
	name  string
	value string
}

// requireFields returns ErrMissingField for the first blank field.
func requireFields(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	return nil
}

func invalid(kind error, id string, err error) error {
	if id == "" {
		return fmt.Errorf("%w: %w", kind, err)
	}
	return fmt.Errorf("%w %q: %w", kind, id, err)
}

// ValidateSituation validates a Situation according to domain rules.
//
// Validation rules:
//   - ID, Category, Title and Description must not be empty
//   - Keywords and NaturalQueries must each hold at least one non-blank entry
//   - Severity must be a known value
//
// Its links to rights, actions and contacts are checked by the catalog.
func ValidateSituation(s *Situation) error {
	if s == nil {
		return fmt.Errorf("%w: situation is nil", ErrInvalidSituation)
	}
	if err := requireFields(
		field{"id", s.ID},
		field{"category", s.Category},
		field{"title", s.Title},
		field{"description", s.Description},
		field{"keywords", strings.Join(s.Keywords, "")},
		field{"natural_queries", strings.Join(s.NaturalQueries, "")},
	); err != nil {
		return invalid(ErrInvalidSituation, s.ID, err)
	}
	if !s.Severity.Valid() {
		return invalid(ErrInvalidSituation, s.ID, fmt.Errorf("%w: %q", ErrInvalidSeverity, s.Severity))
	}
	return nil
}

// ValidateRight validates a Right according to domain rules.
func ValidateRight(r *Right) error {
	if r == nil {
		return fmt.Errorf("%w: right is nil", ErrInvalidRight)
	}
	if err := requireFields(
		field{"id", r.ID},
		field{"title", r.Title},
		field{"description", r.Description},
		field{"legal_basis", r.LegalBasis},
		field{"category", r.Category},
	); err != nil {
		return invalid(ErrInvalidRight, r.ID, err)
	}
	if !strings.HasPrefix(r.ID, rightIDPrefix) {
		return invalid(ErrInvalidRight, r.ID, fmt.Errorf("%w: want %q", ErrInvalidIDPrefix, rightIDPrefix))
	}
	if !slices.Contains(RightCategories, r.Category) {
		return invalid(ErrInvalidRight, r.ID, fmt.Errorf("%w: %q", ErrInvalidCategory, r.Category))
	}
	return nil
}

// ValidateAction validates an Action according to domain rules.
func ValidateAction(a *Action) error {
	if a == nil {
		return fmt.Errorf("%w: action is nil", ErrInvalidAction)
	}
	if err := requireFields(
		field{"id", a.ID},
		field{"action_type", string(a.ActionType)},
		field{"title", a.Title},
		field{"description", a.Description},
	); err != nil {
		return invalid(ErrInvalidAction, a.ID, err)
	}
	if !strings.HasPrefix(a.ID, actionIDPrefix) {
		return invalid(ErrInvalidAction, a.ID, fmt.Errorf("%w: want %q", ErrInvalidIDPrefix, actionIDPrefix))
	}
	if !a.ActionType.Valid() {
		return invalid(ErrInvalidAction, a.ID, fmt.Errorf("%w: %q", ErrInvalidActionType, a.ActionType))
	}
	return nil
}

// ValidateContact validates an EmergencyContact according to domain rules.
// At least one of phone, whatsapp, email or website is required.
func ValidateContact(c *EmergencyContact) error {
	if c == nil {
		return fmt.Errorf("%w: contact is nil", ErrInvalidContact)
	}
	if err := requireFields(
		field{"id", c.ID},
		field{"institution", c.Institution},
		field{"description", c.Description},
		field{"contact_type", c.ContactType},
	); err != nil {
		return invalid(ErrInvalidContact, c.ID, err)
	}
	if !slices.Contains(ContactTypes, c.ContactType) {
		return invalid(ErrInvalidContact, c.ID, fmt.Errorf("%w: %q", ErrInvalidCategory, c.ContactType))
	}
	if !c.HasChannel() {
		return invalid(ErrInvalidContact, c.ID, ErrNoContactChannel)
	}
	return nil
}

// ValidateTimeLimit validates a TimeLimit according to domain rules.
func ValidateTimeLimit(tl *TimeLimit) error {
	if tl == nil {
		return fmt.Errorf("%w: time limit is nil", ErrInvalidTimeLimit)
	}
	if err := requireFields(
		field{"id", tl.ID},
		field{"situation_id", tl.SituationID},
		field{"description", tl.Description},
	); err != nil {
		return invalid(ErrInvalidTimeLimit, tl.ID, err)
	}
	if tl.MaxHours < 0 || (tl.MaxHoursEmergency != nil && *tl.MaxHoursEmergency < 0) {
		return invalid(ErrInvalidTimeLimit, tl.ID, ErrNegativeHours)
	}
	return nil
}

// ValidateContext validates a Context according to domain rules.
func ValidateContext(c *Context) error {
	if c == nil {
		return fmt.Errorf("%w: context is nil", ErrInvalidContext)
	}
	if err := requireFields(
		field{"id", c.ID},
		field{"name", c.Name},
		field{"context_type", c.ContextType},
	); err != nil {
		return invalid(ErrInvalidContext, c.ID, err)
	}
	if !slices.Contains(ContextTypes, c.ContextType) {
		return invalid(ErrInvalidContext, c.ID, fmt.Errorf("%w: %q", ErrInvalidCategory, c.ContextType))
	}
	return nil
}

// ValidateSource validates a LegalSource according to domain rules.
func ValidateSource(s *LegalSource) error {
	if s == nil {
		return fmt.Errorf("%w: source is nil", ErrInvalidSource)
	}
	if err := requireFields(
		field{"id", s.ID},
		field{"source_type", s.SourceType},
		field{"name", s.Name},
		field{"full_text", s.FullText},
		field{"summary", s.Summary},
		field{"status", s.Status},
	); err != nil {
		return invalid(ErrInvalidSource, s.ID, err)
	}
	if !slices.Contains(SourceTypes, s.SourceType) {
		return invalid(ErrInvalidSource, s.ID, fmt.Errorf("%w: source type %q", ErrInvalidCategory, s.SourceType))
	}
	if !slices.Contains(SourceStatuses, s.Status) {
		return invalid(ErrInvalidSource, s.ID, fmt.Errorf("%w: status %q", ErrInvalidCategory, s.Status))
	}
	return nil
}

// ValidateMyth validates a Myth according to domain rules.
func ValidateMyth(m *Myth) error {
	if m == nil {
		return fmt.Errorf("%w: myth is nil", ErrInvalidMyth)
	}
	if err := requireFields(
		field{"id", m.ID},
		field{"myth", m.Myth},
		field{"reality", m.Reality},
		field{"explanation", m.Explanation},
		field{"category", m.Category},
	); err != nil {
		return invalid(ErrInvalidMyth, m.ID, err)
	}
	return nil
}

// ValidateStepOrder checks that the steps of every (situation, context) pair
// form a contiguous ascending sequence. The sequence may start at any value.
// Available steps alone must also be contiguous, so filtering out unavailable
// steps never opens a gap.
func ValidateStepOrder(steps []*SituationAction) error {
	type group struct{ situation, context string }
	all := make(map[group][]int)
	available := make(map[group][]int)
	for _, st := range steps {
		g := group{st.SituationID, st.ContextID}
		all[g] = append(all[g], st.StepOrder)
		if st.IsAvailable {
			available[g] = append(available[g], st.StepOrder)
		}
	}

	keys := make([]group, 0, len(all))
	for g := range all {
		keys = append(keys, g)
	}
	slices.SortFunc(keys, func(a, b group) int {
		return cmp.Or(cmp.Compare(a.situation, b.situation), cmp.Compare(a.context, b.context))
	})

	var errs []error
	for _, g := range keys {
		if !contiguous(all[g]) {
			errs = append(errs, fmt.Errorf("%w: situation %q context %q: %v", ErrStepOrderGap, g.situation, g.context, sorted(all[g])))
			continue
		}
		if !contiguous(available[g]) {
			errs = append(errs, fmt.Errorf("%w: situation %q context %q: available steps %v", ErrStepOrderGap, g.situation, g.context, sorted(available[g])))
		}
	}
	return errors.Join(errs...)
}

func contiguous(orders []int) bool {
	s := sorted(orders)
	for i := 1; i < len(s); i++ {
		if s[i] != s[i-1]+1 {
			return false
		}
	}
	return true
}

func sorted(orders []int) []int {
	s := slices.Clone(orders)
	slices.Sort(s)
	return s
}
