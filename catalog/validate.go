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
	"encoding/json"
	"errors"
	"fmt"

	"github.com/poiesic/derechos/core"
)

// idSet tracks the ids seen for one kind of record.
type idSet map[string]bool

// collect records every id, reporting duplicates.
func collect[T any](kind string, records []*T, id func(*T) string, problems *[]error) idSet {
	seen := make(idSet, len(records))
	for _, r := range records {
		k := id(r)
		if k == "" {
			continue
		}
		if seen[k] {
			*problems = append(*problems, fmt.Errorf("%w: %s %q", ErrDuplicateID, kind, k))
		}
		seen[k] = true
	}
	return seen
}

func checkEach[T any](records []*T, validate func(*T) error, problems *[]error) {
	for _, r := range records {
		if err := validate(r); err != nil {
			*problems = append(*problems, err)
		}
	}
}

func dangling(owner, kind, id string) error {
	return fmt.Errorf("%w: %s references unknown %s %q", ErrDanglingReference, owner, kind, id)
}

// Problems returns every validation problem of the catalog, in a stable order.
// An empty result means the catalog can be installed.
func (c *Catalog) Problems() []error {
	var problems []error

	checkEach(c.Contexts, core.ValidateContext, &problems)
	checkEach(c.Sources, core.ValidateSource, &problems)
	checkEach(c.Rights, core.ValidateRight, &problems)
	checkEach(c.Actions, core.ValidateAction, &problems)
	checkEach(c.Contacts, core.ValidateContact, &problems)
	checkEach(c.Situations, core.ValidateSituation, &problems)
	checkEach(c.TimeLimits, core.ValidateTimeLimit, &problems)
	checkEach(c.Myths, core.ValidateMyth, &problems)

	contexts := collect("context", c.Contexts, func(x *core.Context) string { return x.ID }, &problems)
	sources := collect("source", c.Sources, func(x *core.LegalSource) string { return x.ID }, &problems)
	rights := collect("right", c.Rights, func(x *core.Right) string { return x.ID }, &problems)
	actions := collect("action", c.Actions, func(x *core.Action) string { return x.ID }, &problems)
	contacts := collect("contact", c.Contacts, func(x *core.EmergencyContact) string { return x.ID }, &problems)
	situations := collect("situation", c.Situations, func(x *core.Situation) string { return x.ID }, &problems)
	collect("time limit", c.TimeLimits, func(x *core.TimeLimit) string { return x.ID }, &problems)
	collect("myth", c.Myths, func(x *core.Myth) string { return x.ID }, &problems)

	if !contexts[core.ContextNormal] {
		problems = append(problems, ErrMissingNormalContext)
	}

	for _, ctx := range c.Contexts {
		if ctx.SourceID != "" && !sources[ctx.SourceID] {
			problems = append(problems, dangling("context "+ctx.ID, "source", ctx.SourceID))
		}
		for _, rid := range ctx.AffectsRights {
			if !rights[rid] {
				problems = append(problems, dangling("context "+ctx.ID, "right", rid))
			}
		}
	}
	for _, rs := range c.RightSources {
		if !sources[rs.SourceID] {
			problems = append(problems, dangling("right "+rs.RightID, "source", rs.SourceID))
		}
	}
	for _, m := range c.Myths {
		for _, sid := range m.RelatedSourceIDs {
			if !sources[sid] {
				problems = append(problems, dangling("myth "+m.ID, "source", sid))
			}
		}
	}
	for _, s := range c.Situations {
		if s.ParentID != "" && !situations[s.ParentID] {
			problems = append(problems, dangling("situation "+s.ID, "parent situation", s.ParentID))
		}
	}

	type linkCount struct{ rights, actions, contacts int }
	links := make(map[string]*linkCount, len(c.Situations))
	for _, s := range c.Situations {
		links[s.ID] = &linkCount{}
	}
	count := func(id string) *linkCount {
		if lc, ok := links[id]; ok {
			return lc
		}
		return &linkCount{}
	}

	type rightKey struct{ situation, right, context string }
	seenRights := make(map[rightKey]bool)
	for _, sr := range c.SituationRights {
		owner := "situation " + sr.SituationID
		if !rights[sr.RightID] {
			problems = append(problems, dangling(owner, "right", sr.RightID))
		}
		if !contexts[sr.ContextID] {
			problems = append(problems, dangling(owner, "context", sr.ContextID))
		}
		k := rightKey{sr.SituationID, sr.RightID, sr.ContextID}
		if seenRights[k] {
			problems = append(problems, fmt.Errorf("%w: %s lists right %q twice under context %q", ErrDuplicateID, owner, sr.RightID, sr.ContextID))
		}
		seenRights[k] = true
		count(sr.SituationID).rights++
	}

	type stepKey struct {
		situation, context string
		step               int
	}
	seenSteps := make(map[stepKey]bool)
	for _, sa := range c.SituationActions {
		owner := "situation " + sa.SituationID
		if !actions[sa.ActionID] {
			problems = append(problems, dangling(owner, "action", sa.ActionID))
		}
		if !contexts[sa.ContextID] {
			problems = append(problems, dangling(owner, "context", sa.ContextID))
		}
		k := stepKey{sa.SituationID, sa.ContextID, sa.StepOrder}
		if seenSteps[k] {
			problems = append(problems, fmt.Errorf("%w: %s has step %d twice under context %q", ErrDuplicateID, owner, sa.StepOrder, sa.ContextID))
		}
		seenSteps[k] = true
		count(sa.SituationID).actions++
	}

	type contactKey struct{ situation, contact string }
	seenContacts := make(map[contactKey]bool)
	for _, sc := range c.SituationContacts {
		owner := "situation " + sc.SituationID
		if !contacts[sc.ContactID] {
			problems = append(problems, dangling(owner, "contact", sc.ContactID))
		}
		k := contactKey{sc.SituationID, sc.ContactID}
		if seenContacts[k] {
			problems = append(problems, fmt.Errorf("%w: %s lists contact %q twice", ErrDuplicateID, owner, sc.ContactID))
		}
		seenContacts[k] = true
		count(sc.SituationID).contacts++
	}

	for _, tl := range c.TimeLimits {
		if tl.SourceID != "" && !sources[tl.SourceID] {
			problems = append(problems, dangling("time limit "+tl.ID, "source", tl.SourceID))
		}
	}

	for _, s := range c.Situations {
		lc := links[s.ID]
		if lc.rights == 0 || lc.actions == 0 || lc.contacts == 0 {
			problems = append(problems, fmt.Errorf("%w: %q has %d rights, %d actions, %d contacts",
				ErrEmptySituation, s.ID, lc.rights, lc.actions, lc.contacts))
		}
	}

	if err := core.ValidateStepOrder(c.SituationActions); err != nil {
		problems = append(problems, unjoin(err)...)
	}

	return problems
}

// Validate returns nil when the catalog has no problems, otherwise an
// ErrInvalidCatalog wrapping all of them.
func (c *Catalog) Validate() error {
	problems := c.Problems()
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d problems: %w", ErrInvalidCatalog, len(problems), errors.Join(problems...))
}

// Digest fingerprints the catalog content. Identical catalogs always
// produce the same digest.
func (c *Catalog) Digest() (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return core.VersionFromContent(raw), nil
}

func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
