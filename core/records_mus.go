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
	"errors"
	"slices"
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for every stored record. Fields are written in declaration
// order; appending a field to a struct requires appending it here too.
var (
	SituationMUS        = structMUS[Situation]{situationFields}
	RightMUS            = structMUS[Right]{rightFields}
	ActionMUS           = structMUS[Action]{actionFields}
	EmergencyContactMUS = structMUS[EmergencyContact]{contactFields}
	TimeLimitMUS        = structMUS[TimeLimit]{timeLimitFields}
	ContextMUS          = structMUS[Context]{contextFields}
	LegalSourceMUS      = structMUS[LegalSource]{sourceFields}
	MythMUS             = structMUS[Myth]{mythFields}
	SituationRightMUS   = structMUS[SituationRight]{situationRightFields}
	SituationActionMUS  = structMUS[SituationAction]{situationActionFields}
	SituationContactMUS = structMUS[SituationContact]{situationContactFields}
	RightSourceMUS      = structMUS[RightSource]{rightSourceFields}
	ManifestMUS         = structMUS[Manifest]{manifestFields}
)

var (
	_ mus.Serializer[Situation] = SituationMUS
	_ mus.Serializer[Manifest]  = ManifestMUS
)

// ErrTruncatedRecord is returned when encoded data ends before a field.
var ErrTruncatedRecord = errors.New("truncated record")

// nilLength marks a nil slice or map, so nil and empty survive a round trip.
const nilLength = -1

// musField encodes one struct field through a pointer into the value.
type musField struct {
	size      func() int
	marshal   func(bs []byte) int
	unmarshal func(bs []byte) (int, error)
}

// structMUS serializes T as the concatenation of its fields.
type structMUS[T any] struct {
	fields func(v *T) []musField
}

func (s structMUS[T]) Marshal(v T, bs []byte) (n int) {
	for _, f := range s.fields(&v) {
		n += f.marshal(bs[n:])
	}
	return n
}

func (s structMUS[T]) Unmarshal(bs []byte) (v T, n int, err error) {
	for _, f := range s.fields(&v) {
		var m int
		m, err = f.unmarshal(bs[n:])
		n += m
		if err != nil {
			return v, n, err
		}
	}
	return v, n, nil
}

func (s structMUS[T]) Size(v T) (size int) {
	for _, f := range s.fields(&v) {
		size += f.size()
	}
	return size
}

func (s structMUS[T]) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

func stringField(p *string) musField {
	return musField{
		size:    func() int { return ord.String.Size(*p) },
		marshal: func(bs []byte) int { return ord.String.Marshal(*p, bs) },
		unmarshal: func(bs []byte) (n int, err error) {
			*p, n, err = ord.String.Unmarshal(bs)
			return n, err
		},
	}
}

func intField(p *int) musField {
	return musField{
		size:    func() int { return varint.Int.Size(*p) },
		marshal: func(bs []byte) int { return varint.Int.Marshal(*p, bs) },
		unmarshal: func(bs []byte) (n int, err error) {
			*p, n, err = varint.Int.Unmarshal(bs)
			return n, err
		},
	}
}

func boolField(p *bool) musField {
	return musField{
		size:    func() int { return ord.Bool.Size(*p) },
		marshal: func(bs []byte) int { return ord.Bool.Marshal(*p, bs) },
		unmarshal: func(bs []byte) (n int, err error) {
			*p, n, err = ord.Bool.Unmarshal(bs)
			return n, err
		},
	}
}

func float64Field(p *float64) musField {
	return musField{
		size:    func() int { return raw.Float64.Size(*p) },
		marshal: func(bs []byte) int { return raw.Float64.Marshal(*p, bs) },
		unmarshal: func(bs []byte) (n int, err error) {
			*p, n, err = raw.Float64.Unmarshal(bs)
			return n, err
		},
	}
}

// optionalFloat64Field writes a presence flag followed by the value.
func optionalFloat64Field(p **float64) musField {
	return musField{
		size: func() int {
			if *p == nil {
				return ord.Bool.Size(false)
			}
			return ord.Bool.Size(true) + raw.Float64.Size(**p)
		},
		marshal: func(bs []byte) int {
			if *p == nil {
				return ord.Bool.Marshal(false, bs)
			}
			n := ord.Bool.Marshal(true, bs)
			return n + raw.Float64.Marshal(**p, bs[n:])
		},
		unmarshal: func(bs []byte) (int, error) {
			present, n, err := ord.Bool.Unmarshal(bs)
			if err != nil || !present {
				*p = nil
				return n, err
			}
			v, m, err := raw.Float64.Unmarshal(bs[n:])
			if err != nil {
				return n + m, err
			}
			*p = &v
			return n + m, nil
		},
	}
}

func stringsField(p *[]string) musField {
	length := func() int {
		if *p == nil {
			return nilLength
		}
		return len(*p)
	}
	return musField{
		size: func() int {
			size := varint.Int.Size(length())
			for _, s := range *p {
				size += ord.String.Size(s)
			}
			return size
		},
		marshal: func(bs []byte) int {
			n := varint.Int.Marshal(length(), bs)
			for _, s := range *p {
				n += ord.String.Marshal(s, bs[n:])
			}
			return n
		},
		unmarshal: func(bs []byte) (int, error) {
			l, n, err := varint.Int.Unmarshal(bs)
			if err != nil {
				return n, err
			}
			if l < 0 {
				*p = nil
				return n, nil
			}
			if l > len(bs)-n {
				return n, ErrTruncatedRecord
			}
			out := make([]string, l)
			for i := range out {
				var m int
				out[i], m, err = ord.String.Unmarshal(bs[n:])
				n += m
				if err != nil {
					return n, err
				}
			}
			*p = out
			return n, nil
		},
	}
}

func countsField(p *map[string]int) musField {
	keys := func() []string {
		ks := make([]string, 0, len(*p))
		for k := range *p {
			ks = append(ks, k)
		}
		slices.Sort(ks)
		return ks
	}
	length := func() int {
		if *p == nil {
			return nilLength
		}
		return len(*p)
	}
	return musField{
		size: func() int {
			size := varint.Int.Size(length())
			for k, v := range *p {
				size += ord.String.Size(k) + varint.Int.Size(v)
			}
			return size
		},
		marshal: func(bs []byte) int {
			n := varint.Int.Marshal(length(), bs)
			for _, k := range keys() {
				n += ord.String.Marshal(k, bs[n:])
				n += varint.Int.Marshal((*p)[k], bs[n:])
			}
			return n
		},
		unmarshal: func(bs []byte) (int, error) {
			l, n, err := varint.Int.Unmarshal(bs)
			if err != nil {
				return n, err
			}
			if l < 0 {
				*p = nil
				return n, nil
			}
			if l > len(bs)-n {
				return n, ErrTruncatedRecord
			}
			out := make(map[string]int, l)
			for range l {
				k, m, err := ord.String.Unmarshal(bs[n:])
				n += m
				if err != nil {
					return n, err
				}
				v, m, err := varint.Int.Unmarshal(bs[n:])
				n += m
				if err != nil {
					return n, err
				}
				out[k] = v
			}
			*p = out
			return n, nil
		},
	}
}

// timeField stores Unix microseconds and decodes to UTC.
func timeField(p *time.Time) musField {
	return musField{
		size:    func() int { return varint.Int64.Size(p.UnixMicro()) },
		marshal: func(bs []byte) int { return varint.Int64.Marshal(p.UnixMicro(), bs) },
		unmarshal: func(bs []byte) (int, error) {
			us, n, err := varint.Int64.Unmarshal(bs)
			if err != nil {
				return n, err
			}
			*p = time.UnixMicro(us).UTC()
			return n, nil
		},
	}
}

func situationFields(v *Situation) []musField {
	return []musField{
		stringField(&v.ID),
		stringField(&v.Category),
		stringField(&v.Title),
		stringField(&v.Description),
		stringField((*string)(&v.Severity)),
		stringsField(&v.Keywords),
		stringsField(&v.NaturalQueries),
		stringField(&v.Icon),
		boolField(&v.IsActive),
		stringField(&v.ParentID),
		intField(&v.DisplayOrder),
	}
}

func rightFields(v *Right) []musField {
	return []musField{
		stringField(&v.ID),
		stringField(&v.Title),
		stringField(&v.Description),
		stringField(&v.LegalBasis),
		boolField(&v.IsAbsolute),
		boolField(&v.NeverSuspended),
		stringField(&v.Category),
		intField(&v.DisplayOrder),
	}
}

func actionFields(v *Action) []musField {
	return []musField{
		stringField(&v.ID),
		stringField((*string)(&v.ActionType)),
		stringField(&v.Title),
		stringField(&v.Description),
		stringField(&v.Script),
		stringField(&v.Warning),
		stringField(&v.LegalBasisSummary),
		intField(&v.Priority),
	}
}

func contactFields(v *EmergencyContact) []musField {
	return []musField{
		stringField(&v.ID),
		stringField(&v.Institution),
		stringField(&v.Description),
		stringField(&v.Phone),
		stringField(&v.WhatsApp),
		stringField(&v.Email),
		stringField(&v.Website),
		boolField(&v.IsFree),
		stringField(&v.AvailableHours),
		stringField(&v.ContactType),
		boolField(&v.RequiresLawyer),
		intField(&v.Priority),
	}
}

func timeLimitFields(v *TimeLimit) []musField {
	return []musField{
		stringField(&v.ID),
		stringField(&v.SituationID),
		stringField(&v.Description),
		float64Field(&v.MaxHours),
		optionalFloat64Field(&v.MaxHoursEmergency),
		stringField(&v.AppliesTo),
		stringField(&v.AfterExpiryAction),
		stringField(&v.SourceID),
	}
}

func contextFields(v *Context) []musField {
	return []musField{
		stringField(&v.ID),
		stringField(&v.Name),
		stringField(&v.Description),
		stringField(&v.ContextType),
		boolField(&v.IsCurrentlyActive),
		stringsField(&v.ActiveRegions),
		stringsField(&v.AffectsRights),
		stringField(&v.DecreeNumber),
		stringField(&v.StartDate),
		stringField(&v.EndDate),
		stringField(&v.SourceID),
	}
}

func sourceFields(v *LegalSource) []musField {
	return []musField{
		stringField(&v.ID),
		stringField(&v.SourceType),
		stringField(&v.Name),
		stringField(&v.Article),
		stringField(&v.FullText),
		stringField(&v.Summary),
		stringField(&v.PublicationDate),
		stringField(&v.OfficialURL),
		stringField(&v.Status),
	}
}

func mythFields(v *Myth) []musField {
	return []musField{
		stringField(&v.ID),
		stringField(&v.Myth),
		stringField(&v.Reality),
		stringField(&v.Explanation),
		stringsField(&v.RelatedSourceIDs),
		stringField(&v.Category),
		intField(&v.DisplayOrder),
	}
}

func situationRightFields(v *SituationRight) []musField {
	return []musField{
		stringField(&v.SituationID),
		stringField(&v.RightID),
		stringField(&v.ContextID),
		boolField(&v.Applies),
		stringField(&v.Notes),
	}
}

func situationActionFields(v *SituationAction) []musField {
	return []musField{
		stringField(&v.SituationID),
		stringField(&v.ActionID),
		stringField(&v.ContextID),
		intField(&v.StepOrder),
		boolField(&v.IsAvailable),
	}
}

func situationContactFields(v *SituationContact) []musField {
	return []musField{
		stringField(&v.SituationID),
		stringField(&v.ContactID),
		intField(&v.Priority),
	}
}

func rightSourceFields(v *RightSource) []musField {
	return []musField{
		stringField(&v.RightID),
		stringField(&v.SourceID),
		stringField(&v.Relevance),
	}
}

func manifestFields(v *Manifest) []musField {
	return []musField{
		stringField(&v.Version),
		stringField(&v.Country),
		stringField(&v.DataVersion),
		timeField(&v.BuiltAt),
		countsField(&v.Counts),
	}
}
