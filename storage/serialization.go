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

package storage

import (
	"fmt"

	"github.com/mus-format/mus-go"
	"github.com/poiesic/derechos/core"
)

// Record is any value a backend stores.
type Record interface {
	core.Situation | core.Right | core.Action | core.EmergencyContact |
		core.TimeLimit | core.Context | core.LegalSource | core.Myth |
		core.SituationRight | core.SituationAction | core.SituationContact |
		core.RightSource | core.Manifest
}

func serializerFor[T Record]() mus.Serializer[T] {
	var ser any
	var zero T
	switch any(zero).(type) {
	case core.Situation:
		ser = core.SituationMUS
	case core.Right:
		ser = core.RightMUS
	case core.Action:
		ser = core.ActionMUS
	case core.EmergencyContact:
		ser = core.EmergencyContactMUS
	case core.TimeLimit:
		ser = core.TimeLimitMUS
	case core.Context:
		ser = core.ContextMUS
	case core.LegalSource:
		ser = core.LegalSourceMUS
	case core.Myth:
		ser = core.MythMUS
	case core.SituationRight:
		ser = core.SituationRightMUS
	case core.SituationAction:
		ser = core.SituationActionMUS
	case core.SituationContact:
		ser = core.SituationContactMUS
	case core.RightSource:
		ser = core.RightSourceMUS
	case core.Manifest:
		ser = core.ManifestMUS
	}
	return ser.(mus.Serializer[T])
}

// Marshal serializes a record to bytes.
func Marshal[T Record](record *T) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("%w: nil record", ErrSerializationFailed)
	}
	ser := serializerFor[T]()
	buf := make([]byte, ser.Size(*record))
	ser.Marshal(*record, buf)
	return buf, nil
}

// Unmarshal deserializes a record from bytes.
func Unmarshal[T Record](data []byte) (*T, error) {
	record, _, err := serializerFor[T]().Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}
