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

package badger

import (
	"encoding/binary"
)

// Key prefixes for different data types.
// Every key is prefix ":" segment (":" segment)*, so a prefix followed by its
// separator never matches a longer prefix.
const (
	situationPrefix        = "sit"
	situationParentPrefix  = "sitpar"
	situationRightPrefix   = "sitrig"
	situationActionPrefix  = "sitact"
	situationContactPrefix = "sitcon"
	timeLimitPrefix        = "timlim"
	rightPrefix            = "rig"
	rightSourcePrefix      = "rigsrc"
	actionPrefix           = "act"
	contactPrefix          = "con"
	contextPrefix          = "ctx"
	sourcePrefix           = "src"
	mythPrefix             = "myt"
	manifestKey            = "catalog:manifest"
)

const keySeparator = ':'

// makeKey joins a prefix and string segments.
// Format: prefix:seg1:seg2...
func makeKey(prefix string, segments ...string) []byte {
	size := len(prefix)
	for _, s := range segments {
		size += 1 + len(s)
	}
	buf := make([]byte, 0, size)
	buf = append(buf, prefix...)
	for _, s := range segments {
		buf = append(buf, keySeparator)
		buf = append(buf, s...)
	}
	return buf
}

// makeScanPrefix generates a partial key for prefix scans.
// Format: prefix:seg1:...:segN:
func makeScanPrefix(prefix string, segments ...string) []byte {
	return append(makeKey(prefix, segments...), keySeparator)
}

// encodeOrder encodes a signed order so that byte order matches numeric order.
func encodeOrder(order int) string {
	var buf [8]byte
	// Flip the sign bit so negative values sort before positive ones
	binary.BigEndian.PutUint64(buf[:], uint64(int64(order))^(1<<63))
	return string(buf[:])
}

func makeSituationKey(id string) []byte {
	return makeKey(situationPrefix, id)
}

// makeSituationParentKey generates a composite key for the parent index.
// Format: prefix:parentID:childID
func makeSituationParentKey(parentID, childID string) []byte {
	return makeKey(situationParentPrefix, parentID, childID)
}

// Format: prefix:situationID:rightID:contextID
func makeSituationRightKey(situationID, rightID, contextID string) []byte {
	return makeKey(situationRightPrefix, situationID, rightID, contextID)
}

// makeSituationActionKey orders action rows by step within a situation.
// Format: prefix:situationID:stepOrder:contextID
func makeSituationActionKey(situationID string, stepOrder int, contextID string) []byte {
	return makeKey(situationActionPrefix, situationID, encodeOrder(stepOrder), contextID)
}

// Format: prefix:situationID:contactID
func makeSituationContactKey(situationID, contactID string) []byte {
	return makeKey(situationContactPrefix, situationID, contactID)
}

// Format: prefix:situationID:timeLimitID
func makeTimeLimitKey(situationID, id string) []byte {
	return makeKey(timeLimitPrefix, situationID, id)
}

// Format: prefix:rightID:sourceID
func makeRightSourceKey(rightID, sourceID string) []byte {
	return makeKey(rightSourcePrefix, rightID, sourceID)
}
