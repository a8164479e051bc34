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

import "errors"

// Domain validation errors
var (
	// ErrInvalidSituation indicates a Situation failed validation.
	ErrInvalidSituation = errors.New("invalid situation")

	// ErrInvalidRight indicates a Right failed validation.
	ErrInvalidRight = errors.New("invalid right")

	// ErrInvalidAction indicates an Action failed validation.
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidContact indicates an EmergencyContact failed validation.
	ErrInvalidContact = errors.New("invalid emergency contact")

	// ErrInvalidTimeLimit indicates a TimeLimit failed validation.
	ErrInvalidTimeLimit = errors.New("invalid time limit")

	// ErrInvalidContext indicates a Context failed validation.
	ErrInvalidContext = errors.New("invalid context")

	// ErrInvalidSource indicates a LegalSource failed validation.
	ErrInvalidSource = errors.New("invalid legal source")

	// ErrInvalidMyth indicates a Myth failed validation.
	ErrInvalidMyth = errors.New("invalid myth")

	// ErrMissingField indicates a required field is empty.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidSeverity indicates an unknown severity value.
	ErrInvalidSeverity = errors.New("invalid severity")

	// ErrInvalidActionType indicates an action type outside the closed set.
	ErrInvalidActionType = errors.New("invalid action type")

	// ErrInvalidCategory indicates a category outside its vocabulary.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidIDPrefix indicates an identifier without its required prefix.
	ErrInvalidIDPrefix = errors.New("invalid identifier prefix")

	// ErrNoContactChannel indicates a contact with no phone, whatsapp, email or website.
	ErrNoContactChannel = errors.New("contact has no channel")

	// ErrNegativeHours indicates a time limit below zero hours.
	ErrNegativeHours = errors.New("hours cannot be negative")

	// ErrStepOrderGap indicates action steps that are not a contiguous sequence.
	ErrStepOrderGap = errors.New("step order is not contiguous")
)
