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

package evaluation

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Case is one expected outcome of a query.
type Case struct {
	Query string `yaml:"query"`

	// Expect is the situation id that must rank within the first Top
	// results. Empty means the query must return nothing.
	Expect string `yaml:"expect"`

	// Top defaults to 1.
	Top int `yaml:"top,omitempty"`
}

// ExpectsNothing reports whether the case asserts an empty result.
func (c Case) ExpectsNothing() bool {
	return c.Expect == ""
}

func (c Case) top() int {
	if c.Top < 1 {
		return 1
	}
	return c.Top
}

type caseFile struct {
	Cases []Case `yaml:"cases"`
}

// ParseCases decodes a YAML case file.
func ParseCases(r io.Reader) ([]Case, error) {
	var f caseFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoCases
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidCases, err)
	}
	if len(f.Cases) == 0 {
		return nil, ErrNoCases
	}
	for i, c := range f.Cases {
		if c.Top < 0 {
			return nil, fmt.Errorf("%w: case %d: negative top", ErrInvalidCases, i+1)
		}
	}
	return f.Cases, nil
}

// LoadCases reads a YAML case file from disk.
func LoadCases(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCases(f)
}
