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

package search

import "github.com/poiesic/derechos/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to explain how a ranking came about.
type SearchMonitor interface {
	Start(query string)
	AfterSnapshot(version string, candidates int, reloaded bool)
	Scored(situationID string, fused float64, components core.ComponentScores)
	BelowFloor(situationID string, fused float64)
	Finish(results []*core.MatchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                   {}
func (n *noopMonitor) AfterSnapshot(_ string, _ int, _ bool)            {}
func (n *noopMonitor) Scored(_ string, _ float64, _ core.ComponentScores) {}
func (n *noopMonitor) BelowFloor(_ string, _ float64)                   {}
func (n *noopMonitor) Finish(_ []*core.MatchResult)                     {}
