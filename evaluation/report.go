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
	"time"

	"github.com/poiesic/derechos/core"
)

// CaseResult is the graded outcome of one case.
type CaseResult struct {
	Case    Case
	Passed  bool
	Rank    int // 1-based position of the expected id, 0 when absent
	Results []*core.MatchResult
}

// Top returns the best match, or nil when nothing was returned.
func (r CaseResult) Top() *core.MatchResult {
	if len(r.Results) == 0 {
		return nil
	}
	return r.Results[0]
}

// Report summarizes an evaluation run.
type Report struct {
	Results []CaseResult
	Passed  int
	Failed  int
	Elapsed time.Duration
}

func (r *Report) add(res CaseResult) {
	r.Results = append(r.Results, res)
	if res.Passed {
		r.Passed++
	} else {
		r.Failed++
	}
}

// HitRate is the fraction of passing cases, 0 for an empty report.
func (r *Report) HitRate() float64 {
	total := r.Passed + r.Failed
	if total == 0 {
		return 0
	}
	return float64(r.Passed) / float64(total)
}

// Failures returns the failing cases in input order.
func (r *Report) Failures() []CaseResult {
	var out []CaseResult
	for _, res := range r.Results {
		if !res.Passed {
			out = append(out, res)
		}
	}
	return out
}
