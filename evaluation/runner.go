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
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/derechos/core"
)

// BatchSearcher ranks many queries at once.
type BatchSearcher interface {
	SearchBatch(ctx context.Context, queries []string, limit int) ([][]*core.MatchResult, error)
}

// minLimit is the smallest number of results requested per query, so that
// reports can show near misses.
const minLimit = 3

// Runner checks a searcher against evaluation cases.
type Runner struct {
	searcher BatchSearcher
	logger   *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRunner creates a new evaluation runner.
func NewRunner(searcher BatchSearcher, opts ...Option) (*Runner, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	r := &Runner{searcher: searcher, logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Run searches every case query in one batch and grades the results.
func (r *Runner) Run(ctx context.Context, cases []Case) (*Report, error) {
	limit := minLimit
	queries := make([]string, len(cases))
	for i, c := range cases {
		queries[i] = c.Query
		limit = max(limit, c.top())
	}

	start := time.Now()
	batch, err := r.searcher.SearchBatch(ctx, queries, limit)
	if err != nil {
		return nil, err
	}

	report := &Report{Results: make([]CaseResult, 0, len(cases)), Elapsed: time.Since(start)}
	for i, c := range cases {
		res := grade(c, batch[i])
		if !res.Passed {
			r.logger.Debug("evaluation case failed", "query", c.Query, "expect", c.Expect, "rank", res.Rank)
		}
		report.add(res)
	}
	r.logger.Info("evaluation finished", "cases", len(cases), "passed", report.Passed, "elapsed", report.Elapsed)
	return report, nil
}

func grade(c Case, results []*core.MatchResult) CaseResult {
	res := CaseResult{Case: c, Results: results}
	if c.ExpectsNothing() {
		res.Passed = len(results) == 0
		return res
	}
	for i, m := range results {
		if m.SituationID == c.Expect {
			res.Rank = i + 1
			break
		}
	}
	res.Passed = res.Rank > 0 && res.Rank <= c.top()
	return res
}
