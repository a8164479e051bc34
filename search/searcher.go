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

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/derechos/core"
	"github.com/poiesic/derechos/storage"
)

// Searcher ranks active situations against free-text queries.
// It is safe for concurrent use.
type Searcher struct {
	situations storage.SituationRepository
	manifests  storage.ManifestRepository
	pool       *ants.Pool
	limit      int
	logger     *slog.Logger

	mu       sync.RWMutex
	version  string
	snapshot []*candidate
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithDefaultLimit sets the number of results returned when a call passes
// a limit of zero or less. Default is DefaultLimit.
func WithDefaultLimit(limit int) Option {
	return func(s *Searcher) error {
		if limit < 1 {
			limit = DefaultLimit
		}
		s.limit = limit
		return nil
	}
}

// WithPoolSize sets the worker pool size used by SearchBatch.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Searcher) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if s.pool != nil {
			s.pool.Release()
		}
		s.pool = pool
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	situations storage.SituationRepository,
	manifests storage.ManifestRepository,
	opts ...Option,
) (*Searcher, error) {
	if situations == nil {
		return nil, ErrSituationRepositoryRequired
	}
	if manifests == nil {
		return nil, ErrManifestRepositoryRequired
	}

	pool, err := ants.NewPool(max(runtime.NumCPU(), 1))
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		situations: situations,
		manifests:  manifests,
		pool:       pool,
		limit:      DefaultLimit,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.Release()
			return nil, err
		}
	}

	return s, nil
}

// Release releases the worker pool.
// The searcher should not be used after calling Release.
func (s *Searcher) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// Search returns up to limit situations ranked by relevance to query.
// A limit of zero or less uses the default. An empty query, or one nothing
// is relevant to, yields an empty slice. ErrDataSourceUnavailable is returned
// when no catalog is installed.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]*core.MatchResult, error) {
	return s.SearchWithMonitor(ctx, query, limit, nil)
}

// SearchWithMonitor is Search with a monitor receiving callbacks at each stage.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, limit int, monitor SearchMonitor) ([]*core.MatchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	candidates, err := s.candidates(ctx, monitor)
	if err != nil {
		return nil, err
	}

	results := s.rank(prepareQuery(query), candidates, s.effectiveLimit(limit), monitor)
	monitor.Finish(results)
	return results, nil
}

// SearchBatch runs Search for every query concurrently on the worker pool.
// Results are returned in the order of queries.
func (s *Searcher) SearchBatch(ctx context.Context, queries []string, limit int) ([][]*core.MatchResult, error) {
	candidates, err := s.candidates(ctx, &noopMonitor{})
	if err != nil {
		return nil, err
	}
	limit = s.effectiveLimit(limit)

	out := make([][]*core.MatchResult, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		task := func() {
			defer wg.Done()
			out[i] = s.rank(prepareQuery(q), candidates, limit, &noopMonitor{})
		}
		if err := s.pool.Submit(task); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submitting query %d: %w", i, err)
		}
	}
	wg.Wait()
	return out, nil
}

func (s *Searcher) effectiveLimit(limit int) int {
	if limit < 1 {
		return s.limit
	}
	return limit
}

// rank scores every candidate, drops those at or below the floor and sorts
// the rest by descending score. Equal scores keep catalog order.
func (s *Searcher) rank(q query, candidates []*candidate, limit int, monitor SearchMonitor) []*core.MatchResult {
	results := make([]*core.MatchResult, 0, limit)
	if strings.TrimSpace(q.normalized) == "" {
		return results
	}

	for _, c := range candidates {
		fused, components := scoreCandidate(q, c)
		if fused <= RelevanceFloor {
			monitor.BelowFloor(c.situation.ID, fused)
			continue
		}
		monitor.Scored(c.situation.ID, fused, components)
		results = append(results, &core.MatchResult{
			SituationID: c.situation.ID,
			Title:       c.situation.Title,
			Description: c.situation.Description,
			Severity:    c.situation.Severity,
			Category:    c.situation.Category,
			Score:       round(fused, 4),
			Components:  roundComponents(components),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// candidates returns the pre-tokenized active situations of the installed
// catalog, reloading them when the manifest version has changed.
func (s *Searcher) candidates(ctx context.Context, monitor SearchMonitor) ([]*candidate, error) {
	manifest, err := s.manifests.LoadManifest(ctx)
	if err != nil {
		s.logger.Error("error loading catalog manifest", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrDataSourceUnavailable, err)
	}
	if manifest == nil {
		return nil, ErrDataSourceUnavailable
	}

	s.mu.RLock()
	if s.snapshot != nil && s.version == manifest.Version {
		snapshot := s.snapshot
		s.mu.RUnlock()
		monitor.AfterSnapshot(manifest.Version, len(snapshot), false)
		return snapshot, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot != nil && s.version == manifest.Version {
		monitor.AfterSnapshot(manifest.Version, len(s.snapshot), false)
		return s.snapshot, nil
	}

	situations, err := s.situations.ListActiveSituations(ctx)
	if err != nil {
		s.logger.Error("error listing active situations", "err", err)
		return nil, err
	}
	snapshot := make([]*candidate, 0, len(situations))
	for _, situation := range situations {
		snapshot = append(snapshot, prepareCandidate(situation))
	}
	s.snapshot = snapshot
	s.version = manifest.Version
	s.logger.Debug("loaded situation snapshot", "version", manifest.Version, "situations", len(snapshot))
	monitor.AfterSnapshot(manifest.Version, len(snapshot), true)
	return snapshot, nil
}
