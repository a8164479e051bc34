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
	"math"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/derechos/core"
)

const (
	weightNaturalQuery = 0.45
	weightKeyword      = 0.30
	weightTitle        = 0.15
	weightPartial      = 0.10

	// RelevanceFloor is the fused score a situation must exceed to be returned.
	RelevanceFloor = 0.05

	// DefaultLimit is the number of results returned when no limit is given.
	DefaultLimit = 3

	containmentBase   = 0.7
	containmentSpread = 0.3
	overlapDamping    = 0.8
	titleCap          = 0.5
	partialCap        = 0.4

	// Tokens shorter than this never take part in prefix matching.
	minPartialLength = 4
)

// query is a search string prepared once per call.
type query struct {
	normalized string
	length     int
	tokens     tokenSet // without stop words
}

func prepareQuery(text string) query {
	n := Normalize(text)
	return query{
		normalized: n,
		length:     utf8.RuneCountInString(n),
		tokens:     withoutStopWords(tokensOf(n)),
	}
}

type phrase struct {
	normalized string
	length     int
	tokens     tokenSet // without stop words
}

// candidate is an active situation with every scoring view precomputed.
type candidate struct {
	situation      *core.Situation
	phrases        []phrase
	keywordTokens  tokenSet
	titleTokens    tokenSet // without stop words
	partialTargets []string
}

func prepareCandidate(s *core.Situation) *candidate {
	c := &candidate{
		situation:     s,
		phrases:       make([]phrase, 0, len(s.NaturalQueries)),
		keywordTokens: Tokenize(strings.Join(s.Keywords, " ")),
		titleTokens:   TokensWithoutStopWords(s.Title),
	}

	targets := make(tokenSet, len(c.keywordTokens))
	for t := range c.keywordTokens {
		targets[t] = struct{}{}
	}
	for _, nq := range s.NaturalQueries {
		n := Normalize(nq)
		all := tokensOf(n)
		for t := range all {
			targets[t] = struct{}{}
		}
		c.phrases = append(c.phrases, phrase{
			normalized: n,
			length:     utf8.RuneCountInString(n),
			tokens:     withoutStopWords(all),
		})
	}
	for t := range targets {
		if utf8.RuneCountInString(t) >= minPartialLength {
			c.partialTargets = append(c.partialTargets, t)
		}
	}
	return c
}

// keywordScore is the share of the situation's keyword tokens found in the query.
func keywordScore(q query, c *candidate) float64 {
	if len(c.keywordTokens) == 0 {
		return 0
	}
	return float64(q.tokens.intersect(c.keywordTokens)) / float64(len(c.keywordTokens))
}

// naturalQueryScore is the best similarity between the query and any canned phrasing.
// An exact match ends the search at 1.0. Containment in either direction scores
// by length ratio; otherwise the damped F1 of the token overlap is used.
func naturalQueryScore(q query, c *candidate) float64 {
	if q.normalized == "" {
		return 0
	}
	best := 0.0
	for _, p := range c.phrases {
		if q.normalized == p.normalized {
			return 1.0
		}
		if p.normalized != "" && (strings.Contains(p.normalized, q.normalized) || strings.Contains(q.normalized, p.normalized)) {
			shorter, longer := min(q.length, p.length), max(q.length, p.length)
			best = max(best, containmentBase+containmentSpread*float64(shorter)/float64(longer))
			continue
		}
		if len(q.tokens) == 0 || len(p.tokens) == 0 {
			continue
		}
		shared := q.tokens.intersect(p.tokens)
		if shared == 0 {
			continue
		}
		precision := float64(shared) / float64(len(q.tokens))
		recall := float64(shared) / float64(len(p.tokens))
		best = max(best, 2*precision*recall/(precision+recall)*overlapDamping)
	}
	return best
}

func titleScore(q query, c *candidate) float64 {
	if len(q.tokens) == 0 || len(c.titleTokens) == 0 {
		return 0
	}
	shared := q.tokens.intersect(c.titleTokens)
	if shared == 0 {
		return 0
	}
	return float64(shared) / float64(max(len(q.tokens), len(c.titleTokens))) * titleCap
}

// partialScore rewards query tokens that share a four-rune prefix with a
// keyword or phrase token, scaled by how far the common prefix extends.
func partialScore(q query, c *candidate) float64 {
	best := 0.0
	for qt := range q.tokens {
		qr := []rune(qt)
		if len(qr) < minPartialLength {
			continue
		}
		stem := string(qr[:minPartialLength])
		for _, target := range c.partialTargets {
			if !strings.HasPrefix(target, stem) {
				continue
			}
			tr := []rune(target)
			common := commonPrefix(qr, tr)
			best = max(best, float64(common)/float64(max(len(qr), len(tr)))*partialCap)
		}
	}
	return best
}

func commonPrefix(a, b []rune) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// Fuse combines the four signals into a single relevance score.
func Fuse(c core.ComponentScores) float64 {
	return weightNaturalQuery*c.NaturalQuery +
		weightKeyword*c.Keyword +
		weightTitle*c.Title +
		weightPartial*c.Partial
}

func scoreCandidate(q query, c *candidate) (float64, core.ComponentScores) {
	components := core.ComponentScores{
		NaturalQuery: naturalQueryScore(q, c),
		Keyword:      keywordScore(q, c),
		Title:        titleScore(q, c),
		Partial:      partialScore(q, c),
	}
	return Fuse(components), components
}

// Score rates a single situation against a query without touching storage.
// It returns the unrounded fused score and its components.
func Score(text string, situation *core.Situation) (float64, core.ComponentScores) {
	return scoreCandidate(prepareQuery(text), prepareCandidate(situation))
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

func roundComponents(c core.ComponentScores) core.ComponentScores {
	return core.ComponentScores{
		NaturalQuery: round(c.NaturalQuery, 3),
		Keyword:      round(c.Keyword, 3),
		Title:        round(c.Title, 3),
		Partial:      round(c.Partial, 3),
	}
}
