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
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Spanish function words ignored by overlap scoring.
var stopWords = map[string]bool{
	"me": true, "mi": true, "yo": true, "el": true, "la": true, "los": true,
	"las": true, "un": true, "una": true, "unos": true, "unas": true, "de": true,
	"del": true, "en": true, "a": true, "al": true, "por": true, "para": true,
	"con": true, "sin": true, "que": true, "es": true, "y": true, "o": true,
	"no": true, "si": true, "se": true, "lo": true, "le": true, "les": true,
	"su": true, "sus": true, "como": true, "pero": true, "mas": true, "muy": true,
	"ya": true, "esta": true, "esto": true, "ese": true, "esa": true, "esos": true,
	"esas": true, "hay": true, "han": true, "ha": true, "he": true, "ser": true,
	"son": true, "fue": true, "van": true, "ir": true, "te": true, "tu": true,
	"nos": true, "cuando": true, "donde": true, "quien": true, "cual": true,
	"cuanto": true,
}

// IsStopWord reports whether a normalized token is a stop word.
func IsStopWord(token string) bool {
	return stopWords[token]
}

// tokenSet is an unordered set of normalized words.
type tokenSet map[string]struct{}

func (s tokenSet) has(token string) bool {
	_, ok := s[token]
	return ok
}

// intersect counts the tokens present in both sets.
func (s tokenSet) intersect(other tokenSet) int {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	n := 0
	for t := range small {
		if large.has(t) {
			n++
		}
	}
	return n
}

// Normalize lowercases text, strips diacritics, drops every rune that is not
// a letter, number, underscore or space, and collapses whitespace.
// "¿Cuánto TIEMPO me pueden retener?" becomes "cuanto tiempo me pueden retener".
func Normalize(text string) string {
	// A chain keeps internal buffers, so each call builds its own.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(fold, strings.ToLower(text))
	if err != nil {
		folded = strings.ToLower(text)
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize normalizes text and returns its distinct words.
func Tokenize(text string) tokenSet {
	return tokensOf(Normalize(text))
}

// TokensWithoutStopWords is Tokenize minus the Spanish stop words.
func TokensWithoutStopWords(text string) tokenSet {
	return withoutStopWords(Tokenize(text))
}

func tokensOf(normalized string) tokenSet {
	fields := strings.Fields(normalized)
	set := make(tokenSet, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func withoutStopWords(tokens tokenSet) tokenSet {
	out := make(tokenSet, len(tokens))
	for t := range tokens {
		if !stopWords[t] {
			out[t] = struct{}{}
		}
	}
	return out
}
