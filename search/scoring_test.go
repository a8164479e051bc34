package search

import (
	"testing"

	"github.com/poiesic/derechos/core"
	"github.com/stretchr/testify/assert"
)

func phoneSituation() *core.Situation {
	return &core.Situation{
		ID:             "phone",
		Category:       "registro",
		Title:          "Revisión del celular",
		Description:    "La policía quiere revisar tu celular.",
		Severity:       core.SeverityHigh,
		Keywords:       []string{"celular", "revisar celular", "imei"},
		NaturalQueries: []string{"me piden el dni", "revisan mi celular", "quieren grabar"},
		IsActive:       true,
	}
}

func TestKeywordScore(t *testing.T) {
	c := prepareCandidate(phoneSituation())

	assert.InDelta(t, 2.0/3.0, keywordScore(prepareQuery("revisar mi celular"), c), 1e-9)
	assert.InDelta(t, 1.0, keywordScore(prepareQuery("IMEI del celular, revisar"), c), 1e-9)
	assert.Zero(t, keywordScore(prepareQuery("nada que ver"), c))

	empty := prepareCandidate(&core.Situation{ID: "e"})
	assert.Zero(t, keywordScore(prepareQuery("celular"), empty))
}

func TestNaturalQueryScore(t *testing.T) {
	c := prepareCandidate(phoneSituation())

	t.Run("exact match short-circuits", func(t *testing.T) {
		assert.Equal(t, 1.0, naturalQueryScore(prepareQuery("¿Me piden el DNI?"), c))
	})

	t.Run("query contained in phrase", func(t *testing.T) {
		// "piden el dni" (12 runes) inside "me piden el dni" (15 runes)
		assert.InDelta(t, 0.7+0.3*12.0/15.0, naturalQueryScore(prepareQuery("piden el DNI"), c), 1e-9)
	})

	t.Run("phrase contained in query", func(t *testing.T) {
		// "quieren grabar" (14) inside "ellos quieren grabar" (20)
		assert.InDelta(t, 0.7+0.3*14.0/20.0, naturalQueryScore(prepareQuery("ellos quieren grabar"), c), 1e-9)
	})

	t.Run("token overlap uses damped F1", func(t *testing.T) {
		// {policia, revisa, celular} vs {revisan, celular}: p=1/3, r=1/2, f1=0.4
		assert.InDelta(t, 0.4*0.8, naturalQueryScore(prepareQuery("policía revisa celular"), c), 1e-9)
	})

	t.Run("empty query scores zero", func(t *testing.T) {
		assert.Zero(t, naturalQueryScore(prepareQuery("  ¿? "), c))
	})

	t.Run("stop words only", func(t *testing.T) {
		assert.Zero(t, naturalQueryScore(prepareQuery("de la que"), c))
	})
}

func TestTitleScore(t *testing.T) {
	c := prepareCandidate(phoneSituation())

	// {revisan, celular} vs {revision, celular}
	assert.InDelta(t, 0.25, titleScore(prepareQuery("revisan celular"), c), 1e-9)
	assert.InDelta(t, 0.5, titleScore(prepareQuery("revisión celular"), c), 1e-9)
	assert.Zero(t, titleScore(prepareQuery("grabar"), c))
}

func TestPartialScore(t *testing.T) {
	c := prepareCandidate(phoneSituation())

	// "grabando" shares "graba" with "grabar": 5/8
	assert.InDelta(t, 5.0/8.0*0.4, partialScore(prepareQuery("grabando"), c), 1e-9)

	// identical token gives the cap
	assert.InDelta(t, 0.4, partialScore(prepareQuery("celular"), c), 1e-9)

	// short tokens never match
	assert.Zero(t, partialScore(prepareQuery("dni"), c))

	// first four runes must agree
	assert.Zero(t, partialScore(prepareQuery("celosos"), c))
}

func TestFuse(t *testing.T) {
	assert.InDelta(t, 1.0, Fuse(core.ComponentScores{NaturalQuery: 1, Keyword: 1, Title: 1, Partial: 1}), 1e-9)
	assert.InDelta(t, 0.45, Fuse(core.ComponentScores{NaturalQuery: 1}), 1e-9)
	assert.InDelta(t, 0.30, Fuse(core.ComponentScores{Keyword: 1}), 1e-9)
	assert.InDelta(t, 0.15, Fuse(core.ComponentScores{Title: 1}), 1e-9)
	assert.InDelta(t, 0.10, Fuse(core.ComponentScores{Partial: 1}), 1e-9)
	assert.Zero(t, Fuse(core.ComponentScores{}))
}

func TestScore_Range(t *testing.T) {
	s := phoneSituation()
	queries := []string{
		"", "xyzabc123", "me piden el dni", "celular celular celular",
		"revisar mi celular imei quieren grabar", "¿?", "a",
	}
	for _, q := range queries {
		fused, c := Score(q, s)
		for _, v := range []float64{fused, c.NaturalQuery, c.Keyword, c.Title, c.Partial} {
			assert.GreaterOrEqual(t, v, 0.0, q)
			assert.LessOrEqual(t, v, 1.0, q)
		}
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.5575, round(0.55749999, 4))
	assert.Equal(t, 0.333, round(1.0/3.0, 3))
	assert.Equal(t, core.ComponentScores{NaturalQuery: 0.667, Keyword: 0.1, Title: 0, Partial: 0.25},
		roundComponents(core.ComponentScores{NaturalQuery: 2.0 / 3.0, Keyword: 0.1, Partial: 0.25}))
}
