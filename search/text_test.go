package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"¿Cuánto TIEMPO me pueden retener?", "cuanto tiempo me pueden retener"},
		{"Me pidieron el DNI!!!", "me pidieron el dni"},
		{"  espacios \t\n  múltiples  ", "espacios multiples"},
		{"Niño, acción y corazón", "nino accion y corazon"},
		{"código_penal art. 205", "codigo_penal art 205"},
		{"", ""},
		{"¡¿?!", ""},
		{"x²y", "x²y"},
		{"art. 2º inciso ½", "art 2º inciso ½"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"¿Cuánto TIEMPO me pueden retener?",
		"Ñandú  PINGÜINO",
		"me quieren revisar el celular",
		"   ",
		"xyzabc123",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), in)
	}
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("El policía, el POLICÍA y la policía")
	assert.Len(t, tokens, 4)
	assert.True(t, tokens.has("policia"))
	assert.True(t, tokens.has("el"))
	assert.True(t, tokens.has("la"))
	assert.True(t, tokens.has("y"))

	assert.Empty(t, Tokenize(""))
}

func TestTokensWithoutStopWords(t *testing.T) {
	tokens := TokensWithoutStopWords("me quieren revisar el celular")
	assert.Len(t, tokens, 3)
	assert.True(t, tokens.has("quieren"))
	assert.True(t, tokens.has("revisar"))
	assert.True(t, tokens.has("celular"))
	assert.False(t, tokens.has("me"))
	assert.False(t, tokens.has("el"))

	assert.Empty(t, TokensWithoutStopWords("de la que en el"))
}

func TestIsStopWord(t *testing.T) {
	assert.Len(t, stopWords, 60)
	for _, w := range []string{"me", "el", "cuanto", "donde", "mas"} {
		assert.True(t, IsStopWord(w), w)
	}
	for _, w := range []string{"policia", "celular", "dni", "más"} {
		assert.False(t, IsStopWord(w), w)
	}
}

func TestTokenSet_Intersect(t *testing.T) {
	a := tokensOf("uno dos tres")
	b := tokensOf("dos tres cuatro cinco")
	assert.Equal(t, 2, a.intersect(b))
	assert.Equal(t, 2, b.intersect(a))
	assert.Equal(t, 0, a.intersect(tokenSet{}))
}
