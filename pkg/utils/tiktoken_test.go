package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountTokens(t *testing.T) {
	counter, err := NewTokenCounter()
	require.NoError(t, err)

	tests := []struct {
		name      string
		text      string
		minTokens int
		maxTokens int
	}{
		{"empty", "", 0, 0},
		{"single word", "Hello", 1, 2},
		{"two words", "Hello world", 2, 3},
		{"sentence", "This is a longer sentence with more words.", 8, 12},
		{"repeated words", strings.Repeat("word ", 100), 90, 110},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := counter.CountTokens(tt.text)
			assert.GreaterOrEqual(t, tokens, tt.minTokens)
			assert.LessOrEqual(t, tokens, tt.maxTokens)
		})
	}
}

func TestCountTokensNilCounter(t *testing.T) {
	var counter *TokenCounter
	assert.Equal(t, len("some example text here")/4, counter.CountTokens("some example text here"))
}

func TestCountTokensSimple(t *testing.T) {
	assert.Greater(t, CountTokensSimple("Hello world, this is a test."), 0)
}

func TestValidateTokenLimit(t *testing.T) {
	counter, err := NewTokenCounter()
	require.NoError(t, err)

	assert.True(t, counter.ValidateTokenLimit("short text", 100))
	assert.False(t, counter.ValidateTokenLimit(strings.Repeat("word ", 200), 100))
}
