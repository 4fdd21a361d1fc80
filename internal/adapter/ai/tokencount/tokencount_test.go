package tokencount

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountTokens(t *testing.T) {
	t.Parallel()

	counter := NewCounter()

	tests := []struct {
		name     string
		text     string
		model    string
		minCount int
		maxCount int
	}{
		{
			name:     "short review",
			text:     "Great lecturer",
			model:    "text-embedding-3-small",
			minCount: 2,
			maxCount: 4,
		},
		{
			name:     "sentence",
			text:     "The quick brown fox jumps over the lazy dog.",
			model:    "text-embedding-3-large",
			minCount: 8,
			maxCount: 12,
		},
		{
			name:     "provider prefixed id",
			text:     "Hello, world!",
			model:    "openai/text-embedding-3-small",
			minCount: 3,
			maxCount: 5,
		},
		{
			name:     "empty text",
			text:     "",
			model:    "text-embedding-3-small",
			minCount: 0,
			maxCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := counter.CountTokens(tt.text, tt.model)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, count, tt.minCount)
			assert.LessOrEqual(t, count, tt.maxCount)
		})
	}
}

func TestNormalizeModelName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "text-embedding-ada-002", normalizeModelName("text-embedding-3-small"))
	assert.Equal(t, "text-embedding-ada-002", normalizeModelName(" OpenAI/Text-Embedding-3-Large "))
	assert.Equal(t, "gpt-4", normalizeModelName("gpt-4"))
}

func TestCountOrEstimate_Exact(t *testing.T) {
	t.Parallel()

	n, exact := NewCounter().CountOrEstimate(strings.Repeat("word ", 100), "text-embedding-3-small")
	assert.True(t, exact)
	assert.InDelta(t, 100, n, 5)
}

func TestCounter_ConcurrentUse(t *testing.T) {
	t.Parallel()

	counter := NewCounter()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := counter.CountTokens("Tough grader but fair", "text-embedding-3-small")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestCountTokensDefault(t *testing.T) {
	n, err := CountTokensDefault("Great lecturer", "text-embedding-3-small")
	require.NoError(t, err)
	assert.Positive(t, n)
}
