package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorpus_Len(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		corpus Corpus
		want   int
	}{
		{name: "nil corpus", corpus: nil, want: 0},
		{name: "empty group", corpus: Corpus{{University: "MIT"}}, want: 0},
		{
			name: "multiple groups",
			corpus: Corpus{
				{University: "MIT", Reviews: []Review{{Professor: "Smith"}, {Professor: "Jones"}}},
				{University: "Stanford", Reviews: []Review{{Professor: "Lee"}}},
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.corpus.Len())
		})
	}
}
