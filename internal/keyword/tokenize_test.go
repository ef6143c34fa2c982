package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "keeps dotted api names",
			input: "call lancedb.connect to open",
			want:  []string{"call", "lancedb.connect", "open"},
		},
		{
			name:  "lowercases",
			input: "Vector Search",
			want:  []string{"vector", "search"},
		},
		{
			name:  "drops stop words and single chars",
			input: "a search for the results",
			want:  []string{"search", "results"},
		},
		{
			name:  "keeps underscores",
			input: "quickstart_ex1 runs",
			want:  []string{"quickstart_ex1", "runs"},
		},
		{
			name:  "empty input",
			input: "",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}
