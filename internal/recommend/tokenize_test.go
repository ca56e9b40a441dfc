// internal/recommend/tokenize_test.go
package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "lowercases and splits on punctuation",
			input:    "Python, SQL and Excel",
			expected: []string{"python", "sql", "and", "excel"},
		},
		{
			name:     "preserves symbol-bearing skill names",
			input:    "C++, Node.js and C# development",
			expected: []string{"c++", "node.js", "and", "c#", "development"},
		},
		{
			name:     "keeps connective words",
			input:    "research and development in agriculture",
			expected: []string{"research", "and", "development", "in", "agriculture"},
		},
		{
			name:     "drops single character tokens",
			input:    "a b c data",
			expected: []string{"data"},
		},
		{
			name:     "keeps digits",
			input:    "B2B sales 2024",
			expected: []string{"b2b", "sales", "2024"},
		},
		{
			name:     "splits underscored enum labels",
			input:    "TENTH_PLUS_TWO",
			expected: []string{"tenth", "plus", "two"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
		{
			name:     "only separators",
			input:    "!!! ---",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input))
		})
	}
}

func BenchmarkTokenize(b *testing.B) {
	text := "Looking for a Python developer with SQL, C++, Node.js and strong data analysis skills"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Tokenize(text)
	}
}
