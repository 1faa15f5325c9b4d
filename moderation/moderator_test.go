package moderation

import (
	"testing"

	"codecrux/errors"
	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

// TestModerator_Censor
// The dictionary uses specific words to avoid partial collisions (e.g., "he" inside "The")
func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	dictionary := []string{"badger", "snake", "mushroom"}
	mod, err := NewModerator(dictionary, replacementChar)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		words    []string
	}{
		{
			name:     "Simple word and space preservation",
			input:    "The badger is here",
			expected: "The ****** is here",
			words:    []string{"badger"},
		},
		{
			name:     "Multiple occurrences and preserved spacing",
			input:    "badger badger badger",
			expected: "****** ****** ******",
			words:    []string{"badger", "badger", "badger"},
		},
		{
			name:     "Case insensitive match",
			input:    "Watch out for the BADGER",
			expected: "Watch out for the ******",
			words:    []string{"badger"},
		},
		{
			name:     "Accents and special characters (UTF-8)",
			input:    "Un été avec un badger",
			expected: "Un été avec un ******",
			words:    []string{"badger"},
		},
		{
			name:     "Word adjacent to trailing punctuation",
			input:    "I love badger!",
			expected: "I love ******!",
			words:    []string{"badger"},
		},
		{
			name:     "Two different words in one message",
			input:    "snake meets badger",
			expected: "***** meets ******",
			words:    []string{"snake", "badger"},
		},
		{
			name:     "Nothing to censor",
			input:    "CodeCrux is amazing",
			expected: "CodeCrux is amazing",
			words:    nil,
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
			words:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, words := mod.Censor(tt.input)
			req.Equal(tt.expected, content, "test=%s,", tt.name)
			req.Equal(tt.words, words, "expected=%s,words=%s", tt.expected, words)
		})
	}
}

func TestModerator_Empty_Dictionary(t *testing.T) {
	req := require.New(t)

	// When the word list is empty
	_, err := NewModerator(nil, replacementChar)

	// Then the moderator refuses to build
	req.ErrorIs(err, errors.ErrEmptyWords)
}

func TestModerator_Uppercase_Dictionary_Entries(t *testing.T) {
	req := require.New(t)

	// Given a dictionary with mixed casing
	mod, err := NewModerator([]string{"BaDGer"}, replacementChar)
	req.NoError(err)

	// Then matching stays case insensitive both ways
	content, words := mod.Censor("a Badger appears")
	req.Equal("a ****** appears", content)
	req.Equal([]string{"badger"}, words)
}
