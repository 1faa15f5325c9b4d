package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistory_Normalize(t *testing.T) {
	req := require.New(t)

	// A well-formed history survives untouched
	history := History{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi"},
	}
	normalized, err := history.Normalize()
	req.NoError(err)
	req.Equal(history, normalized)

	// An empty history is valid
	normalized, err = History{}.Normalize()
	req.NoError(err)
	req.Empty(normalized)
}

func TestHistory_Normalize_Rejects_Unknown_Role(t *testing.T) {
	req := require.New(t)

	_, err := History{
		{Role: RoleUser, Content: "hello"},
		{Role: "system", Content: "sneaky"},
	}.Normalize()

	req.Error(err)
	req.Contains(err.Error(), "unknown role")
	req.Contains(err.Error(), "entry 1")
}

func TestHistory_Normalize_Rejects_Blank_Content(t *testing.T) {
	req := require.New(t)

	_, err := History{
		{Role: RoleUser, Content: "   \t"},
	}.Normalize()

	req.Error(err)
	req.Contains(err.Error(), "empty content")
}

func TestRole_Label(t *testing.T) {
	req := require.New(t)

	req.Equal("User", RoleUser.Label())
	req.Equal("Assistant", RoleAssistant.Label())

	// Anything unrecognized renders as the user
	req.Equal("User", Role("bot").Label())
}
