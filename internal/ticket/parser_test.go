package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSplitsAndCleansLines(t *testing.T) {
	description := "# Login flow\r\nNavigate to https://example.com/login\r\n\r\nClick on sign in\nCheck for welcome banner"

	instructions := Parse(description)
	require.Len(t, instructions, 4)

	assert.Equal(t, "Login flow", instructions[0].Text)
	assert.Equal(t, "Navigate to https://example.com/login", instructions[1].Text)
	assert.Equal(t, "Click on sign in", instructions[2].Text)
	assert.Equal(t, "Check for welcome banner", instructions[3].Text)

	for i, instruction := range instructions {
		assert.Equal(t, i, instruction.Index)
	}
}

func TestParseHandlesEscapedLineBreaks(t *testing.T) {
	// ticket APIs often deliver descriptions with literal backslash
	// sequences instead of real newlines
	description := `Navigate to https://example.com\r\nClick on submit`

	instructions := Parse(description)
	require.Len(t, instructions, 2)
	assert.Equal(t, "Navigate to https://example.com", instructions[0].Text)
	assert.Equal(t, "Click on submit", instructions[1].Text)
}

func TestParseStripsBracketsAroundNavigateURL(t *testing.T) {
	instructions := Parse("Navigate to [https://example.com/app]")
	require.Len(t, instructions, 1)
	assert.Equal(t, "Navigate to https://example.com/app", instructions[0].Text)
}

func TestParseReplacesNonBreakingSpaces(t *testing.T) {
	instructions := Parse("Click on login")
	require.Len(t, instructions, 1)
	assert.Equal(t, "Click on login", instructions[0].Text)
}

func TestParseEmptyDescription(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("   \n\t\n  "))
	assert.Empty(t, Parse("###\n##"))
}

func TestFirstURL(t *testing.T) {
	instructions := Parse("Some context line\nNavigate to https://example.com/login.\nNavigate to https://other.example.com")

	url := FirstURL(instructions)
	assert.Equal(t, "https://example.com/login", url)
}

func TestFirstURLNoURL(t *testing.T) {
	instructions := Parse("Click on submit\nCheck for banner")
	assert.Equal(t, "", FirstURL(instructions))
}

func TestExtractURLTrimsTrailingPunctuation(t *testing.T) {
	cases := map[string]string{
		"see https://example.com/a, then":    "https://example.com/a",
		"go to (https://example.com/b)":      "https://example.com/b",
		"visit https://example.com/c;":       "https://example.com/c",
		"open http://example.com/d":          "http://example.com/d",
		"ftp://example.com/e has no matches": "",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, ExtractURL(input), "input: %s", input)
	}
}

func TestFetchFailed(t *testing.T) {
	assert.True(t, FetchFailed(""))
	assert.True(t, FetchFailed("Error fetching ticket PROJ-1: 404"))
	assert.True(t, FetchFailed("Failed to connect to tracker"))
	assert.False(t, FetchFailed("Navigate to https://example.com"))
}
