// Package ticket turns raw ticket descriptions into ordered instruction
// lines and extracts the URLs test runs start from.
package ticket

import (
	"regexp"
	"strings"
)

// Instruction is a single cleaned, non-empty line of a ticket description,
// in original document order.
type Instruction struct {
	// Index is the zero-based position among the kept lines
	Index int
	// Text is the cleaned instruction text
	Text string
}

var (
	urlPattern = regexp.MustCompile(`https?://[^\s\]]+`)

	// bracketedNavigate matches "Navigate to [https://...]" so the
	// brackets around the URL can be dropped.
	bracketedNavigate = regexp.MustCompile(`(?i)(navigate to )\[([^\]]+)\]`)
)

// trailing characters that are punctuation after a URL, not part of it
const urlTrailingCutset = ".,;:)]\"'"

// Parse splits a raw ticket description into ordered instructions.
// It tolerates literal and escaped carriage returns, markdown heading
// markers, non-breaking spaces, and bracketed URLs. Parsing never fails;
// an empty or whitespace-only description yields an empty slice.
func Parse(description string) []Instruction {
	normalized := strings.ReplaceAll(description, `\r\n`, "\n")
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = strings.ReplaceAll(normalized, " ", " ")

	var instructions []Instruction
	for _, line := range strings.Split(normalized, "\n") {
		cleaned := cleanLine(line)
		if cleaned == "" {
			continue
		}
		instructions = append(instructions, Instruction{
			Index: len(instructions),
			Text:  cleaned,
		})
	}
	return instructions
}

// cleanLine strips heading markers, surrounding whitespace and the
// brackets tickets often place around pasted URLs.
func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimLeft(trimmed, "#")
	trimmed = strings.TrimSpace(trimmed)
	trimmed = bracketedNavigate.ReplaceAllString(trimmed, "${1}${2}")
	return trimmed
}

// FirstURL returns the first http or https URL found in the instructions,
// with trailing punctuation trimmed. It returns "" when no instruction
// contains a URL.
func FirstURL(instructions []Instruction) string {
	for _, instruction := range instructions {
		if url := ExtractURL(instruction.Text); url != "" {
			return url
		}
	}
	return ""
}

// ExtractURL returns the first URL in a single line of text, or "".
func ExtractURL(text string) string {
	match := urlPattern.FindString(text)
	if match == "" {
		return ""
	}
	return strings.TrimRight(match, urlTrailingCutset)
}
