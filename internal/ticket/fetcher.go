package ticket

import (
	"context"
	"strings"
)

// Fetcher retrieves the raw description text of a ticket by key.
// Implementations always return a string: on failure the string is a
// human-readable error message rather than ticket content, so callers can
// feed it straight back to an interactive session. A fetch result that
// starts with "Error" or "Failed" should not be parsed as instructions.
type Fetcher interface {
	FetchDescription(ctx context.Context, key string) string
}

// FetchFailed reports whether a fetch result is an error message rather
// than ticket content.
func FetchFailed(result string) bool {
	return len(result) == 0 ||
		hasPrefixFold(result, "error") ||
		hasPrefixFold(result, "failed")
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
