package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testweaver/internal/classify"
)

func TestTraceAppendAssignsIndexes(t *testing.T) {
	tr := New("PROJ-1")
	require.NotEmpty(t, tr.RunID)
	assert.Equal(t, "PROJ-1", tr.TicketKey)

	first := tr.Append(Record{Tool: "browser_navigate", Status: StatusSuccess})
	second := tr.Append(Record{Tool: "browser_click", Status: StatusFailure, Detail: "target not resolved"})

	assert.Equal(t, 0, first.Index)
	assert.Equal(t, 1, second.Index)
	assert.False(t, first.Timestamp.IsZero())
	assert.Equal(t, 2, tr.Len())
}

func TestTraceRecordsReturnsCopy(t *testing.T) {
	tr := New("")
	tr.Append(Record{Tool: "browser_navigate", Status: StatusSuccess})

	records := tr.Records()
	records[0].Tool = "mutated"

	assert.Equal(t, "browser_navigate", tr.Records()[0].Tool)
}

func TestTraceCounts(t *testing.T) {
	tr := New("PROJ-2")
	tr.Append(Record{Status: StatusSuccess})
	tr.Append(Record{Status: StatusFailure})
	tr.Append(Record{Status: StatusSkipped, Intent: classify.Intent{Kind: classify.KindUnknown}})
	tr.Append(Record{Status: StatusSuccess})

	assert.Equal(t, 2, tr.CountByStatus(StatusSuccess))
	assert.Equal(t, 1, tr.CountByStatus(StatusFailure))
	assert.Equal(t, 1, tr.CountByStatus(StatusSkipped))
	assert.True(t, tr.HasFailures())
}

func TestTraceRunIDsAreUnique(t *testing.T) {
	assert.NotEqual(t, New("").RunID, New("").RunID)
}
