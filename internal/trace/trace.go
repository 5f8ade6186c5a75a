// Package trace records what an execution run actually did. A trace is
// append-only: records are added in execution order and never mutated,
// so the script synthesizer can replay the run deterministically.
package trace

import (
	"time"

	"github.com/google/uuid"

	"testweaver/internal/classify"
)

// Status is the outcome of a single executed action.
type Status string

const (
	// StatusSuccess means the tool call completed
	StatusSuccess Status = "success"
	// StatusFailure means the tool call was attempted and failed
	StatusFailure Status = "failure"
	// StatusSkipped means the instruction produced no tool call
	StatusSkipped Status = "skipped"
)

// Record is one executed (or skipped) action in a run.
type Record struct {
	// Index is the zero-based position in the trace
	Index int
	// Intent is the classified instruction that produced this action
	Intent classify.Intent
	// Tool is the dispatched tool name; empty for skipped records
	Tool string
	// Args are the arguments the tool was dispatched with
	Args map[string]interface{}
	// Status is the action outcome
	Status Status
	// Detail carries the failure or skip reason
	Detail string
	// Synthetic marks records the engine added itself rather than
	// deriving from a ticket instruction
	Synthetic bool
	// Timestamp is when the action finished
	Timestamp time.Time
}

// Trace is the ordered record of one execution run.
type Trace struct {
	// RunID uniquely identifies the run
	RunID string
	// TicketKey is the ticket the run was derived from, if any
	TicketKey string
	// StartURL is the URL the run opened first
	StartURL string
	// StartedAt is when execution began
	StartedAt time.Time

	records []Record
}

// New creates an empty trace for a run.
func New(ticketKey string) *Trace {
	return &Trace{
		RunID:     uuid.New().String(),
		TicketKey: ticketKey,
		StartedAt: time.Now(),
	}
}

// Append adds a record to the end of the trace, assigning its index and
// timestamp. The returned record is the stored copy.
func (t *Trace) Append(record Record) Record {
	record.Index = len(t.records)
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	t.records = append(t.records, record)
	return record
}

// Records returns a copy of the trace in execution order.
func (t *Trace) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Len returns the number of records.
func (t *Trace) Len() int {
	return len(t.records)
}

// CountByStatus returns how many records carry the given status.
func (t *Trace) CountByStatus(status Status) int {
	count := 0
	for _, record := range t.records {
		if record.Status == status {
			count++
		}
	}
	return count
}

// HasFailures reports whether any action failed.
func (t *Trace) HasFailures() bool {
	return t.CountByStatus(StatusFailure) > 0
}
