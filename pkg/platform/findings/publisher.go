// Package findings publishes validation findings toward the issue-tracking
// system, which promotes severe findings into long-lived issue records. The
// engine never calls back into that system; this one-way feed is the entire
// integration surface.
package findings

import (
	"context"
	"time"
)

// Event is one published finding, denormalized with its run context so
// consumers need no callback to interpret it.
type Event struct {
	RunID      string         `json:"run_id"`
	RuleID     string         `json:"rule_id"`
	Layer      string         `json:"layer"`
	Severity   string         `json:"severity"`
	Field      string         `json:"field"`
	RecordKey  string         `json:"record_key"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Publisher emits finding events to the downstream topic.
type Publisher interface {
	Publish(ctx context.Context, events []Event) error
	Close() error
}

// Nop discards all events. Used when no broker is configured.
type Nop struct{}

// Publish discards the events.
func (Nop) Publish(ctx context.Context, events []Event) error { return nil }

// Close is a no-op.
func (Nop) Close() error { return nil }
