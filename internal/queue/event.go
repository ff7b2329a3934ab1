// Package queue defines the lineup event payload and the background consumer
// that records it.
package queue

import (
    "time"

    "github.com/google/uuid"
)

// LineupQueueName is the durable queue lineup events are routed to.
const LineupQueueName = "lineup.changed"

// LineupChangedEvent is published after every roster or lineup mutation.  It
// carries counts rather than the full lineup so consumers stay decoupled from
// the roster model.
type LineupChangedEvent struct {
    EventID    string `json:"event_id"`
    Action     string `json:"action"`
    Actor      string `json:"actor"`
    Formation  string `json:"formation"`
    OnField    int    `json:"on_field"`
    OnBench    int    `json:"on_bench"`
    Staff      int    `json:"staff"`
    Available  int    `json:"available"`
    Detail     string `json:"detail,omitempty"`
    OccurredAt string `json:"occurred_at"`
}

// NewLineupChangedEvent stamps a fresh id and the current UTC time.
func NewLineupChangedEvent(action, actor string) LineupChangedEvent {
    return LineupChangedEvent{
        EventID:    uuid.NewString(),
        Action:     action,
        Actor:      actor,
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
    }
}
