// Package events fans roster changes out to optional external sinks.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"mergington-activities/internal/registry"
)

// RosterEvent is the record emitted after every successful signup or
// unregister.
type RosterEvent struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Activity        string    `json:"activity"`
	Email           string    `json:"email"`
	Participants    int       `json:"participants"`
	MaxParticipants int       `json:"max_participants"`
	OccurredAt      time.Time `json:"occurred_at"`
}

func NewRosterEvent(c registry.Confirmation) RosterEvent {
	return RosterEvent{
		ID:              uuid.NewString(),
		Type:            string(c.Action),
		Activity:        c.Activity,
		Email:           c.Email,
		Participants:    c.Participants,
		MaxParticipants: c.MaxParticipants,
		OccurredAt:      time.Now().UTC().Truncate(time.Second),
	}
}

func (e RosterEvent) JSON() ([]byte, error) {
	return json.Marshal(e)
}

// Sink delivers events to one external system.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event RosterEvent) error
}
