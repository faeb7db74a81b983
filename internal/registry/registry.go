// Package registry holds the in-memory activity rosters.
//
// The set of activities is fixed when the Registry is built. Each activity
// guards its own roster, so signups on different activities never contend.
package registry

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrActivityNotFound  = errors.New("activity not found")
	ErrAlreadyRegistered = errors.New("already registered")
	ErrActivityFull      = errors.New("activity full")
	ErrNotRegistered     = errors.New("not registered")
)

// Activity is a snapshot of one activity and its roster.
type Activity struct {
	Name            string   `json:"-"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// SpotsLeft is the remaining capacity at snapshot time.
func (a Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

type Action string

const (
	ActionSignedUp     Action = "signed_up"
	ActionUnregistered Action = "unregistered"
)

// Confirmation describes a successful roster change.
type Confirmation struct {
	Activity        string
	Email           string
	Action          Action
	Participants    int
	MaxParticipants int
}

// Message is the human-readable confirmation returned to clients.
func (c Confirmation) Message() string {
	if c.Action == ActionUnregistered {
		return fmt.Sprintf("Unregistered %s from %s", c.Email, c.Activity)
	}
	return fmt.Sprintf("Signed up %s for %s", c.Email, c.Activity)
}

type activity struct {
	name        string
	description string
	schedule    string
	max         int

	mu           sync.Mutex
	participants []string
}

func (a *activity) indexOf(email string) int {
	for i, p := range a.participants {
		if p == email {
			return i
		}
	}
	return -1
}

func (a *activity) snapshot() Activity {
	a.mu.Lock()
	defer a.mu.Unlock()

	participants := make([]string, len(a.participants))
	copy(participants, a.participants)
	return Activity{
		Name:            a.name,
		Description:     a.description,
		Schedule:        a.schedule,
		MaxParticipants: a.max,
		Participants:    participants,
	}
}

// Registry is safe for concurrent use. The activities map is never written
// after New returns.
type Registry struct {
	order      []string
	activities map[string]*activity
}

// New builds a registry from seed records, keeping their order.
func New(seed []Activity) (*Registry, error) {
	r := &Registry{
		order:      make([]string, 0, len(seed)),
		activities: make(map[string]*activity, len(seed)),
	}

	for _, s := range seed {
		if s.Name == "" {
			return nil, fmt.Errorf("activity name must not be empty")
		}
		if _, exists := r.activities[s.Name]; exists {
			return nil, fmt.Errorf("duplicate activity %q", s.Name)
		}
		if s.MaxParticipants <= 0 {
			return nil, fmt.Errorf("activity %q: max_participants must be positive, got %d", s.Name, s.MaxParticipants)
		}
		if len(s.Participants) > s.MaxParticipants {
			return nil, fmt.Errorf("activity %q: %d seeded participants exceed capacity %d",
				s.Name, len(s.Participants), s.MaxParticipants)
		}

		a := &activity{
			name:         s.Name,
			description:  s.Description,
			schedule:     s.Schedule,
			max:          s.MaxParticipants,
			participants: make([]string, 0, s.MaxParticipants),
		}
		for _, email := range s.Participants {
			if a.indexOf(email) >= 0 {
				return nil, fmt.Errorf("activity %q: participant %q seeded twice", s.Name, email)
			}
			a.participants = append(a.participants, email)
		}

		r.activities[s.Name] = a
		r.order = append(r.order, s.Name)
	}
	return r, nil
}

// Names returns activity names in catalog order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// List returns a snapshot of every activity keyed by name.
func (r *Registry) List() map[string]Activity {
	out := make(map[string]Activity, len(r.activities))
	for name, a := range r.activities {
		out[name] = a.snapshot()
	}
	return out
}

// Snapshot returns every activity in catalog order.
func (r *Registry) Snapshot() []Activity {
	out := make([]Activity, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.activities[name].snapshot())
	}
	return out
}

// Get returns a snapshot of a single activity.
func (r *Registry) Get(name string) (Activity, error) {
	a, ok := r.activities[name]
	if !ok {
		return Activity{}, ErrActivityNotFound
	}
	return a.snapshot(), nil
}

// Signup appends email to the activity's roster. The duplicate check runs
// before the capacity check: a student already on a full roster gets
// ErrAlreadyRegistered.
func (r *Registry) Signup(name, email string) (Confirmation, error) {
	a, ok := r.activities[name]
	if !ok {
		return Confirmation{}, ErrActivityNotFound
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.indexOf(email) >= 0 {
		return Confirmation{}, ErrAlreadyRegistered
	}
	if len(a.participants) >= a.max {
		return Confirmation{}, ErrActivityFull
	}
	a.participants = append(a.participants, email)

	return Confirmation{
		Activity:        a.name,
		Email:           email,
		Action:          ActionSignedUp,
		Participants:    len(a.participants),
		MaxParticipants: a.max,
	}, nil
}

// Unregister removes email from the activity's roster, preserving the order
// of the remaining participants.
func (r *Registry) Unregister(name, email string) (Confirmation, error) {
	a, ok := r.activities[name]
	if !ok {
		return Confirmation{}, ErrActivityNotFound
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.indexOf(email)
	if i < 0 {
		return Confirmation{}, ErrNotRegistered
	}
	a.participants = append(a.participants[:i], a.participants[i+1:]...)

	return Confirmation{
		Activity:        a.name,
		Email:           email,
		Action:          ActionUnregistered,
		Participants:    len(a.participants),
		MaxParticipants: a.max,
	}, nil
}
