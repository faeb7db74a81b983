package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed() []Activity {
	return []Activity{
		{
			Name:            "Chess Club",
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		{
			Name:            "Tiny Club",
			Description:     "Two seats only",
			Schedule:        "Mondays",
			MaxParticipants: 2,
			Participants:    []string{"a@e.edu", "b@e.edu"},
		},
		{
			Name:            "Empty Club",
			MaxParticipants: 3,
		},
	}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := New(seed())
	require.NoError(t, err)
	return r
}

func participants(t *testing.T, r *Registry, name string) []string {
	t.Helper()
	a, err := r.Get(name)
	require.NoError(t, err)
	return a.Participants
}

func TestNew_PreservesOrder(t *testing.T) {
	r := newTestRegistry(t)
	assert.Equal(t, []string{"Chess Club", "Tiny Club", "Empty Club"}, r.Names())

	snap := r.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "Chess Club", snap[0].Name)
	assert.Equal(t, 10, snap[0].SpotsLeft())
	assert.Equal(t, 0, snap[1].SpotsLeft())
}

func TestNew_RejectsInvalidSeed(t *testing.T) {
	tests := []struct {
		name    string
		seed    []Activity
		wantErr string
	}{
		{"empty name", []Activity{{MaxParticipants: 1}}, "must not be empty"},
		{"duplicate name", []Activity{{Name: "A", MaxParticipants: 1}, {Name: "A", MaxParticipants: 1}}, "duplicate activity"},
		{"zero capacity", []Activity{{Name: "A"}}, "must be positive"},
		{"over capacity", []Activity{{Name: "A", MaxParticipants: 1, Participants: []string{"x", "y"}}}, "exceed capacity"},
		{"seeded twice", []Activity{{Name: "A", MaxParticipants: 3, Participants: []string{"x", "x"}}}, "seeded twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.seed)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNew_DoesNotAliasSeed(t *testing.T) {
	s := seed()
	r, err := New(s)
	require.NoError(t, err)

	s[0].Participants[0] = "mutated@e.edu"
	assert.Equal(t, "michael@mergington.edu", participants(t, r, "Chess Club")[0])
}

func TestList_ReturnsSnapshot(t *testing.T) {
	r := newTestRegistry(t)

	all := r.List()
	require.Len(t, all, 3)
	chess := all["Chess Club"]
	assert.Equal(t, 12, chess.MaxParticipants)
	assert.Equal(t, "Fridays, 3:30 PM - 5:00 PM", chess.Schedule)

	chess.Participants[0] = "changed@e.edu"
	assert.Equal(t, "michael@mergington.edu", participants(t, r, "Chess Club")[0])
}

func TestSignup_Success(t *testing.T) {
	r := newTestRegistry(t)

	conf, err := r.Signup("Chess Club", "x@e.edu")
	require.NoError(t, err)

	assert.Equal(t, "Chess Club", conf.Activity)
	assert.Equal(t, "x@e.edu", conf.Email)
	assert.Equal(t, ActionSignedUp, conf.Action)
	assert.Equal(t, 3, conf.Participants)
	assert.Equal(t, 12, conf.MaxParticipants)
	assert.Equal(t, "Signed up x@e.edu for Chess Club", conf.Message())

	list := participants(t, r, "Chess Club")
	require.Len(t, list, 3)
	assert.Equal(t, "x@e.edu", list[2])
}

func TestSignup_NotFound(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Signup("NonExistent", "x@e.edu")
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestSignup_Twice(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Signup("Chess Club", "x@e.edu")
	require.NoError(t, err)
	before := participants(t, r, "Chess Club")

	_, err = r.Signup("Chess Club", "x@e.edu")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Equal(t, before, participants(t, r, "Chess Club"))
}

func TestSignup_Full(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Signup("Tiny Club", "new@e.edu")
	assert.ErrorIs(t, err, ErrActivityFull)
	assert.Equal(t, []string{"a@e.edu", "b@e.edu"}, participants(t, r, "Tiny Club"))
}

func TestSignup_DuplicateWinsOverFull(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Signup("Tiny Club", "a@e.edu")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestSignup_CaseSensitive(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Signup("Chess Club", "Michael@mergington.edu")
	assert.NoError(t, err)
}

func TestUnregister_Success(t *testing.T) {
	r := newTestRegistry(t)

	conf, err := r.Unregister("Chess Club", "michael@mergington.edu")
	require.NoError(t, err)
	assert.Equal(t, ActionUnregistered, conf.Action)
	assert.Equal(t, 1, conf.Participants)
	assert.Equal(t, "Unregistered michael@mergington.edu from Chess Club", conf.Message())
	assert.Equal(t, []string{"daniel@mergington.edu"}, participants(t, r, "Chess Club"))
}

func TestUnregister_KeepsOrder(t *testing.T) {
	r := newTestRegistry(t)
	for _, e := range []string{"1@e.edu", "2@e.edu", "3@e.edu"} {
		_, err := r.Signup("Chess Club", e)
		require.NoError(t, err)
	}

	_, err := r.Unregister("Chess Club", "1@e.edu")
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"michael@mergington.edu", "daniel@mergington.edu", "2@e.edu", "3@e.edu"},
		participants(t, r, "Chess Club"))
}

func TestUnregister_NotFound(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Unregister("NonExistent", "x@e.edu")
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestUnregister_NotRegistered(t *testing.T) {
	r := newTestRegistry(t)
	before := participants(t, r, "Chess Club")

	_, err := r.Unregister("Chess Club", "never@e.edu")
	assert.ErrorIs(t, err, ErrNotRegistered)
	assert.Equal(t, before, participants(t, r, "Chess Club"))
}

func TestUnregister_FreesSeatOnFullActivity(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Unregister("Tiny Club", "a@e.edu")
	require.NoError(t, err)
	_, err = r.Signup("Tiny Club", "new@e.edu")
	require.NoError(t, err)
	assert.Equal(t, []string{"b@e.edu", "new@e.edu"}, participants(t, r, "Tiny Club"))
}

func TestSignupUnregister_RoundTrip(t *testing.T) {
	for _, name := range []string{"Chess Club", "Empty Club"} {
		t.Run(name, func(t *testing.T) {
			r := newTestRegistry(t)
			before := participants(t, r, name)

			_, err := r.Signup(name, "round@e.edu")
			require.NoError(t, err)
			_, err = r.Unregister(name, "round@e.edu")
			require.NoError(t, err)

			assert.Equal(t, before, participants(t, r, name))
		})
	}
}

func TestConcurrentSignups_RespectCapacity(t *testing.T) {
	r := newTestRegistry(t)

	const workers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	var ok, full int

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := r.Signup("Chess Club", fmt.Sprintf("student%d@e.edu", i))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, ErrActivityFull):
				full++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, workers-10, full)

	list := participants(t, r, "Chess Club")
	assert.Len(t, list, 12)
	seen := make(map[string]bool, len(list))
	for _, p := range list {
		assert.False(t, seen[p], "duplicate participant %s", p)
		seen[p] = true
	}
}

func TestConcurrentDuplicateSignups_OnlyOneWins(t *testing.T) {
	r := newTestRegistry(t)

	var wg sync.WaitGroup
	results := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Signup("Empty Club", "same@e.edu")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadyRegistered)
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, []string{"same@e.edu"}, participants(t, r, "Empty Club"))
}
