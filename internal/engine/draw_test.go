package engine_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-dev/seat-roulette/internal/engine"
)

func newTestSession(snap engine.Snapshot) *engine.Session {
	return engine.NewSession(snap,
		engine.WithRand(rand.New(rand.NewSource(1))),
		engine.WithHighlightInterval(time.Millisecond),
	)
}

func TestStopWithoutStart(t *testing.T) {
	s := newTestSession(engine.Snapshot{Students: roster(1), Seats: grid(2, 2)})
	_, err := s.Stop("")
	assert.ErrorIs(t, err, engine.ErrDrawNotRunning)
	assert.Equal(t, engine.StateIdle, s.State())
}

func TestStartPreconditions(t *testing.T) {
	t.Run("NoSeats", func(t *testing.T) {
		seats := grid(1, 1)
		seats[0].Usable = false
		s := newTestSession(engine.Snapshot{Students: roster(1), Seats: seats})
		assert.ErrorIs(t, s.Start(""), engine.ErrNoAvailableSeats)
	})

	t.Run("AllAssigned", func(t *testing.T) {
		snap := engine.Snapshot{Students: roster(1), Seats: grid(2, 2)}
		seatStudent(&snap, "S1", "R1C1")
		s := newTestSession(snap)
		assert.ErrorIs(t, s.Start(""), engine.ErrAllAssigned)
	})

	t.Run("UnknownTarget", func(t *testing.T) {
		s := newTestSession(engine.Snapshot{Students: roster(1), Seats: grid(2, 2)})
		assert.ErrorIs(t, s.Start("ghost"), engine.ErrNoTargetStudent)
	})

	t.Run("AlreadySeatedTarget", func(t *testing.T) {
		snap := engine.Snapshot{Students: roster(2), Seats: grid(2, 2)}
		seatStudent(&snap, "S1", "R1C1")
		s := newTestSession(snap)
		assert.ErrorIs(t, s.Start("S1"), engine.ErrNoTargetStudent)
	})
}

// TestAutoTargetLowestNumber verifies numeric ordering of the Number key:
// "2" sorts before "10".
func TestAutoTargetLowestNumber(t *testing.T) {
	snap := engine.Snapshot{
		Students: []engine.Student{
			{ID: "a", Number: "10", Name: "Ten"},
			{ID: "b", Number: "2", Name: "Two"},
			{ID: "c", Number: "30", Name: "Thirty"},
		},
		Seats: grid(2, 2),
	}
	s := newTestSession(snap)
	require.NoError(t, s.Start(""))
	assert.Equal(t, "b", s.Target())
	_, err := s.Stop("")
	require.NoError(t, err)

	require.NoError(t, s.Start(""))
	assert.Equal(t, "a", s.Target())
}

// TestFixedAssignmentWins covers the fixed branch: the fixed seat resolves
// regardless of manual input, and an occupied fixed seat fails with a
// conflict and no mutation.
func TestFixedAssignmentWins(t *testing.T) {
	base := engine.Snapshot{
		Students: roster(2),
		Seats:    grid(3, 3),
		Fixed:    []engine.FixedAssignment{{StudentID: "S1", SeatID: "R1C1"}},
	}

	t.Run("ResolvesToFixedSeat", func(t *testing.T) {
		s := newTestSession(base)
		require.NoError(t, s.Start("S1"))
		commit, err := s.Stop("R3C3") // manual input is ignored for fixed students
		require.NoError(t, err)
		assert.Equal(t, engine.Commit{StudentID: "S1", SeatID: "R1C1"}, commit)
		assert.Equal(t, engine.StateStopped, s.State())
		assert.NoError(t, checkInvariants(s.Snapshot()))
	})

	t.Run("ConflictWhenPreOccupied", func(t *testing.T) {
		snap := base.Clone()
		seatStudent(&snap, "S2", "R1C1")
		s := newTestSession(snap)
		require.NoError(t, s.Start("S1"))
		_, err := s.Stop("")
		assert.ErrorIs(t, err, engine.ErrFixedSeatConflict)

		after := s.Snapshot()
		for _, st := range after.Students {
			if st.ID == "S1" {
				assert.False(t, st.Assigned, "S1 must stay unassigned after a failed fixed resolution")
			}
		}
		assert.Empty(t, after.History)
		assert.Equal(t, engine.StateStopped, s.State())
	})

	t.Run("UnusableFixedSeat", func(t *testing.T) {
		snap := base.Clone()
		for i := range snap.Seats {
			if snap.Seats[i].ID == "R1C1" {
				snap.Seats[i].Usable = false
			}
		}
		s := newTestSession(snap)
		require.NoError(t, s.Start("S1"))
		_, err := s.Stop("")
		assert.ErrorIs(t, err, engine.ErrFixedSeatUnusable)
	})
}

func TestManualOverride(t *testing.T) {
	relations := []engine.Relation{{StudentA: "S1", StudentB: "S2", Kind: engine.RelationMustPair}}

	t.Run("AdmissibleSeatCommits", func(t *testing.T) {
		snap := engine.Snapshot{Students: roster(2), Seats: grid(3, 3), Relations: relations}
		seatStudent(&snap, "S1", "R2C2")
		s := newTestSession(snap)
		require.NoError(t, s.Start("S2"))
		commit, err := s.Stop("R2C3")
		require.NoError(t, err)
		assert.Equal(t, "R2C3", commit.SeatID)
	})

	t.Run("InadmissibleSeatFailsWithoutFallback", func(t *testing.T) {
		snap := engine.Snapshot{Students: roster(2), Seats: grid(3, 3), Relations: relations}
		seatStudent(&snap, "S1", "R2C2")
		s := newTestSession(snap)
		require.NoError(t, s.Start("S2"))
		_, err := s.Stop("R1C1")
		assert.ErrorIs(t, err, engine.ErrManualSeatInadmissible)
		assert.Empty(t, s.Snapshot().History)
	})

	t.Run("OccupiedSeatUnavailable", func(t *testing.T) {
		snap := engine.Snapshot{Students: roster(2), Seats: grid(3, 3)}
		seatStudent(&snap, "S1", "R2C2")
		s := newTestSession(snap)
		require.NoError(t, s.Start("S2"))
		_, err := s.Stop("R2C2")
		assert.ErrorIs(t, err, engine.ErrManualSeatUnavailable)
	})

	t.Run("UnknownSeatUnavailable", func(t *testing.T) {
		s := newTestSession(engine.Snapshot{Students: roster(1), Seats: grid(2, 2)})
		require.NoError(t, s.Start("S1"))
		_, err := s.Stop("R9C9")
		assert.ErrorIs(t, err, engine.ErrManualSeatUnavailable)
	})
}

// TestHighlightedSeatCommits waits for the highlight loop to publish a
// seat and verifies the stop commits exactly that seat when it is free and
// admissible.
func TestHighlightedSeatCommits(t *testing.T) {
	s := newTestSession(engine.Snapshot{Students: roster(1), Seats: grid(3, 3)})
	require.NoError(t, s.Start("S1"))

	deadline := time.Now().Add(time.Second)
	for s.Highlighted() == "" {
		require.True(t, time.Now().Before(deadline), "highlight loop never published")
		time.Sleep(time.Millisecond)
	}

	commit, err := s.Stop("")
	require.NoError(t, err)
	assert.Equal(t, s.Highlighted(), commit.SeatID)
	assert.NoError(t, checkInvariants(s.Snapshot()))
}

// TestFallbackSearch forces the fallback path by stopping before any tick
// can publish and checks the committed seat honors the relation.
func TestFallbackSearch(t *testing.T) {
	snap := engine.Snapshot{
		Students:  roster(2),
		Seats:     grid(3, 3),
		Relations: []engine.Relation{{StudentA: "S1", StudentB: "S2", Kind: engine.RelationMustPair}},
	}
	seatStudent(&snap, "S1", "R2C2")
	s := engine.NewSession(snap,
		engine.WithRand(rand.New(rand.NewSource(7))),
		engine.WithHighlightInterval(time.Hour), // never ticks within the test
	)
	require.NoError(t, s.Start("S2"))
	commit, err := s.Stop("")
	require.NoError(t, err)
	adj := snap.AdjacentSeats("R2C2")
	assert.Contains(t, adj, commit.SeatID, "fallback must pick a seat adjacent to S1")
}

// TestFallbackExhausted pins two students who must pair up on opposite
// corners' only free seats so that no admissible seat exists.
func TestFallbackExhausted(t *testing.T) {
	snap := engine.Snapshot{
		Students:  roster(2),
		Seats:     grid(1, 3),
		Relations: []engine.Relation{{StudentA: "S1", StudentB: "S2", Kind: engine.RelationMustPair}},
	}
	seatStudent(&snap, "S1", "R1C1")
	// Only R1C3 remains usable; R1C2 (the sole admissible neighbor) is off.
	for i := range snap.Seats {
		if snap.Seats[i].ID == "R1C2" {
			snap.Seats[i].Usable = false
		}
	}
	s := engine.NewSession(snap,
		engine.WithRand(rand.New(rand.NewSource(3))),
		engine.WithHighlightInterval(time.Hour),
	)
	require.NoError(t, s.Start("S2"))
	_, err := s.Stop("")
	assert.ErrorIs(t, err, engine.ErrNoAdmissibleSeat)
}

// TestAttemptBoundRespected configures a zero-attempt session so the
// fallback gives up immediately even though admissible seats exist.
func TestAttemptBoundRespected(t *testing.T) {
	s := engine.NewSession(engine.Snapshot{Students: roster(1), Seats: grid(2, 2)},
		engine.WithRand(rand.New(rand.NewSource(1))),
		engine.WithMaxAttempts(0),
		engine.WithHighlightInterval(time.Hour),
	)
	require.NoError(t, s.Start("S1"))
	_, err := s.Stop("")
	assert.ErrorIs(t, err, engine.ErrNoAdmissibleSeat)
}

// TestDrawCycleToCompletion runs the full roulette over a small roster and
// checks history order and the terminal condition.
func TestDrawCycleToCompletion(t *testing.T) {
	s := newTestSession(engine.Snapshot{Students: roster(4), Seats: grid(2, 2)})
	for i := 0; i < 4; i++ {
		require.NoError(t, s.Start(""))
		_, err := s.Stop("")
		require.NoError(t, err)
	}
	assert.True(t, s.Completed())
	assert.ErrorIs(t, s.Start(""), engine.ErrAllAssigned)

	snap := s.Snapshot()
	require.Len(t, snap.History, 4)
	// Auto-targeting walks the roster in number order.
	for i, commit := range snap.History {
		assert.Equal(t, roster(4)[i].ID, commit.StudentID)
	}
	assert.NoError(t, checkInvariants(snap))
}
