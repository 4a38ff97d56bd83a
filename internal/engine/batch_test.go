package engine_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-dev/seat-roulette/internal/engine"
)

func TestAssignAllSeatsEveryone(t *testing.T) {
	snap := engine.Snapshot{Students: roster(5), Seats: grid(3, 3)}
	res, err := engine.AssignAll(&snap, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	assert.Len(t, res.Committed, 5)
	assert.Empty(t, res.Errors)
	assert.Len(t, snap.History, 5)
	assert.NoError(t, checkInvariants(snap))
	for _, st := range snap.Students {
		assert.True(t, st.Assigned, "student %s must be seated", st.ID)
	}
}

// TestResetThenAssignAllRoundTrip seats everyone, resets, and seats
// everyone again without errors.
func TestResetThenAssignAllRoundTrip(t *testing.T) {
	snap := engine.Snapshot{Students: roster(6), Seats: grid(3, 3)}
	rng := rand.New(rand.NewSource(2))

	_, err := engine.AssignAll(&snap, rng)
	require.NoError(t, err)

	snap.Reset()
	assert.Empty(t, snap.History)
	for _, st := range snap.Students {
		assert.False(t, st.Assigned)
		assert.Empty(t, st.SeatID)
	}
	for _, seat := range snap.Seats {
		assert.Empty(t, seat.StudentID)
	}

	res, err := engine.AssignAll(&snap, rng)
	require.NoError(t, err)
	assert.Len(t, res.Committed, 6)
	assert.NoError(t, checkInvariants(snap))
}

// TestResetPreservesConfiguration: relations and fixed assignments survive
// a reset untouched.
func TestResetPreservesConfiguration(t *testing.T) {
	snap := engine.Snapshot{
		Students:  roster(2),
		Seats:     grid(2, 2),
		Relations: []engine.Relation{{StudentA: "S1", StudentB: "S2", Kind: engine.RelationMustSeparate}},
		Fixed:     []engine.FixedAssignment{{StudentID: "S1", SeatID: "R1C1"}},
	}
	seatStudent(&snap, "S1", "R1C1")
	snap.Reset()
	assert.Len(t, snap.Relations, 1)
	assert.Len(t, snap.Fixed, 1)
}

// TestBatchPartialFailure: five students, four usable seats.  Exactly four
// commits and one per-student error, wrapped as a partial batch.
func TestBatchPartialFailure(t *testing.T) {
	snap := engine.Snapshot{Students: roster(5), Seats: grid(2, 2)}
	res, err := engine.AssignAll(&snap, rand.New(rand.NewSource(9)))
	assert.ErrorIs(t, err, engine.ErrPartialBatch)
	assert.Len(t, res.Committed, 4)
	assert.Len(t, res.Errors, 1)
	assert.NoError(t, checkInvariants(snap))

	unseated := 0
	for _, st := range snap.Students {
		if !st.Assigned {
			unseated++
		}
	}
	assert.Equal(t, 1, unseated)
}

func TestBatchPreconditions(t *testing.T) {
	t.Run("AllAssigned", func(t *testing.T) {
		snap := engine.Snapshot{Students: roster(1), Seats: grid(2, 2)}
		seatStudent(&snap, "S1", "R1C1")
		_, err := engine.AssignAll(&snap, rand.New(rand.NewSource(1)))
		assert.ErrorIs(t, err, engine.ErrAllAssigned)
	})

	t.Run("NoAvailableSeats", func(t *testing.T) {
		seats := grid(1, 2)
		for i := range seats {
			seats[i].Usable = false
		}
		snap := engine.Snapshot{Students: roster(1), Seats: seats}
		_, err := engine.AssignAll(&snap, rand.New(rand.NewSource(1)))
		assert.ErrorIs(t, err, engine.ErrNoAvailableSeats)
	})
}

// TestBatchFixedPhase: valid fixed entries commit before the shuffle and
// broken ones are reported without aborting the batch.
func TestBatchFixedPhase(t *testing.T) {
	t.Run("FixedHonoredFirst", func(t *testing.T) {
		snap := engine.Snapshot{
			Students: roster(3),
			Seats:    grid(2, 2),
			Fixed:    []engine.FixedAssignment{{StudentID: "S2", SeatID: "R2C2"}},
		}
		res, err := engine.AssignAll(&snap, rand.New(rand.NewSource(5)))
		require.NoError(t, err)
		require.NotEmpty(t, res.Committed)
		assert.Equal(t, engine.Commit{StudentID: "S2", SeatID: "R2C2"}, res.Committed[0])
		assert.Len(t, res.Committed, 3)
	})

	t.Run("BrokenFixedEntrySkipped", func(t *testing.T) {
		snap := engine.Snapshot{
			Students: roster(2),
			Seats:    grid(2, 2),
			Fixed: []engine.FixedAssignment{
				{StudentID: "ghost", SeatID: "R1C1"},
				{StudentID: "S1", SeatID: "R9C9"},
			},
		}
		res, err := engine.AssignAll(&snap, rand.New(rand.NewSource(5)))
		// Both students still get seats through phase 2.
		assert.ErrorIs(t, err, engine.ErrPartialBatch)
		assert.Len(t, res.Errors, 2)
		assert.Len(t, res.Committed, 2)
		assert.NoError(t, checkInvariants(snap))
	})

	t.Run("OccupiedFixedSeatReported", func(t *testing.T) {
		snap := engine.Snapshot{
			Students: roster(2),
			Seats:    grid(2, 2),
			Fixed:    []engine.FixedAssignment{{StudentID: "S1", SeatID: "R1C1"}},
		}
		seatStudent(&snap, "S2", "R1C1")
		res, err := engine.AssignAll(&snap, rand.New(rand.NewSource(5)))
		assert.ErrorIs(t, err, engine.ErrPartialBatch)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "R1C1")
	})
}

// TestBatchHonorsMustPair: the second student of a pair lands adjacent to
// wherever the first one was placed earlier in the same batch.
func TestBatchHonorsMustPair(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		snap := engine.Snapshot{
			Students:  roster(2),
			Seats:     grid(3, 3),
			Relations: []engine.Relation{{StudentA: "S1", StudentB: "S2", Kind: engine.RelationMustPair}},
		}
		res, err := engine.AssignAll(&snap, rand.New(rand.NewSource(seed)))
		require.NoError(t, err, "seed %d", seed)
		require.Len(t, res.Committed, 2)

		first, second := res.Committed[0], res.Committed[1]
		adj := snap.AdjacentSeats(first.SeatID)
		assert.Contains(t, adj, second.SeatID, "seed %d: %s and %s must be adjacent", seed, first.SeatID, second.SeatID)
	}
}

// TestBatchHonorsMustSeparate: with only two adjacent seats, a forbidden
// pair can never be fully seated.
func TestBatchHonorsMustSeparate(t *testing.T) {
	snap := engine.Snapshot{
		Students:  roster(2),
		Seats:     grid(1, 2),
		Relations: []engine.Relation{{StudentA: "S1", StudentB: "S2", Kind: engine.RelationMustSeparate}},
	}
	res, err := engine.AssignAll(&snap, rand.New(rand.NewSource(11)))
	assert.ErrorIs(t, err, engine.ErrPartialBatch)
	assert.Len(t, res.Committed, 1)
	assert.Len(t, res.Errors, 1)
	assert.NoError(t, checkInvariants(snap))
}

// TestSessionAssignAll goes through the Session wrapper and cancels a
// running draw first.
func TestSessionAssignAll(t *testing.T) {
	s := newTestSession(engine.Snapshot{Students: roster(4), Seats: grid(2, 2)})
	require.NoError(t, s.Start(""))

	res, err := s.AssignAll()
	require.NoError(t, err)
	assert.Len(t, res.Committed, 4)
	assert.True(t, s.Completed())
	assert.NotEqual(t, engine.StateRunning, s.State())
}
