package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haneul-dev/seat-roulette/internal/engine"
)

// TestMustPairAdmissibility seats S1 in the middle of a 3×3 grid and
// verifies S2 (MUST_PAIR with S1) is admitted on exactly the four
// orthogonal neighbors.
func TestMustPairAdmissibility(t *testing.T) {
	snap := engine.Snapshot{
		Students:  roster(2),
		Seats:     grid(3, 3),
		Relations: []engine.Relation{{StudentA: "S1", StudentB: "S2", Kind: engine.RelationMustPair}},
	}
	seatStudent(&snap, "S1", "R2C2")

	admissible := map[string]bool{"R1C2": true, "R3C2": true, "R2C1": true, "R2C3": true}
	for _, seat := range snap.Seats {
		assert.Equal(t, admissible[seat.ID], snap.Admissible(seat.ID, "S2"),
			"seat %s admissibility for S2", seat.ID)
	}
}

// TestMustSeparateAdmissibility mirrors the pair case with the forbidding
// relation: neighbors of S1's seat are the only inadmissible ones.
func TestMustSeparateAdmissibility(t *testing.T) {
	snap := engine.Snapshot{
		Students:  roster(2),
		Seats:     grid(3, 3),
		Relations: []engine.Relation{{StudentA: "S1", StudentB: "S2", Kind: engine.RelationMustSeparate}},
	}
	seatStudent(&snap, "S1", "R2C2")

	assert.False(t, snap.Admissible("R1C2", "S2"))
	assert.True(t, snap.Admissible("R1C1", "S2"))
	assert.True(t, snap.Admissible("R3C3", "S2"))
	// S1's own seat is occupied but the relation check alone permits it:
	// the seat is not adjacent to itself.
	assert.True(t, snap.Admissible("R2C2", "S2"))
}

func TestUnassignedPartnerImposesNothing(t *testing.T) {
	snap := engine.Snapshot{
		Students:  roster(2),
		Seats:     grid(3, 3),
		Relations: []engine.Relation{{StudentA: "S1", StudentB: "S2", Kind: engine.RelationMustPair}},
	}
	// Neither student is seated yet: every seat passes for both.
	for _, seat := range snap.Seats {
		assert.True(t, snap.Admissible(seat.ID, "S1"))
		assert.True(t, snap.Admissible(seat.ID, "S2"))
	}
}

func TestMissingStudentFailsClosed(t *testing.T) {
	snap := engine.Snapshot{Students: roster(1), Seats: grid(2, 2)}
	assert.False(t, snap.Admissible("R1C1", "ghost"))
	assert.False(t, snap.Admissible("R1C1", ""))
}

func TestRelationDirectionIrrelevant(t *testing.T) {
	// The pair is unordered: the relation constrains S2 the same way no
	// matter which side of the pair S2 appears on.
	for _, swap := range []bool{false, true} {
		rel := engine.Relation{StudentA: "S1", StudentB: "S2", Kind: engine.RelationMustPair}
		if swap {
			rel.StudentA, rel.StudentB = rel.StudentB, rel.StudentA
		}
		snap := engine.Snapshot{
			Students:  roster(2),
			Seats:     grid(3, 3),
			Relations: []engine.Relation{rel},
		}
		seatStudent(&snap, "S1", "R2C2")
		assert.True(t, snap.Admissible("R2C1", "S2"))
		assert.False(t, snap.Admissible("R1C1", "S2"))
	}
}

// TestCheckIdempotent runs the same probe twice against unchanged state.
func TestCheckIdempotent(t *testing.T) {
	snap := engine.Snapshot{
		Students:  roster(2),
		Seats:     grid(3, 3),
		Relations: []engine.Relation{{StudentA: "S1", StudentB: "S2", Kind: engine.RelationMustSeparate}},
	}
	seatStudent(&snap, "S1", "R2C2")
	for _, seat := range snap.Seats {
		first := snap.Admissible(seat.ID, "S2")
		second := snap.Admissible(seat.ID, "S2")
		assert.Equal(t, first, second, "seat %s", seat.ID)
	}
}
