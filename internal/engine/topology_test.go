package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-dev/seat-roulette/internal/engine"
)

func TestParseSeatID(t *testing.T) {
	cases := []struct {
		id       string
		row, col int
		ok       bool
	}{
		{"R1C1", 1, 1, true},
		{"R2C3", 2, 3, true},
		{"R10C12", 10, 12, true},
		{"", 0, 0, false},
		{"R1", 0, 0, false},
		{"RC1", 0, 0, false},
		{"R1C", 0, 0, false},
		{"R0C1", 0, 0, false},
		{"R1C0", 0, 0, false},
		{"r1c1", 0, 0, false},
		{"R1C1x", 0, 0, false},
		{"xR1C1", 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			row, col, ok := engine.ParseSeatID(tc.id)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.row, row)
				assert.Equal(t, tc.col, col)
				assert.Equal(t, tc.id, engine.SeatIDFor(row, col))
			}
		})
	}
}

func TestAdjacentSeats(t *testing.T) {
	snap := engine.Snapshot{Seats: grid(3, 3)}

	t.Run("Center", func(t *testing.T) {
		adj := snap.AdjacentSeats("R2C2")
		require.Len(t, adj, 4)
		for _, id := range []string{"R1C2", "R3C2", "R2C1", "R2C3"} {
			assert.Contains(t, adj, id)
		}
	})

	t.Run("Corner", func(t *testing.T) {
		adj := snap.AdjacentSeats("R1C1")
		require.Len(t, adj, 2)
		assert.Contains(t, adj, "R1C2")
		assert.Contains(t, adj, "R2C1")
	})

	t.Run("UnparseableIDIsEmpty", func(t *testing.T) {
		assert.Empty(t, snap.AdjacentSeats("bogus"))
		assert.Empty(t, snap.AdjacentSeats(""))
	})

	t.Run("MissingSeatNeighborsStillResolve", func(t *testing.T) {
		// A seat id that parses but is outside the grid keeps its
		// in-grid neighbors only.
		adj := snap.AdjacentSeats("R4C1")
		require.Len(t, adj, 1)
		assert.Contains(t, adj, "R3C1")
	})

	t.Run("UnusableSeatsStillAdjacent", func(t *testing.T) {
		marked := engine.Snapshot{Seats: grid(3, 3)}
		for i := range marked.Seats {
			if marked.Seats[i].ID == "R1C2" {
				marked.Seats[i].Usable = false
			}
		}
		adj := marked.AdjacentSeats("R1C1")
		assert.Contains(t, adj, "R1C2")
	})
}

// TestAdjacencySymmetry checks B ∈ adjacent(A) ⇔ A ∈ adjacent(B) over a
// full grid.
func TestAdjacencySymmetry(t *testing.T) {
	snap := engine.Snapshot{Seats: grid(4, 5)}
	for _, a := range snap.Seats {
		adjA := snap.AdjacentSeats(a.ID)
		for _, b := range snap.Seats {
			adjB := snap.AdjacentSeats(b.ID)
			_, abInA := adjA[b.ID]
			_, baInB := adjB[a.ID]
			assert.Equal(t, abInA, baInB, "adjacency of %s and %s must be symmetric", a.ID, b.ID)
		}
	}
}
