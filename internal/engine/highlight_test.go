package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-dev/seat-roulette/internal/engine"
)

// waitForHighlight polls until the loop publishes its first seat.
func waitForHighlight(t *testing.T, s *engine.Session) string {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for {
		if h := s.Highlighted(); h != "" {
			return h
		}
		require.True(t, time.Now().Before(deadline), "highlight loop never published")
		time.Sleep(time.Millisecond)
	}
}

// TestHighlightPublishesAvailableSeat: every published seat is usable and
// unoccupied.
func TestHighlightPublishesAvailableSeat(t *testing.T) {
	snap := engine.Snapshot{Students: roster(2), Seats: grid(2, 2)}
	seatStudent(&snap, "S1", "R1C1")
	for i := range snap.Seats {
		if snap.Seats[i].ID == "R2C2" {
			snap.Seats[i].Usable = false
		}
	}
	s := newTestSession(snap)
	require.NoError(t, s.Start("S2"))
	defer s.Reset()

	for i := 0; i < 20; i++ {
		h := s.Highlighted()
		if h != "" {
			assert.Contains(t, []string{"R1C2", "R2C1"}, h)
		}
		time.Sleep(time.Millisecond)
	}
}

// TestNoPublishAfterStop: once the draw stops, the highlighted seat stays
// frozen: the loop is cancelled synchronously and never ticks again.
func TestNoPublishAfterStop(t *testing.T) {
	s := newTestSession(engine.Snapshot{Students: roster(1), Seats: grid(5, 5)})
	require.NoError(t, s.Start("S1"))
	waitForHighlight(t, s)

	_, err := s.Stop("")
	require.NoError(t, err)
	frozen := s.Highlighted()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, frozen, s.Highlighted())
}

// TestResetCancelsLoop: a reset during a running draw stops the ticks and
// clears the highlight.
func TestResetCancelsLoop(t *testing.T) {
	s := newTestSession(engine.Snapshot{Students: roster(1), Seats: grid(3, 3)})
	require.NoError(t, s.Start("S1"))
	waitForHighlight(t, s)

	s.Reset()
	assert.Equal(t, engine.StateIdle, s.State())
	assert.Empty(t, s.Highlighted())
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, s.Highlighted(), "cancelled loop must not publish again")
}

// TestRestartSupersedesLoop: starting again while running replaces the
// loop; the session keeps working and stops cleanly.
func TestRestartSupersedesLoop(t *testing.T) {
	s := newTestSession(engine.Snapshot{Students: roster(2), Seats: grid(3, 3)})
	require.NoError(t, s.Start("S1"))
	require.NoError(t, s.Start("S2"))
	assert.Equal(t, engine.StateRunning, s.State())
	assert.Equal(t, "S2", s.Target())

	commit, err := s.Stop("")
	require.NoError(t, err)
	assert.Equal(t, "S2", commit.StudentID)
	assert.NoError(t, checkInvariants(s.Snapshot()))
}
