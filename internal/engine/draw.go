package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// DefaultMaxAttempts bounds the fallback random search of the single-draw
// resolver.  The scan is deliberately not exhaustive: on pathological
// relation sets an exhaustive search degrades to O(n²) over the grid, so
// the draw gives up after this many shuffled candidates instead.
const DefaultMaxAttempts = 100

// DefaultHighlightInterval is the cadence of the random seat highlight
// while a draw is running.
const DefaultHighlightInterval = 80 * time.Millisecond

// Session drives the interactive draw cycle over one snapshot.  All
// methods are safe for concurrent use; the highlight loop is the only
// background writer and it touches nothing but the highlighted seat.
type Session struct {
	mu          sync.Mutex
	snap        Snapshot
	state       string
	target      string
	highlighted string
	loop        *highlightLoop
	rng         *rand.Rand
	maxAttempts int
	interval    time.Duration
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithRand fixes the random source, mainly for deterministic tests.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithMaxAttempts overrides the fallback search bound.
func WithMaxAttempts(n int) Option {
	return func(s *Session) { s.maxAttempts = n }
}

// WithHighlightInterval overrides the highlight tick cadence.
func WithHighlightInterval(d time.Duration) Option {
	return func(s *Session) { s.interval = d }
}

// NewSession copies the snapshot and returns an idle session.
func NewSession(snap Snapshot, opts ...Option) *Session {
	s := &Session{
		snap:        snap.Clone(),
		state:       StateIdle,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		maxAttempts: DefaultMaxAttempts,
		interval:    DefaultHighlightInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start transitions the session into the running state for one student
// and begins the highlight loop.  An empty targetStudentID selects the
// unassigned student with the lowest number.  Any highlight loop from a
// previous cycle is cancelled before the new one starts, so at most one
// loop is ever live.
func (s *Session) Start(targetStudentID string) error {
	s.mu.Lock()
	if targetStudentID == "" {
		targetStudentID = s.snap.nextTargetID()
		if targetStudentID == "" {
			s.mu.Unlock()
			return ErrAllAssigned
		}
	} else {
		st := s.snap.studentByID(targetStudentID)
		if st == nil || st.Assigned {
			s.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrNoTargetStudent, targetStudentID)
		}
	}
	if len(s.snap.availableSeatIDs()) == 0 {
		s.mu.Unlock()
		return ErrNoAvailableSeats
	}
	prev := s.loop
	loop := newHighlightLoop()
	s.loop = loop
	s.state = StateRunning
	s.target = targetStudentID
	s.highlighted = ""
	s.mu.Unlock()

	if prev != nil {
		prev.cancel()
	}
	go loop.run(s)
	return nil
}

// Stop ends the running draw and commits a seat for the target student.
// Resolution order, first applicable wins: the student's fixed assignment,
// the caller's manual seat selection, the seat highlighted on the last
// tick, and finally a bounded random search over the available seats.  On
// failure the student stays unassigned and the session remains stopped
// with nothing committed.
func (s *Session) Stop(manualSeatID string) (Commit, error) {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return Commit{}, ErrDrawNotRunning
	}
	loop := s.loop
	s.loop = nil
	s.state = StateStopped
	commit, err := s.resolveLocked(manualSeatID)
	s.mu.Unlock()

	if loop != nil {
		loop.cancel()
	}
	return commit, err
}

// resolveLocked applies the single-draw resolution order.  Caller holds mu.
func (s *Session) resolveLocked(manualSeatID string) (Commit, error) {
	st := s.snap.studentByID(s.target)
	if st == nil || st.Assigned {
		return Commit{}, fmt.Errorf("%w: %s", ErrNoTargetStudent, s.target)
	}

	// 1. Fixed assignment: the only candidate when present.  Validated for
	// usability and occupancy only; fixed seats override relations.
	if f, ok := s.snap.fixedFor(st.ID); ok {
		seat := s.snap.seatByID(f.SeatID)
		if seat == nil || !seat.Usable {
			return Commit{}, fmt.Errorf("%w: %s", ErrFixedSeatUnusable, f.SeatID)
		}
		if seat.StudentID != "" && seat.StudentID != st.ID {
			return Commit{}, fmt.Errorf("%w: %s taken by %s", ErrFixedSeatConflict, f.SeatID, seat.StudentID)
		}
		return s.snap.commit(st, seat), nil
	}

	// 2. Manual override: no silent fallback when the clicked seat fails.
	if manualSeatID != "" {
		seat := s.snap.seatByID(manualSeatID)
		if seat == nil || !seat.Usable || seat.StudentID != "" {
			return Commit{}, fmt.Errorf("%w: %s", ErrManualSeatUnavailable, manualSeatID)
		}
		if !s.snap.Admissible(manualSeatID, st.ID) {
			return Commit{}, fmt.Errorf("%w: %s", ErrManualSeatInadmissible, manualSeatID)
		}
		return s.snap.commit(st, seat), nil
	}

	// 3. Last highlighted seat, when still available and admissible.
	if h := s.highlighted; h != "" {
		seat := s.snap.seatByID(h)
		if seat != nil && seat.Usable && seat.StudentID == "" && s.snap.Admissible(h, st.ID) {
			return s.snap.commit(st, seat), nil
		}
	}

	// 4. Bounded random fallback over the shuffled available seats.
	avail := s.snap.availableSeatIDs()
	s.rng.Shuffle(len(avail), func(i, j int) { avail[i], avail[j] = avail[j], avail[i] })
	attempts := s.maxAttempts
	if attempts > len(avail) {
		attempts = len(avail)
	}
	for i := 0; i < attempts; i++ {
		if s.snap.Admissible(avail[i], st.ID) {
			return s.snap.commit(st, s.snap.seatByID(avail[i])), nil
		}
	}
	return Commit{}, fmt.Errorf("%w for student %s", ErrNoAdmissibleSeat, st.ID)
}

// AssignAll runs the batch resolver over the session's snapshot.  A draw
// in progress is cancelled first.
func (s *Session) AssignAll() (BatchResult, error) {
	s.mu.Lock()
	loop := s.loop
	s.loop = nil
	if s.state == StateRunning {
		s.state = StateStopped
	}
	s.highlighted = ""
	res, err := AssignAll(&s.snap, s.rng)
	s.mu.Unlock()

	if loop != nil {
		loop.cancel()
	}
	return res, err
}

// Reset clears all assignments and history, cancels any running draw and
// returns the session to idle.  Relations and fixed assignments survive.
func (s *Session) Reset() {
	s.mu.Lock()
	loop := s.loop
	s.loop = nil
	s.snap.Reset()
	s.state = StateIdle
	s.target = ""
	s.highlighted = ""
	s.mu.Unlock()

	if loop != nil {
		loop.cancel()
	}
}

// CheckConstraint is the read-only admissibility probe for UI
// pre-highlighting.
func (s *Session) CheckConstraint(seatID, studentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Admissible(seatID, studentID)
}

// State returns the current state of the draw cycle.
func (s *Session) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Target returns the student the current or last draw was for.
func (s *Session) Target() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// Highlighted returns the seat published by the last highlight tick.
func (s *Session) Highlighted() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.highlighted
}

// Completed reports whether every student on the roster is seated.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.nextTargetID() == ""
}

// Snapshot returns a deep copy of the session's current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}
