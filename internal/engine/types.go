// Package engine implements the constraint-aware seat assignment core:
// grid adjacency, relation checking, the interactive single-draw resolver
// and the one-shot batch resolver.  The package operates on plain data
// snapshots and performs no I/O; persistence and transport live in the
// layers above.
package engine

import (
	"strconv"
	"strings"
)

// Relation kinds.  A MUST_PAIR relation requires the two students to end
// up on orthogonally adjacent seats; MUST_SEPARATE forbids exactly that.
const (
	RelationMustPair     = "MUST_PAIR"
	RelationMustSeparate = "MUST_SEPARATE"
)

// Session states for the interactive draw cycle.
const (
	StateIdle    = "IDLE"
	StateRunning = "RUNNING"
	StateStopped = "STOPPED"
)

// Student is one roster entry.  Number is a human-facing ordering key
// (numeric-sortable string from the import).  Assigned is true exactly
// when SeatID is non-empty.
type Student struct {
	ID       string
	Number   string
	Name     string
	Assigned bool
	SeatID   string
}

// Seat is one cell of the classroom grid.  ID has the form "R{row}C{col}"
// with 1-indexed coordinates, redundant with Row/Col but stored explicitly.
// A seat holding a student must be usable; at most one seat holds any
// given student.
type Seat struct {
	ID        string
	Row       int
	Col       int
	Usable    bool
	StudentID string
}

// Relation is an unordered student pair plus a kind.  Relations are static
// input; the resolvers never mutate them.
type Relation struct {
	StudentA string
	StudentB string
	Kind     string
}

// FixedAssignment binds one student to one seat ahead of any
// randomization.  At most one entry per student and per seat; the
// authoring layer enforces that, the resolvers only report failures.
type FixedAssignment struct {
	StudentID string
	SeatID    string
}

// Commit is one committed (student, seat) pair, recorded in history in
// commit order.
type Commit struct {
	StudentID string
	SeatID    string
}

// Snapshot is the full assignment state handed into each resolver call.
// Resolvers work on their own copy and hand the updated snapshot back;
// History is append-only and only a full Reset truncates it.
type Snapshot struct {
	Students  []Student
	Seats     []Seat
	Relations []Relation
	Fixed     []FixedAssignment
	History   []Commit
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() Snapshot {
	out := Snapshot{
		Students:  make([]Student, len(s.Students)),
		Seats:     make([]Seat, len(s.Seats)),
		Relations: make([]Relation, len(s.Relations)),
		Fixed:     make([]FixedAssignment, len(s.Fixed)),
		History:   make([]Commit, len(s.History)),
	}
	copy(out.Students, s.Students)
	copy(out.Seats, s.Seats)
	copy(out.Relations, s.Relations)
	copy(out.Fixed, s.Fixed)
	copy(out.History, s.History)
	return out
}

// Reset clears every assignment and the history while leaving relations
// and fixed assignments untouched.
func (s *Snapshot) Reset() {
	for i := range s.Students {
		s.Students[i].Assigned = false
		s.Students[i].SeatID = ""
	}
	for i := range s.Seats {
		s.Seats[i].StudentID = ""
	}
	s.History = s.History[:0]
}

// studentByID returns a pointer into Students, or nil when absent.
func (s *Snapshot) studentByID(id string) *Student {
	for i := range s.Students {
		if s.Students[i].ID == id {
			return &s.Students[i]
		}
	}
	return nil
}

// seatByID returns a pointer into Seats, or nil when absent.
func (s *Snapshot) seatByID(id string) *Seat {
	for i := range s.Seats {
		if s.Seats[i].ID == id {
			return &s.Seats[i]
		}
	}
	return nil
}

// fixedFor reports the fixed assignment for a student, if one exists.
func (s *Snapshot) fixedFor(studentID string) (FixedAssignment, bool) {
	for _, f := range s.Fixed {
		if f.StudentID == studentID {
			return f, true
		}
	}
	return FixedAssignment{}, false
}

// availableSeatIDs lists usable, unoccupied seats in seat-slice order.
func (s *Snapshot) availableSeatIDs() []string {
	var out []string
	for i := range s.Seats {
		if s.Seats[i].Usable && s.Seats[i].StudentID == "" {
			out = append(out, s.Seats[i].ID)
		}
	}
	return out
}

// unassignedStudentIDs lists students without a seat in roster order.
func (s *Snapshot) unassignedStudentIDs() []string {
	var out []string
	for i := range s.Students {
		if !s.Students[i].Assigned {
			out = append(out, s.Students[i].ID)
		}
	}
	return out
}

// nextTargetID selects the unassigned student with the lowest Number, or
// "" when every student is seated.
func (s *Snapshot) nextTargetID() string {
	best := -1
	for i := range s.Students {
		if s.Students[i].Assigned {
			continue
		}
		if best < 0 || numberLess(s.Students[i].Number, s.Students[best].Number) {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return s.Students[best].ID
}

// commit seats the student, marks the seat occupied and appends the pair
// to history.  Callers validate availability beforehand.
func (s *Snapshot) commit(st *Student, seat *Seat) Commit {
	seat.StudentID = st.ID
	st.Assigned = true
	st.SeatID = seat.ID
	c := Commit{StudentID: st.ID, SeatID: seat.ID}
	s.History = append(s.History, c)
	return c
}

// numberLess orders student numbers numerically when both sides parse as
// integers and lexicographically otherwise.
func numberLess(a, b string) bool {
	na, errA := strconv.Atoi(strings.TrimSpace(a))
	nb, errB := strconv.Atoi(strings.TrimSpace(b))
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
