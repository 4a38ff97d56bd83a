package engine

import (
	"fmt"
	"math/rand"
)

// BatchResult aggregates the outcome of one batch run.  Committed lists
// the assignments made during the call in commit order; Errors carries one
// human-readable reason per entry that could not be placed.  Both can be
// non-empty at once: the batch is best-effort and never rolls back.
type BatchResult struct {
	Committed []Commit
	Errors    []string
}

// AssignAll seats every remaining unassigned student in the snapshot in a
// single call.  Fixed assignments are honored first, then the rest of the
// roster is placed greedily: students and the remaining available seats
// are shuffled independently and each student takes the first admissible
// seat in scan order.  Commits made earlier in the same call constrain the
// later placements.
//
// The snapshot is mutated in place.  When at least one student stays
// unseated the returned error wraps ErrPartialBatch and the result lists
// the reasons; the commits that did happen remain valid.
func AssignAll(snap *Snapshot, rng *rand.Rand) (BatchResult, error) {
	var res BatchResult

	if len(snap.unassignedStudentIDs()) == 0 {
		return res, ErrAllAssigned
	}
	if len(snap.availableSeatIDs()) == 0 {
		return res, ErrNoAvailableSeats
	}

	// Phase 1: fixed assignments.  A bad entry is reported and skipped, it
	// never aborts the batch.
	for _, f := range snap.Fixed {
		st := snap.studentByID(f.StudentID)
		if st == nil {
			res.Errors = append(res.Errors, fmt.Sprintf("fixed seat %s: student %s not found", f.SeatID, f.StudentID))
			continue
		}
		if st.Assigned {
			if st.SeatID != f.SeatID {
				res.Errors = append(res.Errors, fmt.Sprintf("fixed seat %s: student %s already seated at %s", f.SeatID, f.StudentID, st.SeatID))
			}
			continue
		}
		seat := snap.seatByID(f.SeatID)
		if seat == nil || !seat.Usable {
			res.Errors = append(res.Errors, fmt.Sprintf("fixed seat %s for student %s is missing or unusable", f.SeatID, f.StudentID))
			continue
		}
		if seat.StudentID != "" {
			res.Errors = append(res.Errors, fmt.Sprintf("fixed seat %s for student %s is already taken by %s", f.SeatID, f.StudentID, seat.StudentID))
			continue
		}
		res.Committed = append(res.Committed, snap.commit(st, seat))
	}

	// Phase 2: shuffle the remaining students and seats independently and
	// place greedily under the constraint checker.
	students := snap.unassignedStudentIDs()
	seats := snap.availableSeatIDs()
	rng.Shuffle(len(students), func(i, j int) { students[i], students[j] = students[j], students[i] })
	rng.Shuffle(len(seats), func(i, j int) { seats[i], seats[j] = seats[j], seats[i] })

	for _, studentID := range students {
		placed := -1
		for i, seatID := range seats {
			if snap.Admissible(seatID, studentID) {
				placed = i
				break
			}
		}
		if placed < 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("student %s: no admissible seat", studentID))
			continue
		}
		st := snap.studentByID(studentID)
		seat := snap.seatByID(seats[placed])
		res.Committed = append(res.Committed, snap.commit(st, seat))
		seats = append(seats[:placed], seats[placed+1:]...)
	}

	if len(res.Errors) > 0 {
		return res, fmt.Errorf("%w: %d entries failed", ErrPartialBatch, len(res.Errors))
	}
	return res, nil
}
