package engine_test

import (
	"fmt"

	"github.com/haneul-dev/seat-roulette/internal/engine"
)

// grid builds a fully usable rows×cols seat grid.
func grid(rows, cols int) []engine.Seat {
	seats := make([]engine.Seat, 0, rows*cols)
	for r := 1; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			seats = append(seats, engine.Seat{
				ID:     engine.SeatIDFor(r, c),
				Row:    r,
				Col:    c,
				Usable: true,
			})
		}
	}
	return seats
}

// roster builds n students with ids S1..Sn and matching numbers.
func roster(n int) []engine.Student {
	students := make([]engine.Student, 0, n)
	for i := 1; i <= n; i++ {
		students = append(students, engine.Student{
			ID:     fmt.Sprintf("S%d", i),
			Number: fmt.Sprintf("%d", i),
			Name:   fmt.Sprintf("Student %d", i),
		})
	}
	return students
}

// seatStudent places a student on a seat directly in the snapshot,
// bypassing the resolvers, for test setup.
func seatStudent(snap *engine.Snapshot, studentID, seatID string) {
	for i := range snap.Students {
		if snap.Students[i].ID == studentID {
			snap.Students[i].Assigned = true
			snap.Students[i].SeatID = seatID
		}
	}
	for i := range snap.Seats {
		if snap.Seats[i].ID == seatID {
			snap.Seats[i].StudentID = studentID
		}
	}
}

// checkInvariants asserts the cross-cutting assignment invariants: the
// assigned flag mirrors the seat id, occupied seats are usable, and no
// student occupies two seats.
func checkInvariants(snap engine.Snapshot) error {
	for _, st := range snap.Students {
		if st.Assigned != (st.SeatID != "") {
			return fmt.Errorf("student %s: Assigned=%v but SeatID=%q", st.ID, st.Assigned, st.SeatID)
		}
	}
	seen := map[string]string{}
	for _, seat := range snap.Seats {
		if seat.StudentID == "" {
			continue
		}
		if !seat.Usable {
			return fmt.Errorf("seat %s: occupied but unusable", seat.ID)
		}
		if prev, ok := seen[seat.StudentID]; ok {
			return fmt.Errorf("student %s on two seats: %s and %s", seat.StudentID, prev, seat.ID)
		}
		seen[seat.StudentID] = seat.ID
	}
	return nil
}
