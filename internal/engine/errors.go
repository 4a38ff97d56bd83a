package engine

import "errors"

var (
	// ErrNoAvailableSeats indicates no usable, unoccupied seat remains for
	// the requested operation.
	ErrNoAvailableSeats = errors.New("no available seats")

	// ErrNoTargetStudent indicates the requested target student does not
	// exist or is already seated.
	ErrNoTargetStudent = errors.New("no target student")

	// ErrAllAssigned indicates every student on the roster already holds a
	// seat; the draw cycle is complete until a reset.
	ErrAllAssigned = errors.New("all students assigned")

	// ErrDrawNotRunning indicates a stop request arrived while no draw was
	// in progress.
	ErrDrawNotRunning = errors.New("draw not running")

	// ErrFixedSeatUnusable indicates a fixed assignment points at a seat
	// that is missing from the grid or marked unusable.
	ErrFixedSeatUnusable = errors.New("fixed seat unusable")

	// ErrFixedSeatConflict indicates a fixed assignment's seat is already
	// occupied by a different student.
	ErrFixedSeatConflict = errors.New("fixed seat conflict")

	// ErrManualSeatUnavailable indicates a manually selected seat is
	// missing, unusable or occupied.  Manual selection never falls back to
	// random search.
	ErrManualSeatUnavailable = errors.New("manual seat unavailable")

	// ErrManualSeatInadmissible indicates a manually selected seat violates
	// a relation for the target student.
	ErrManualSeatInadmissible = errors.New("manual seat inadmissible")

	// ErrNoAdmissibleSeat indicates the bounded random search exhausted its
	// attempts without finding a constraint-satisfying seat.
	ErrNoAdmissibleSeat = errors.New("no constraint-satisfying seat found")

	// ErrPartialBatch indicates a batch run seated only part of the roster.
	// Commits from the same batch remain valid; the result lists the
	// per-student reasons.
	ErrPartialBatch = errors.New("batch assignment incomplete")
)
