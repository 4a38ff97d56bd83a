// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a classroom owned by someone
// else, while ErrConflict signals that an operation cannot proceed due
// to existing dependent records (e.g. a duplicate relation for the same
// student pair).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert or update cannot be
// performed because of conflicting state, such as authoring a second
// relation of the same kind for one student pair. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrClassroomNotFound is returned when a classroom lookup yields no rows.
var ErrClassroomNotFound = errors.New("classroom not found")

// ErrStudentNotFound is returned when a student lookup yields no rows.
var ErrStudentNotFound = errors.New("student not found")

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// ErrRelationNotFound is returned when a relation lookup yields no rows.
var ErrRelationNotFound = errors.New("relation not found")

// ErrFixedNotFound is returned when a fixed assignment lookup yields no rows.
var ErrFixedNotFound = errors.New("fixed assignment not found")
