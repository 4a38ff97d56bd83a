package repository // repository defines data access for fixed seat assignments

import (
	"context"
	"database/sql"
	"strings"
)

// FixedAssignment is a hard pre-constraint binding one student to one
// seat before any randomization.  Unique indexes hold the authoring
// invariant: at most one entry per student and per seat within a
// classroom.
type FixedAssignment struct {
	ID          uint64 // primary key
	ClassroomID uint64 // FK -> classrooms.id
	StudentID   uint64 // FK -> students.id, unique per classroom
	SeatID      string // e.g. R1C1, unique per classroom
	CreatedAt   string
}

// FixedAssignmentRepo provides methods to work with fixed assignments.
type FixedAssignmentRepo struct {
	db *sql.DB
}

// NewFixedAssignmentRepo constructs a FixedAssignmentRepo with the given
// DB handle.
func NewFixedAssignmentRepo(db *sql.DB) *FixedAssignmentRepo {
	return &FixedAssignmentRepo{db: db}
}

// Upsert creates or replaces the fixed entry for a student.  A seat
// already pinned to a different student trips the unique index and is
// reported as ErrConflict.
func (r *FixedAssignmentRepo) Upsert(ctx context.Context, f *FixedAssignment) error {
	const q = `INSERT INTO fixed_assignments (classroom_id, student_id, seat_id)
	           VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE seat_id = VALUES(seat_id)`
	res, err := r.db.ExecContext(ctx, q, f.ClassroomID, f.StudentID, f.SeatID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	if id, err := res.LastInsertId(); err == nil && id > 0 {
		f.ID = uint64(id)
	}
	return nil
}

// GetByClassroom retrieves all fixed assignments of a classroom.
func (r *FixedAssignmentRepo) GetByClassroom(ctx context.Context, classroomID uint64) ([]FixedAssignment, error) {
	const q = `SELECT id, classroom_id, student_id, seat_id, created_at
	           FROM fixed_assignments WHERE classroom_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, classroomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []FixedAssignment
	for rows.Next() {
		var f FixedAssignment
		if err := rows.Scan(&f.ID, &f.ClassroomID, &f.StudentID, &f.SeatID, &f.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteByIDAndOwner removes a fixed assignment while enforcing
// ownership via the classroom join.
func (r *FixedAssignmentRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	const q = `DELETE f FROM fixed_assignments f
	           JOIN classrooms c ON c.id = f.classroom_id
	           WHERE f.id = ? AND c.owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFixedNotFound
	}
	return nil
}
