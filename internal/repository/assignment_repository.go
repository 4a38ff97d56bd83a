package repository // repository defines data access for the assignment history

import (
	"context"
	"database/sql"
)

// AssignmentRecord is one committed (student, seat) pair.  Seq preserves
// commit order within the classroom; the history is append-only and only
// a full reset clears it.
type AssignmentRecord struct {
	ID          uint64 // primary key
	ClassroomID uint64 // FK -> classrooms.id
	StudentID   uint64 // FK -> students.id
	SeatID      string // e.g. R2C3
	Seq         uint32 // 1-based commit order within the classroom
	Method      string // DRAW | BATCH | FIXED
	CreatedAt   string
}

// AssignmentRepo persists the commit history.
type AssignmentRepo struct {
	db *sql.DB
}

// NewAssignmentRepo constructs an AssignmentRepo with the given DB handle.
func NewAssignmentRepo(db *sql.DB) *AssignmentRepo {
	return &AssignmentRepo{db: db}
}

// Append records one commit at the next sequence number.
func (r *AssignmentRepo) Append(ctx context.Context, rec *AssignmentRecord) error {
	const q = `INSERT INTO assignments (classroom_id, student_id, seat_id, seq, method)
	           SELECT ?, ?, ?, COALESCE(MAX(seq), 0) + 1, ?
	           FROM assignments WHERE classroom_id = ?`
	res, err := r.db.ExecContext(ctx, q, rec.ClassroomID, rec.StudentID, rec.SeatID, rec.Method, rec.ClassroomID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// GetByClassroom retrieves the history of a classroom in commit order.
func (r *AssignmentRepo) GetByClassroom(ctx context.Context, classroomID uint64) ([]AssignmentRecord, error) {
	const q = `SELECT id, classroom_id, student_id, seat_id, seq, method, created_at
	           FROM assignments WHERE classroom_id = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, q, classroomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AssignmentRecord
	for rows.Next() {
		var rec AssignmentRecord
		if err := rows.Scan(&rec.ID, &rec.ClassroomID, &rec.StudentID, &rec.SeatID, &rec.Seq, &rec.Method, &rec.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Clear truncates a classroom's history.  Used by reset.
func (r *AssignmentRepo) Clear(ctx context.Context, classroomID uint64) error {
	const q = `DELETE FROM assignments WHERE classroom_id = ?`
	_, err := r.db.ExecContext(ctx, q, classroomID)
	return err
}
