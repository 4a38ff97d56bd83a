package repository // repository defines data access for roster students

import (
	"context"
	"database/sql"
	"errors"
)

// Student is one roster entry of a classroom.  Number is the
// human-facing ordering key carried over from the import; SeatID holds
// the committed seat identifier, NULL while unassigned.
type Student struct {
	ID          uint64         // primary key
	ClassroomID uint64         // FK -> classrooms.id
	Number      string         // numeric-sortable ordering key, e.g. "7"
	Name        string         // display name
	SeatID      sql.NullString // committed seat, e.g. R2C3
	CreatedAt   string
	UpdatedAt   string
}

// StudentRepo provides methods to work with students in the database.
type StudentRepo struct {
	db *sql.DB
}

// NewStudentRepo constructs a StudentRepo with the given DB handle.
func NewStudentRepo(db *sql.DB) *StudentRepo {
	return &StudentRepo{db: db}
}

// CreateBulk inserts an imported roster in a single statement.
func (r *StudentRepo) CreateBulk(ctx context.Context, students []Student) error {
	if len(students) == 0 {
		return nil
	}
	query := `INSERT INTO students (classroom_id, number, name) VALUES `
	args := make([]interface{}, 0, len(students)*3)
	for i, s := range students {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, s.ClassroomID, s.Number, s.Name)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// GetByClassroom retrieves a classroom's roster ordered by number.  The
// ORDER BY casts to an integer so "10" sorts after "2".
func (r *StudentRepo) GetByClassroom(ctx context.Context, classroomID uint64) ([]Student, error) {
	const q = `SELECT id, classroom_id, number, name, seat_id, created_at, updated_at
	           FROM students
	           WHERE classroom_id = ?
	           ORDER BY CAST(number AS UNSIGNED), number`
	rows, err := r.db.QueryContext(ctx, q, classroomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Student
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.ClassroomID, &s.Number, &s.Name, &s.SeatID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByIDAndOwner retrieves a student while enforcing ownership via the
// classroom join.
func (r *StudentRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*Student, error) {
	const q = `SELECT s.id, s.classroom_id, s.number, s.name, s.seat_id, s.created_at, s.updated_at
	           FROM students s
	           JOIN classrooms c ON c.id = s.classroom_id
	           WHERE s.id = ? AND c.owner_id = ?`
	var s Student
	err := r.db.QueryRowContext(ctx, q, id, ownerID).
		Scan(&s.ID, &s.ClassroomID, &s.Number, &s.Name, &s.SeatID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &s, nil
}

// SetSeat records the committed seat on the student row.
func (r *StudentRepo) SetSeat(ctx context.Context, studentID uint64, seatID string) error {
	const q = `UPDATE students SET seat_id = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND seat_id IS NULL`
	res, err := r.db.ExecContext(ctx, q, seatID, studentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// ClearAssignments unseats every student of a classroom.  Used by reset.
func (r *StudentRepo) ClearAssignments(ctx context.Context, classroomID uint64) error {
	const q = `UPDATE students SET seat_id = NULL, updated_at = CURRENT_TIMESTAMP
	           WHERE classroom_id = ?`
	_, err := r.db.ExecContext(ctx, q, classroomID)
	return err
}

// DeleteByIDAndOwner deletes a student while ensuring the classroom
// belongs to the owner.  Returns sql.ErrNoRows when not found or not
// owned.
func (r *StudentRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	const q = `DELETE s FROM students s
	           JOIN classrooms c ON c.id = s.classroom_id
	           WHERE s.id = ? AND c.owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByClassroom removes an entire roster, e.g. before re-import.
func (r *StudentRepo) DeleteByClassroom(ctx context.Context, classroomID uint64) error {
	const q = `DELETE FROM students WHERE classroom_id = ?`
	_, err := r.db.ExecContext(ctx, q, classroomID)
	return err
}
