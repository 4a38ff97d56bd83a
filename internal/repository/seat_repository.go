package repository // repository defines data access for classroom seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparisons
)

// Seat represents one cell of a classroom grid.  SeatID is the canonical
// "R{row}C{col}" identifier shared with the assignment engine; RowNo and
// ColNo store the coordinates redundantly for querying.
type Seat struct {
	ID          uint64        // primary key
	ClassroomID uint64        // FK -> classrooms.id
	SeatID      string        // e.g. R2C3, unique per classroom
	RowNo       uint32        // 1-based row
	ColNo       uint32        // 1-based column
	IsUsable    bool          // layout flag; unusable seats never receive students
	StudentID   sql.NullInt64 // occupying student, NULL when free
	CreatedAt   string
	UpdatedAt   string
}

// SeatRepo provides methods to work with seats in the database.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// CreateBulk inserts a full grid of seats in a single statement.  Used
// when a classroom is created or its dimensions change.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (classroom_id, seat_id, row_no, col_no, is_usable) VALUES `
	args := make([]interface{}, 0, len(seats)*5)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, s.ClassroomID, s.SeatID, s.RowNo, s.ColNo, s.IsUsable)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// GetByClassroom retrieves all seats of a classroom in row-major order.
func (r *SeatRepo) GetByClassroom(ctx context.Context, classroomID uint64) ([]Seat, error) {
	const q = `SELECT id, classroom_id, seat_id, row_no, col_no, is_usable, student_id, created_at, updated_at
	           FROM seats
	           WHERE classroom_id = ?
	           ORDER BY row_no, col_no`
	rows, err := r.db.QueryContext(ctx, q, classroomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Seat
	for rows.Next() {
		var s Seat
		if err := rows.Scan(
			&s.ID, &s.ClassroomID, &s.SeatID, &s.RowNo, &s.ColNo,
			&s.IsUsable, &s.StudentID, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetUsable flips the layout flag of one seat.  An occupied seat cannot
// be turned unusable; that surfaces as zero affected rows and the
// repository reports ErrConflict so handlers can respond 409.
func (r *SeatRepo) SetUsable(ctx context.Context, classroomID uint64, seatID string, usable bool) error {
	if !usable {
		const q = `UPDATE seats SET is_usable = ?, updated_at = CURRENT_TIMESTAMP
		           WHERE classroom_id = ? AND seat_id = ? AND student_id IS NULL`
		res, err := r.db.ExecContext(ctx, q, usable, classroomID, seatID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			if exists, err2 := r.exists(ctx, classroomID, seatID); err2 == nil && exists {
				return ErrConflict
			}
			return ErrSeatNotFound
		}
		return nil
	}
	const q = `UPDATE seats SET is_usable = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE classroom_id = ? AND seat_id = ?`
	res, err := r.db.ExecContext(ctx, q, usable, classroomID, seatID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSeatNotFound
	}
	return nil
}

// exists reports whether a seat row is present at all.
func (r *SeatRepo) exists(ctx context.Context, classroomID uint64, seatID string) (bool, error) {
	const q = `SELECT 1 FROM seats WHERE classroom_id = ? AND seat_id = ? LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, classroomID, seatID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Occupy records a committed assignment on the seat row.
func (r *SeatRepo) Occupy(ctx context.Context, classroomID uint64, seatID string, studentID uint64) error {
	const q = `UPDATE seats SET student_id = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE classroom_id = ? AND seat_id = ? AND is_usable = 1 AND student_id IS NULL`
	res, err := r.db.ExecContext(ctx, q, studentID, classroomID, seatID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// Free releases a single seat, e.g. when its student is removed from the
// roster.  Freeing an already empty seat is a no-op.
func (r *SeatRepo) Free(ctx context.Context, classroomID uint64, seatID string) error {
	const q = `UPDATE seats SET student_id = NULL, updated_at = CURRENT_TIMESTAMP
	           WHERE classroom_id = ? AND seat_id = ?`
	_, err := r.db.ExecContext(ctx, q, classroomID, seatID)
	return err
}

// ClearAssignments frees every seat of a classroom.  Used by reset.
func (r *SeatRepo) ClearAssignments(ctx context.Context, classroomID uint64) error {
	const q = `UPDATE seats SET student_id = NULL, updated_at = CURRENT_TIMESTAMP
	           WHERE classroom_id = ?`
	_, err := r.db.ExecContext(ctx, q, classroomID)
	return err
}

// DeleteByClassroom removes all seat rows of a classroom.  Used when the
// grid dimensions change and the layout is regenerated.  Callers verify
// ownership of the classroom before calling.
func (r *SeatRepo) DeleteByClassroom(ctx context.Context, classroomID uint64) error {
	const q = `DELETE FROM seats WHERE classroom_id = ?`
	_, err := r.db.ExecContext(ctx, q, classroomID)
	return err
}
