package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors provides sentinel comparisons
)

// Classroom represents one class's seating session: a named seat grid
// owned by a teacher account.  SeatRows and SeatCols describe the grid
// dimensions; the seats table holds the individual cells.
type Classroom struct {
	ID        uint64 // primary key
	OwnerID   uint64 // FK -> users.id of the owning teacher
	Name      string // human readable label, unique per owner
	SeatRows  uint32 // number of grid rows
	SeatCols  uint32 // number of grid columns
	CreatedAt string
	UpdatedAt string
}

// ClassroomRepo provides methods to create and retrieve classrooms.
type ClassroomRepo struct {
	db *sql.DB
}

// NewClassroomRepo constructs a ClassroomRepo with the given DB handle.
func NewClassroomRepo(db *sql.DB) *ClassroomRepo {
	return &ClassroomRepo{db: db}
}

// Create inserts a new classroom and reads the row back so timestamps
// are populated.  OwnerID, Name, SeatRows and SeatCols must be set.
func (r *ClassroomRepo) Create(ctx context.Context, c *Classroom) error {
	const qInsert = `INSERT INTO classrooms (owner_id, name, seat_rows, seat_cols)
	                 VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, c.OwnerID, c.Name, c.SeatRows, c.SeatCols)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)

	const qSelect = `SELECT id, owner_id, name, seat_rows, seat_cols, created_at, updated_at
	                 FROM classrooms WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, c.ID).
		Scan(&c.ID, &c.OwnerID, &c.Name, &c.SeatRows, &c.SeatCols, &c.CreatedAt, &c.UpdatedAt)
}

// GetByIDAndOwner retrieves a classroom only if it belongs to the given
// owner.  Used by every handler to enforce resource ownership.  Returns
// ErrClassroomNotFound when no matching row exists.
func (r *ClassroomRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*Classroom, error) {
	const q = `SELECT id, owner_id, name, seat_rows, seat_cols, created_at, updated_at
	           FROM classrooms WHERE id = ? AND owner_id = ?`
	var c Classroom
	err := r.db.QueryRowContext(ctx, q, id, ownerID).
		Scan(&c.ID, &c.OwnerID, &c.Name, &c.SeatRows, &c.SeatCols, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClassroomNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByOwner returns all classrooms for a teacher ordered by id.
func (r *ClassroomRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*Classroom, error) {
	const q = `SELECT id, owner_id, name, seat_rows, seat_cols, created_at, updated_at
	           FROM classrooms WHERE owner_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Classroom
	for rows.Next() {
		c := new(Classroom)
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.SeatRows, &c.SeatCols, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateByIDAndOwner updates name and grid dimensions for an owned
// classroom.  Returns sql.ErrNoRows when not found or not owned.
func (r *ClassroomRepo) UpdateByIDAndOwner(ctx context.Context, c *Classroom) error {
	const q = `UPDATE classrooms
	           SET name = ?, seat_rows = ?, seat_cols = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.SeatRows, c.SeatCols, c.ID, c.OwnerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByIDAndOwner removes a classroom.  Dependent rows (students,
// seats, relations, fixed assignments, history) cascade at the database
// level.  Returns sql.ErrNoRows when not found or not owned.
func (r *ClassroomRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	const q = `DELETE FROM classrooms WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
