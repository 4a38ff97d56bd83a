package repository // repository defines data access for seating relations

import (
	"context"
	"database/sql"
	"strings"
)

// Relation is a pairwise seating rule between two students of the same
// classroom.  Kind is MUST_PAIR or MUST_SEPARATE.  The pair is stored
// normalized (student_a < student_b) so the unique index can reject a
// duplicate rule of the same kind regardless of authoring order.
type Relation struct {
	ID          uint64 // primary key
	ClassroomID uint64 // FK -> classrooms.id
	StudentA    uint64 // lower student id of the pair
	StudentB    uint64 // higher student id of the pair
	Kind        string // MUST_PAIR | MUST_SEPARATE
	CreatedAt   string
}

// RelationRepo provides methods to work with relations in the database.
type RelationRepo struct {
	db *sql.DB
}

// NewRelationRepo constructs a RelationRepo with the given DB handle.
func NewRelationRepo(db *sql.DB) *RelationRepo {
	return &RelationRepo{db: db}
}

// Create inserts one relation.  The pair is normalized before insert; a
// duplicate same-kind rule for the pair trips the unique index and is
// reported as ErrConflict.  Rejecting duplicates here keeps the engine
// free of that concern.
func (r *RelationRepo) Create(ctx context.Context, rel *Relation) error {
	if rel.StudentA > rel.StudentB {
		rel.StudentA, rel.StudentB = rel.StudentB, rel.StudentA
	}
	const q = `INSERT INTO relations (classroom_id, student_a, student_b, kind)
	           VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rel.ClassroomID, rel.StudentA, rel.StudentB, rel.Kind)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rel.ID = uint64(id)
	return nil
}

// GetByClassroom retrieves all relations of a classroom.
func (r *RelationRepo) GetByClassroom(ctx context.Context, classroomID uint64) ([]Relation, error) {
	const q = `SELECT id, classroom_id, student_a, student_b, kind, created_at
	           FROM relations WHERE classroom_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, classroomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Relation
	for rows.Next() {
		var rel Relation
		if err := rows.Scan(&rel.ID, &rel.ClassroomID, &rel.StudentA, &rel.StudentB, &rel.Kind, &rel.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteByIDAndOwner removes a relation while enforcing ownership via
// the classroom join.
func (r *RelationRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	const q = `DELETE rel FROM relations rel
	           JOIN classrooms c ON c.id = rel.classroom_id
	           WHERE rel.id = ? AND c.owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRelationNotFound
	}
	return nil
}
