// Package draw orchestrates the seat assignment engine for the HTTP
// layer: it owns one engine session per classroom, feeds it snapshots
// loaded from the repositories, persists every committed assignment back
// and publishes seat.assigned events.
package draw

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/haneul-dev/seat-roulette/internal/engine"
	"github.com/haneul-dev/seat-roulette/internal/queue"
	"github.com/haneul-dev/seat-roulette/internal/repository"
	queue_publisher "github.com/haneul-dev/seat-roulette/internal/service"
)

// Assignment methods recorded in history and events.
const (
	MethodDraw  = "DRAW"
	MethodBatch = "BATCH"
	MethodFixed = "FIXED"
)

// Service glues the engine to persistence.  Sessions live in memory for
// the duration of the process; any configuration change to a classroom
// must Invalidate its session so the next call rebuilds the snapshot
// from the database.
type Service struct {
	Classrooms  *repository.ClassroomRepo
	Students    *repository.StudentRepo
	Seats       *repository.SeatRepo
	Relations   *repository.RelationRepo
	Fixed       *repository.FixedAssignmentRepo
	Assignments *repository.AssignmentRepo

	// Engine tuning; zero values mean engine defaults.
	HighlightTick time.Duration
	MaxAttempts   int

	mu       sync.Mutex
	sessions map[uint64]*engine.Session
}

// NewService constructs a Service and panics if any repository is nil.
func NewService(
	classrooms *repository.ClassroomRepo,
	students *repository.StudentRepo,
	seats *repository.SeatRepo,
	relations *repository.RelationRepo,
	fixed *repository.FixedAssignmentRepo,
	assignments *repository.AssignmentRepo,
) *Service {
	if classrooms == nil || students == nil || seats == nil || relations == nil || fixed == nil || assignments == nil {
		panic("nil repository passed to draw.NewService")
	}
	return &Service{
		Classrooms:  classrooms,
		Students:    students,
		Seats:       seats,
		Relations:   relations,
		Fixed:       fixed,
		Assignments: assignments,
		sessions:    make(map[uint64]*engine.Session),
	}
}

// CommitInfo describes one persisted assignment for API responses.
type CommitInfo struct {
	StudentID uint64 `json:"student_id"`
	SeatID    string `json:"seat_id"`
	Method    string `json:"method"`
}

// Status is the polling payload for the roulette view.
type Status struct {
	State       string `json:"state"`
	TargetID    uint64 `json:"target_student_id,omitempty"`
	Highlighted string `json:"highlighted_seat_id,omitempty"`
	Completed   bool   `json:"completed"`
}

// session returns the cached session for an owned classroom, building it
// from the database on first use.  The classroom is returned alongside
// for event enrichment.
func (s *Service) session(ctx context.Context, classroomID, ownerID uint64) (*engine.Session, *repository.Classroom, error) {
	room, err := s.Classrooms.GetByIDAndOwner(ctx, classroomID, ownerID)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[classroomID]; ok {
		return sess, room, nil
	}

	snap, err := s.loadSnapshot(ctx, classroomID)
	if err != nil {
		return nil, nil, err
	}
	opts := []engine.Option{}
	if s.HighlightTick > 0 {
		opts = append(opts, engine.WithHighlightInterval(s.HighlightTick))
	}
	if s.MaxAttempts > 0 {
		opts = append(opts, engine.WithMaxAttempts(s.MaxAttempts))
	}
	sess := engine.NewSession(snap, opts...)
	s.sessions[classroomID] = sess
	return sess, room, nil
}

// loadSnapshot assembles the engine's plain-data view of one classroom.
func (s *Service) loadSnapshot(ctx context.Context, classroomID uint64) (engine.Snapshot, error) {
	var snap engine.Snapshot

	students, err := s.Students.GetByClassroom(ctx, classroomID)
	if err != nil {
		return snap, fmt.Errorf("load students: %w", err)
	}
	for _, st := range students {
		es := engine.Student{
			ID:     strconv.FormatUint(st.ID, 10),
			Number: st.Number,
			Name:   st.Name,
		}
		if st.SeatID.Valid {
			es.Assigned = true
			es.SeatID = st.SeatID.String
		}
		snap.Students = append(snap.Students, es)
	}

	seats, err := s.Seats.GetByClassroom(ctx, classroomID)
	if err != nil {
		return snap, fmt.Errorf("load seats: %w", err)
	}
	for _, seat := range seats {
		es := engine.Seat{
			ID:     seat.SeatID,
			Row:    int(seat.RowNo),
			Col:    int(seat.ColNo),
			Usable: seat.IsUsable,
		}
		if seat.StudentID.Valid {
			es.StudentID = strconv.FormatInt(seat.StudentID.Int64, 10)
		}
		snap.Seats = append(snap.Seats, es)
	}

	relations, err := s.Relations.GetByClassroom(ctx, classroomID)
	if err != nil {
		return snap, fmt.Errorf("load relations: %w", err)
	}
	for _, rel := range relations {
		snap.Relations = append(snap.Relations, engine.Relation{
			StudentA: strconv.FormatUint(rel.StudentA, 10),
			StudentB: strconv.FormatUint(rel.StudentB, 10),
			Kind:     rel.Kind,
		})
	}

	fixed, err := s.Fixed.GetByClassroom(ctx, classroomID)
	if err != nil {
		return snap, fmt.Errorf("load fixed assignments: %w", err)
	}
	for _, f := range fixed {
		snap.Fixed = append(snap.Fixed, engine.FixedAssignment{
			StudentID: strconv.FormatUint(f.StudentID, 10),
			SeatID:    f.SeatID,
		})
	}

	history, err := s.Assignments.GetByClassroom(ctx, classroomID)
	if err != nil {
		return snap, fmt.Errorf("load history: %w", err)
	}
	for _, rec := range history {
		snap.History = append(snap.History, engine.Commit{
			StudentID: strconv.FormatUint(rec.StudentID, 10),
			SeatID:    rec.SeatID,
		})
	}

	return snap, nil
}

// Invalidate drops the cached session of a classroom.  Handlers call it
// after any roster, layout, relation or fixed-assignment change.
func (s *Service) Invalidate(classroomID uint64) {
	s.mu.Lock()
	sess, ok := s.sessions[classroomID]
	delete(s.sessions, classroomID)
	s.mu.Unlock()
	if ok {
		sess.Reset()
	}
}

// StartDraw begins the roulette for one student; 0 auto-selects the
// unassigned student with the lowest number.
func (s *Service) StartDraw(ctx context.Context, classroomID, ownerID, studentID uint64) error {
	sess, _, err := s.session(ctx, classroomID, ownerID)
	if err != nil {
		return err
	}
	target := ""
	if studentID != 0 {
		target = strconv.FormatUint(studentID, 10)
	}
	return sess.Start(target)
}

// StopDraw stops the roulette, commits a seat per the resolution order
// and persists the result.  manualSeatID is the optional seat clicked by
// the teacher while the highlight was running.
func (s *Service) StopDraw(ctx context.Context, classroomID, ownerID uint64, manualSeatID string) (CommitInfo, error) {
	sess, room, err := s.session(ctx, classroomID, ownerID)
	if err != nil {
		return CommitInfo{}, err
	}
	commit, err := sess.Stop(manualSeatID)
	if err != nil {
		return CommitInfo{}, err
	}
	method := MethodDraw
	if hasFixed(sess.Snapshot(), commit.StudentID) {
		method = MethodFixed
	}
	info, err := s.persistCommit(ctx, room, sess, commit, method)
	if err != nil {
		return CommitInfo{}, err
	}
	return info, nil
}

// AssignAll runs the batch resolver and persists every commit it made,
// even when the batch is only partially successful.
func (s *Service) AssignAll(ctx context.Context, classroomID, ownerID uint64) (engine.BatchResult, []CommitInfo, error) {
	sess, room, err := s.session(ctx, classroomID, ownerID)
	if err != nil {
		return engine.BatchResult{}, nil, err
	}
	res, batchErr := sess.AssignAll()

	snap := sess.Snapshot()
	infos := make([]CommitInfo, 0, len(res.Committed))
	for _, commit := range res.Committed {
		method := MethodBatch
		if hasFixed(snap, commit.StudentID) {
			method = MethodFixed
		}
		info, err := s.persistCommit(ctx, room, sess, commit, method)
		if err != nil {
			// Persistence failed mid-batch: drop the session so the next
			// call rebuilds from what the database actually holds.
			s.Invalidate(classroomID)
			return res, infos, err
		}
		infos = append(infos, info)
	}
	return res, infos, batchErr
}

// Reset clears assignments and history in the engine and the database,
// preserving relations and fixed assignments.
func (s *Service) Reset(ctx context.Context, classroomID, ownerID uint64) error {
	sess, _, err := s.session(ctx, classroomID, ownerID)
	if err != nil {
		return err
	}
	sess.Reset()
	if err := s.Students.ClearAssignments(ctx, classroomID); err != nil {
		return err
	}
	if err := s.Seats.ClearAssignments(ctx, classroomID); err != nil {
		return err
	}
	return s.Assignments.Clear(ctx, classroomID)
}

// CheckConstraint is the read-only admissibility probe.
func (s *Service) CheckConstraint(ctx context.Context, classroomID, ownerID uint64, seatID string, studentID uint64) (bool, error) {
	sess, _, err := s.session(ctx, classroomID, ownerID)
	if err != nil {
		return false, err
	}
	return sess.CheckConstraint(seatID, strconv.FormatUint(studentID, 10)), nil
}

// Status reports the draw state for UI polling.
func (s *Service) Status(ctx context.Context, classroomID, ownerID uint64) (Status, error) {
	sess, _, err := s.session(ctx, classroomID, ownerID)
	if err != nil {
		return Status{}, err
	}
	st := Status{
		State:       sess.State(),
		Highlighted: sess.Highlighted(),
		Completed:   sess.Completed(),
	}
	if target := sess.Target(); target != "" {
		if id, err := strconv.ParseUint(target, 10, 64); err == nil {
			st.TargetID = id
		}
	}
	return st, nil
}

// persistCommit writes one commit to the database and publishes the
// seat.assigned event.  Persistence errors invalidate the session so the
// in-memory view cannot drift from storage.
func (s *Service) persistCommit(ctx context.Context, room *repository.Classroom, sess *engine.Session, commit engine.Commit, method string) (CommitInfo, error) {
	studentID, err := strconv.ParseUint(commit.StudentID, 10, 64)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("bad student id %q: %w", commit.StudentID, err)
	}
	if err := s.Students.SetSeat(ctx, studentID, commit.SeatID); err != nil {
		s.Invalidate(room.ID)
		return CommitInfo{}, fmt.Errorf("persist student seat: %w", err)
	}
	if err := s.Seats.Occupy(ctx, room.ID, commit.SeatID, studentID); err != nil {
		s.Invalidate(room.ID)
		return CommitInfo{}, fmt.Errorf("persist seat occupancy: %w", err)
	}
	rec := repository.AssignmentRecord{
		ClassroomID: room.ID,
		StudentID:   studentID,
		SeatID:      commit.SeatID,
		Method:      method,
	}
	if err := s.Assignments.Append(ctx, &rec); err != nil {
		s.Invalidate(room.ID)
		return CommitInfo{}, fmt.Errorf("persist history: %w", err)
	}

	s.publishEvent(ctx, room, sess, commit, studentID, method)
	return CommitInfo{StudentID: studentID, SeatID: commit.SeatID, Method: method}, nil
}

// publishEvent enriches and publishes the event; failures are logged and
// swallowed so a broker outage never blocks an assignment.
func (s *Service) publishEvent(ctx context.Context, room *repository.Classroom, sess *engine.Session, commit engine.Commit, studentID uint64, method string) {
	snap := sess.Snapshot()
	ev := queue.SeatAssignedEvent{
		ClassroomID:   room.ID,
		ClassroomName: room.Name,
		StudentID:     studentID,
		SeatID:        commit.SeatID,
		Method:        method,
		AssignedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	for _, st := range snap.Students {
		if st.ID == commit.StudentID {
			ev.StudentNumber = st.Number
			ev.StudentName = st.Name
			break
		}
	}
	if row, col, ok := engine.ParseSeatID(commit.SeatID); ok {
		ev.Row = row
		ev.Col = col
	}
	if err := queue_publisher.PublishSeatAssigned(ctx, ev); err != nil {
		log.Printf("draw: publish seat.assigned failed: %v", err)
	}
}

// hasFixed reports whether the student has a fixed pre-assignment in the
// session's configuration.
func hasFixed(snap engine.Snapshot, studentID string) bool {
	for _, f := range snap.Fixed {
		if f.StudentID == studentID {
			return true
		}
	}
	return false
}
