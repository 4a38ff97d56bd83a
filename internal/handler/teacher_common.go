package handler // handler defines http handlers

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/haneul-dev/seat-roulette/internal/draw"
	"github.com/haneul-dev/seat-roulette/internal/repository"
)

// TeacherHandler bundles the repositories and the draw service behind the
// teacher-scoped endpoints.
type TeacherHandler struct {
	ClassroomRepo  *repository.ClassroomRepo
	StudentRepo    *repository.StudentRepo
	SeatRepo       *repository.SeatRepo
	RelationRepo   *repository.RelationRepo
	FixedRepo      *repository.FixedAssignmentRepo
	AssignmentRepo *repository.AssignmentRepo
	Draw           *draw.Service
}

// NewTeacherHandler constructs a TeacherHandler and panics if any dependency is nil.
func NewTeacherHandler(
	classroomRepo *repository.ClassroomRepo,
	studentRepo *repository.StudentRepo,
	seatRepo *repository.SeatRepo,
	relationRepo *repository.RelationRepo,
	fixedRepo *repository.FixedAssignmentRepo,
	assignmentRepo *repository.AssignmentRepo,
	drawSvc *draw.Service,
) *TeacherHandler {
	if classroomRepo == nil || studentRepo == nil || seatRepo == nil ||
		relationRepo == nil || fixedRepo == nil || assignmentRepo == nil || drawSvc == nil {
		panic("nil dependency passed to NewTeacherHandler")
	}
	return &TeacherHandler{
		ClassroomRepo:  classroomRepo,
		StudentRepo:    studentRepo,
		SeatRepo:       seatRepo,
		RelationRepo:   relationRepo,
		FixedRepo:      fixedRepo,
		AssignmentRepo: assignmentRepo,
		Draw:           drawSvc,
	}
}

// getUserID extracts the user_id set by the JWT middleware and converts it
// to uint64. The middleware may store it under several numeric types
// depending on where the claim came from.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// classroomParam parses the :id (or named) route parameter as a classroom id.
func classroomParam(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
