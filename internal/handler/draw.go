package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/haneul-dev/seat-roulette/internal/engine"
	"github.com/haneul-dev/seat-roulette/internal/repository"
)

// drawErrorStatus maps engine sentinels to HTTP status codes. Conflicts in
// the configuration (fixed seat taken, no admissible seat) come back as 409
// so the client can surface them without retrying; precondition failures
// are 422.
func drawErrorStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrClassroomNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrDrawNotRunning):
		return http.StatusConflict
	case errors.Is(err, engine.ErrAllAssigned),
		errors.Is(err, engine.ErrNoAvailableSeats),
		errors.Is(err, engine.ErrNoTargetStudent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrFixedSeatUnusable),
		errors.Is(err, engine.ErrFixedSeatConflict),
		errors.Is(err, engine.ErrManualSeatUnavailable),
		errors.Is(err, engine.ErrManualSeatInadmissible),
		errors.Is(err, engine.ErrNoAdmissibleSeat):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// StartDraw handles POST /v1/classrooms/:id/draw/start. An optional
// student_id in the body picks the target; otherwise the unassigned
// student with the lowest number is drawn for.
func (h *TeacherHandler) StartDraw(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := classroomParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		StudentID uint64 `json:"student_id"`
	}
	_ = c.Bind(&body) // empty body means auto-target

	if err := h.Draw.StartDraw(c.Request().Context(), id, ownerID, body.StudentID); err != nil {
		return c.JSON(drawErrorStatus(err), echo.Map{"error": err.Error()})
	}
	status, err := h.Draw.Status(c.Request().Context(), id, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "status unavailable"})
	}
	return c.JSON(http.StatusOK, status)
}

// StopDraw handles POST /v1/classrooms/:id/draw/stop. An optional seat_id
// in the body is the teacher's manual override; when it cannot be honored
// the draw fails rather than falling back silently.
func (h *TeacherHandler) StopDraw(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := classroomParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		SeatID string `json:"seat_id"`
	}
	_ = c.Bind(&body)
	manual := strings.ToUpper(strings.TrimSpace(body.SeatID))
	if manual != "" {
		if _, _, ok := engine.ParseSeatID(manual); !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
		}
	}

	commit, err := h.Draw.StopDraw(c.Request().Context(), id, ownerID, manual)
	if err != nil {
		return c.JSON(drawErrorStatus(err), echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, commit)
}

// AssignAll handles POST /v1/classrooms/:id/draw/assign-all. Partial
// success returns 207 with both the commits and the per-student failures.
func (h *TeacherHandler) AssignAll(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := classroomParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	res, commits, err := h.Draw.AssignAll(c.Request().Context(), id, ownerID)
	if err != nil && !errors.Is(err, engine.ErrPartialBatch) {
		return c.JSON(drawErrorStatus(err), echo.Map{"error": err.Error()})
	}
	payload := echo.Map{
		"committed": commits,
		"errors":    res.Errors,
	}
	if errors.Is(err, engine.ErrPartialBatch) {
		return c.JSON(http.StatusMultiStatus, payload)
	}
	return c.JSON(http.StatusOK, payload)
}

// ResetAssignments handles POST /v1/classrooms/:id/draw/reset. It clears
// all assignments and history; relations and fixed assignments survive.
func (h *TeacherHandler) ResetAssignments(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := classroomParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Draw.Reset(c.Request().Context(), id, ownerID); err != nil {
		return c.JSON(drawErrorStatus(err), echo.Map{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// DrawState handles GET /v1/classrooms/:id/draw/state, the polling
// endpoint behind the roulette view.
func (h *TeacherHandler) DrawState(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := classroomParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	status, err := h.Draw.Status(c.Request().Context(), id, ownerID)
	if err != nil {
		return c.JSON(drawErrorStatus(err), echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, status)
}

// AssignmentHistory handles GET /v1/classrooms/:id/assignments and returns
// the commit log in draw order.
func (h *TeacherHandler) AssignmentHistory(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := classroomParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if _, err := h.ClassroomRepo.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		if err == repository.ErrClassroomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "classroom not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items, err := h.AssignmentRepo.GetByClassroom(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CheckConstraint handles GET /v1/classrooms/:id/draw/check. Query
// parameters seat_id and student_id select the probe; the response is the
// admissibility verdict, never an error about the verdict itself.
func (h *TeacherHandler) CheckConstraint(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := classroomParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	seatID := strings.ToUpper(strings.TrimSpace(c.QueryParam("seat_id")))
	if _, _, ok := engine.ParseSeatID(seatID); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}
	studentID, err := strconv.ParseUint(c.QueryParam("student_id"), 10, 64)
	if err != nil || studentID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student id"})
	}

	admissible, err := h.Draw.CheckConstraint(c.Request().Context(), id, ownerID, seatID, studentID)
	if err != nil {
		return c.JSON(drawErrorStatus(err), echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"seat_id":    seatID,
		"student_id": studentID,
		"admissible": admissible,
	})
}
