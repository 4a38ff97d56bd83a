package handler

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/haneul-dev/seat-roulette/internal/engine"
	"github.com/haneul-dev/seat-roulette/internal/repository"
)

// Grid dimension bounds. A classroom bigger than this is almost certainly
// a client bug.
const (
	maxSeatRows = 30
	maxSeatCols = 30
)

type classroomReq struct {
	Name     string `json:"name"`
	SeatRows int    `json:"seat_rows"`
	SeatCols int    `json:"seat_cols"`
}

func (r *classroomReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return "name is required"
	}
	if r.SeatRows < 1 || r.SeatRows > maxSeatRows {
		return "seat_rows out of range"
	}
	if r.SeatCols < 1 || r.SeatCols > maxSeatCols {
		return "seat_cols out of range"
	}
	return ""
}

// buildSeatGrid produces the full row-major seat list for a classroom.
// Every seat starts usable and unoccupied.
func buildSeatGrid(classroomID uint64, rows, cols int) []repository.Seat {
	seats := make([]repository.Seat, 0, rows*cols)
	for r := 1; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			seats = append(seats, repository.Seat{
				ClassroomID: classroomID,
				SeatID:      engine.SeatIDFor(r, c),
				RowNo:       uint32(r),
				ColNo:       uint32(c),
				IsUsable:    true,
			})
		}
	}
	return seats
}

// CreateClassroom handles POST /v1/classrooms. It creates the classroom row
// and materializes its seat grid in one go.
func (h *TeacherHandler) CreateClassroom(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body classroomReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx := c.Request().Context()
	room := &repository.Classroom{
		OwnerID:  ownerID,
		Name:     body.Name,
		SeatRows: uint32(body.SeatRows),
		SeatCols: uint32(body.SeatCols),
	}
	if err := h.ClassroomRepo.Create(ctx, room); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "classroom name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create classroom"})
	}
	if err := h.SeatRepo.CreateBulk(ctx, buildSeatGrid(room.ID, body.SeatRows, body.SeatCols)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create seats"})
	}
	return c.JSON(http.StatusCreated, room)
}

// ListClassrooms handles GET /v1/classrooms.
func (h *TeacherHandler) ListClassrooms(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.ClassroomRepo.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetClassroom handles GET /v1/classrooms/:id.
func (h *TeacherHandler) GetClassroom(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := classroomParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	room, err := h.ClassroomRepo.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		if err == repository.ErrClassroomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "classroom not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, room)
}

// UpdateClassroom handles PUT /v1/classrooms/:id. Changing the grid
// dimensions regenerates the seat layout, which discards all current
// assignments; the session cache is invalidated either way.
func (h *TeacherHandler) UpdateClassroom(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := classroomParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body classroomReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx := c.Request().Context()
	room, err := h.ClassroomRepo.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if err == repository.ErrClassroomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "classroom not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	resized := room.SeatRows != uint32(body.SeatRows) || room.SeatCols != uint32(body.SeatCols)

	room.Name = body.Name
	room.SeatRows = uint32(body.SeatRows)
	room.SeatCols = uint32(body.SeatCols)
	if err := h.ClassroomRepo.UpdateByIDAndOwner(ctx, room); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "classroom not found"})
		}
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "classroom name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	if resized {
		if err := h.SeatRepo.DeleteByClassroom(ctx, id); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not rebuild seats"})
		}
		if err := h.SeatRepo.CreateBulk(ctx, buildSeatGrid(id, body.SeatRows, body.SeatCols)); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not rebuild seats"})
		}
		if err := h.StudentRepo.ClearAssignments(ctx, id); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not reset assignments"})
		}
		if err := h.AssignmentRepo.Clear(ctx, id); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not reset assignments"})
		}
	}
	h.Draw.Invalidate(id)
	return c.JSON(http.StatusOK, room)
}

// DeleteClassroom handles DELETE /v1/classrooms/:id.
func (h *TeacherHandler) DeleteClassroom(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := classroomParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.ClassroomRepo.DeleteByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "classroom not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.Draw.Invalidate(id)
	return c.NoContent(http.StatusNoContent)
}
