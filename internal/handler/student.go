package handler

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/haneul-dev/seat-roulette/internal/repository"
)

// maxRosterSize bounds a single import; grids are capped at 30x30 so a
// larger roster could never be seated anyway.
const maxRosterSize = maxSeatRows * maxSeatCols

type studentEntry struct {
	Number string `json:"number"`
	Name   string `json:"name"`
}

type studentView struct {
	ID     uint64 `json:"id"`
	Number string `json:"number"`
	Name   string `json:"name"`
	SeatID string `json:"seat_id,omitempty"`
}

// ImportStudents handles POST /v1/classrooms/:id/students and bulk-inserts
// a roster. Numbers must be unique within the payload.
func (h *TeacherHandler) ImportStudents(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := classroomParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Students []studentEntry `json:"students"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.Students) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "students required"})
	}
	if len(body.Students) > maxRosterSize {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "too many students"})
	}
	seen := make(map[string]struct{}, len(body.Students))
	rows := make([]repository.Student, 0, len(body.Students))
	for _, e := range body.Students {
		number := strings.TrimSpace(e.Number)
		name := strings.TrimSpace(e.Name)
		if number == "" || name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "number and name are required for every student"})
		}
		if _, dup := seen[number]; dup {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate number: " + number})
		}
		seen[number] = struct{}{}
		rows = append(rows, repository.Student{ClassroomID: id, Number: number, Name: name})
	}

	ctx := c.Request().Context()
	if _, err := h.ClassroomRepo.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		if err == repository.ErrClassroomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "classroom not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.StudentRepo.CreateBulk(ctx, rows); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "student number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "import failed"})
	}
	h.Draw.Invalidate(id)
	return c.JSON(http.StatusCreated, echo.Map{"imported": len(rows)})
}

// ListStudents handles GET /v1/classrooms/:id/students, ordered by number.
func (h *TeacherHandler) ListStudents(c echo.Context) error {
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
	students, err := h.StudentRepo.GetByClassroom(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	views := make([]studentView, 0, len(students))
	for _, s := range students {
		v := studentView{ID: s.ID, Number: s.Number, Name: s.Name}
		if s.SeatID.Valid {
			v.SeatID = s.SeatID.String
		}
		views = append(views, v)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": views})
}

// DeleteStudent handles DELETE /v1/students/:id. Relations and fixed
// assignments referencing the student cascade at the database level.
func (h *TeacherHandler) DeleteStudent(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	st, err := h.StudentRepo.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if err == repository.ErrStudentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.StudentRepo.DeleteByIDAndOwner(ctx, id, ownerID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	// Free the seat the student may have been holding.
	if st.SeatID.Valid {
		if err := h.SeatRepo.Free(ctx, st.ClassroomID, st.SeatID.String); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not free seat"})
		}
	}
	h.Draw.Invalidate(st.ClassroomID)
	return c.NoContent(http.StatusNoContent)
}
