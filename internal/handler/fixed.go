package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/haneul-dev/seat-roulette/internal/engine"
	"github.com/haneul-dev/seat-roulette/internal/repository"
)

// PutFixedAssignment handles PUT /v1/classrooms/:id/fixed. It pins a
// student to a seat ahead of any draw, replacing the student's previous
// pin if one exists.
func (h *TeacherHandler) PutFixedAssignment(c echo.Context) error {
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
		SeatID    string `json:"seat_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	seatID := strings.ToUpper(strings.TrimSpace(body.SeatID))
	if _, _, ok := engine.ParseSeatID(seatID); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}
	if body.StudentID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "student_id required"})
	}

	ctx := c.Request().Context()
	if _, err := h.ClassroomRepo.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		if err == repository.ErrClassroomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "classroom not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	st, err := h.StudentRepo.GetByIDAndOwner(ctx, body.StudentID, ownerID)
	if err != nil {
		if err == repository.ErrStudentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if st.ClassroomID != id {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "student belongs to a different classroom"})
	}

	f := &repository.FixedAssignment{ClassroomID: id, StudentID: body.StudentID, SeatID: seatID}
	if err := h.FixedRepo.Upsert(ctx, f); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat already pinned to another student"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save fixed assignment"})
	}
	h.Draw.Invalidate(id)
	return c.JSON(http.StatusOK, f)
}

// ListFixedAssignments handles GET /v1/classrooms/:id/fixed.
func (h *TeacherHandler) ListFixedAssignments(c echo.Context) error {
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
	items, err := h.FixedRepo.GetByClassroom(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeleteFixedAssignment handles DELETE /v1/classrooms/:id/fixed/:fixed_id.
func (h *TeacherHandler) DeleteFixedAssignment(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := classroomParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	fixedID, err := strconv.ParseUint(c.Param("fixed_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid fixed assignment id"})
	}
	ctx := c.Request().Context()
	if err := h.FixedRepo.DeleteByIDAndOwner(ctx, fixedID, ownerID); err != nil {
		if err == repository.ErrFixedNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "fixed assignment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.Draw.Invalidate(id)
	return c.NoContent(http.StatusNoContent)
}
