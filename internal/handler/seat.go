package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/haneul-dev/seat-roulette/internal/engine"
	"github.com/haneul-dev/seat-roulette/internal/repository"
)

type seatView struct {
	SeatID    string `json:"seat_id"`
	Row       uint32 `json:"row"`
	Col       uint32 `json:"col"`
	IsUsable  bool   `json:"is_usable"`
	StudentID uint64 `json:"student_id,omitempty"`
}

// GetLayout handles GET /v1/classrooms/:id/layout and returns the seat grid
// with occupancy. Responses are cached by the Redis middleware; mutations
// go through different paths so a short TTL keeps the view fresh enough.
func (h *TeacherHandler) GetLayout(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := classroomParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	room, err := h.ClassroomRepo.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if err == repository.ErrClassroomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "classroom not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	seats, err := h.SeatRepo.GetByClassroom(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	views := make([]seatView, 0, len(seats))
	for _, s := range seats {
		v := seatView{SeatID: s.SeatID, Row: s.RowNo, Col: s.ColNo, IsUsable: s.IsUsable}
		if s.StudentID.Valid {
			v.StudentID = uint64(s.StudentID.Int64)
		}
		views = append(views, v)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"classroom_id": room.ID,
		"seat_rows":    room.SeatRows,
		"seat_cols":    room.SeatCols,
		"seats":        views,
	})
}

// SetSeatUsable handles PATCH /v1/classrooms/:id/seats/:seat_id and flips
// the usable flag of one seat. An occupied seat cannot be made unusable.
func (h *TeacherHandler) SetSeatUsable(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := classroomParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	seatID := strings.ToUpper(strings.TrimSpace(c.Param("seat_id")))
	if _, _, ok := engine.ParseSeatID(seatID); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}
	var body struct {
		IsUsable *bool `json:"is_usable"`
	}
	if err := c.Bind(&body); err != nil || body.IsUsable == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_usable required"})
	}

	ctx := c.Request().Context()
	if _, err := h.ClassroomRepo.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		if err == repository.ErrClassroomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "classroom not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.SeatRepo.SetUsable(ctx, id, seatID, *body.IsUsable); err != nil {
		switch err {
		case repository.ErrSeatNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat is occupied"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	h.Draw.Invalidate(id)
	return c.JSON(http.StatusOK, echo.Map{"seat_id": seatID, "is_usable": *body.IsUsable})
}
