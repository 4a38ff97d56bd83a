package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/haneul-dev/seat-roulette/internal/engine"
	"github.com/haneul-dev/seat-roulette/internal/repository"
)

// CreateRelation handles POST /v1/classrooms/:id/relations. Both students
// must belong to the classroom and the pair must not already carry a rule
// of the same kind.
func (h *TeacherHandler) CreateRelation(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := classroomParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		StudentA uint64 `json:"student_a"`
		StudentB uint64 `json:"student_b"`
		Kind     string `json:"kind"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	kind := strings.ToUpper(strings.TrimSpace(body.Kind))
	if kind != engine.RelationMustPair && kind != engine.RelationMustSeparate {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind must be MUST_PAIR or MUST_SEPARATE"})
	}
	if body.StudentA == 0 || body.StudentB == 0 || body.StudentA == body.StudentB {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "two distinct students required"})
	}

	ctx := c.Request().Context()
	if _, err := h.ClassroomRepo.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		if err == repository.ErrClassroomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "classroom not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	for _, sid := range []uint64{body.StudentA, body.StudentB} {
		st, err := h.StudentRepo.GetByIDAndOwner(ctx, sid, ownerID)
		if err != nil {
			if err == repository.ErrStudentNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found: " + strconv.FormatUint(sid, 10)})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if st.ClassroomID != id {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "student belongs to a different classroom"})
		}
	}

	rel := &repository.Relation{
		ClassroomID: id,
		StudentA:    body.StudentA,
		StudentB:    body.StudentB,
		Kind:        kind,
	}
	if err := h.RelationRepo.Create(ctx, rel); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "relation already exists for this pair"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create relation"})
	}
	h.Draw.Invalidate(id)
	return c.JSON(http.StatusCreated, rel)
}

// ListRelations handles GET /v1/classrooms/:id/relations.
func (h *TeacherHandler) ListRelations(c echo.Context) error {
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
	items, err := h.RelationRepo.GetByClassroom(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeleteRelation handles DELETE /v1/classrooms/:id/relations/:relation_id.
func (h *TeacherHandler) DeleteRelation(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := classroomParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	relID, err := strconv.ParseUint(c.Param("relation_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid relation id"})
	}
	ctx := c.Request().Context()
	if err := h.RelationRepo.DeleteByIDAndOwner(ctx, relID, ownerID); err != nil {
		if err == repository.ErrRelationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "relation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.Draw.Invalidate(id)
	return c.NoContent(http.StatusNoContent)
}
