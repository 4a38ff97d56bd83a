package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/haneul-dev/seat-roulette/internal/handler"
	"github.com/haneul-dev/seat-roulette/internal/middleware"
)

// RegisterTeacher registers the TEACHER-scoped endpoints under /v1.  All
// routes require a valid JWT carrying the TEACHER role.  cacheMW, when
// non-nil, is attached to the read-heavy layout endpoint only; mutating
// endpoints must never be cached.
func RegisterTeacher(e *echo.Echo, t *handler.TeacherHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("TEACHER"),
	)

	// ---- Classrooms ----
	g.POST("/classrooms", t.CreateClassroom)
	g.GET("/classrooms", t.ListClassrooms)
	g.GET("/classrooms/:id", t.GetClassroom)
	g.PUT("/classrooms/:id", t.UpdateClassroom)
	g.PATCH("/classrooms/:id", t.UpdateClassroom)
	g.DELETE("/classrooms/:id", t.DeleteClassroom)

	// ---- Seat layout ----
	if cacheMW != nil {
		g.GET("/classrooms/:id/layout", t.GetLayout, cacheMW)
	} else {
		g.GET("/classrooms/:id/layout", t.GetLayout)
	}
	g.PATCH("/classrooms/:id/seats/:seat_id", t.SetSeatUsable)

	// ---- Roster ----
	g.POST("/classrooms/:id/students", t.ImportStudents)
	g.GET("/classrooms/:id/students", t.ListStudents)
	g.DELETE("/students/:id", t.DeleteStudent)

	// ---- Relations ----
	g.POST("/classrooms/:id/relations", t.CreateRelation)
	g.GET("/classrooms/:id/relations", t.ListRelations)
	g.DELETE("/classrooms/:id/relations/:relation_id", t.DeleteRelation)

	// ---- Fixed assignments ----
	g.PUT("/classrooms/:id/fixed", t.PutFixedAssignment)
	g.GET("/classrooms/:id/fixed", t.ListFixedAssignments)
	g.DELETE("/classrooms/:id/fixed/:fixed_id", t.DeleteFixedAssignment)

	// ---- Draw cycle ----
	g.POST("/classrooms/:id/draw/start", t.StartDraw)
	g.POST("/classrooms/:id/draw/stop", t.StopDraw)
	g.POST("/classrooms/:id/draw/assign-all", t.AssignAll)
	g.POST("/classrooms/:id/draw/reset", t.ResetAssignments)
	g.GET("/classrooms/:id/draw/state", t.DrawState)
	g.GET("/classrooms/:id/draw/check", t.CheckConstraint)
	g.GET("/classrooms/:id/assignments", t.AssignmentHistory)
}
