// internals/route/details/club_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classController "dojoku_backend/internals/features/club/classes/controller"
	sessionController "dojoku_backend/internals/features/club/sessions/controller"
)

// ClubRoutes: timetable, today's session and self check-in.
func ClubRoutes(u fiber.Router, db *gorm.DB) {
	classes := classController.NewClassController(db)
	sessions := sessionController.NewSessionController(db)

	u.Get("/classes", classes.ListClasses)
	u.Get("/classes/:classId/today", classes.ClassToday)
	u.Post("/classes/:classId/today/checkin", classes.SelfCheckIn)
	u.Get("/sessions/:sessionId", sessions.GetSession)
}

// CoachClubRoutes: session management and the check-in desk.
func CoachClubRoutes(c fiber.Router, db *gorm.DB) {
	classes := classController.NewClassController(db)
	sessions := sessionController.NewSessionController(db)

	c.Get("/classes/today", classes.CoachClassesToday)
	c.Get("/sessions/:sessionId", sessions.CoachGetSession)
	c.Post("/sessions/:sessionId/attendance", sessions.AddAttendance)
	c.Delete("/sessions/:sessionId/attendance/:memberId", sessions.RemoveAttendance)
	c.Post("/sessions/:sessionId/attend", sessions.Attend)
	c.Post("/sessions/:sessionId/scan", sessions.Scan)
	c.Post("/sessions/:sessionId/card-scan", sessions.CardScan)
	c.Put("/sessions/:sessionId/note", sessions.UpsertNote)
}
