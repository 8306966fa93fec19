// internals/route/details/member_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	memberController "dojoku_backend/internals/features/members/member/controller"
)

// MemberRoutes: the member's own profile area.
func MemberRoutes(u fiber.Router, db *gorm.DB) {
	ctl := memberController.NewMemberController(db)

	u.Get("/profile", ctl.Profile)
	u.Post("/profile/photo", ctl.UploadProfilePhoto)
	u.Get("/profile/attendance", ctl.ProfileAttendance)
	u.Get("/profile/badge", ctl.Badge)
}

// CoachMemberRoutes: roster management.
func CoachMemberRoutes(c fiber.Router, db *gorm.DB) {
	ctl := memberController.NewMemberController(db)

	c.Get("/members", ctl.ListMembers)
	c.Post("/members", ctl.CreateMember)
	c.Get("/members/:memberId", ctl.GetMember)
	c.Get("/members/:memberId/attendance", ctl.MemberAttendance)
	c.Post("/members/:memberId/card", ctl.AssignCard)
}
