// internals/route/details/fight_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	fightController "dojoku_backend/internals/features/fights/controller"
	authMw "dojoku_backend/internals/middlewares/auth"
)

// FightSelfRoutes: a judoka's own video uploads.
func FightSelfRoutes(u fiber.Router, db *gorm.DB) {
	ctl := fightController.NewFightController(db)
	judokaOnly := authMw.OnlyRoles("fight review is for judoka", "judoka")

	u.Get("/fights", judokaOnly, ctl.ListOwn)
	u.Post("/fights", judokaOnly, ctl.Upload)
	u.Delete("/fights/:uploadId", judokaOnly, ctl.Delete)
}

// CoachFightRoutes: the review queue.
func CoachFightRoutes(c fiber.Router, db *gorm.DB) {
	ctl := fightController.NewFightController(db)

	c.Get("/fights/pending", ctl.ListPending)
	c.Post("/fights/:uploadId/feedback", ctl.Review)
}
