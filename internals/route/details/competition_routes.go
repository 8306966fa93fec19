// internals/route/details/competition_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	competitionController "dojoku_backend/internals/features/competitions/controller"
	authMw "dojoku_backend/internals/middlewares/auth"
)

// CompetitionSelfRoutes: members browse competitions; judoka manage
// their own entries.
func CompetitionSelfRoutes(u fiber.Router, db *gorm.DB) {
	ctl := competitionController.NewCompetitionController(db)
	judokaOnly := authMw.OnlyRoles("competition entries belong to judoka", "judoka")

	u.Get("/competitions", ctl.ListCompetitions)
	u.Post("/profile/competitions", judokaOnly, ctl.UpsertEntry)
	u.Delete("/profile/competitions/:entryId", judokaOnly, ctl.DeleteEntry)
}

// CoachCompetitionRoutes: reference-data management.
func CoachCompetitionRoutes(c fiber.Router, db *gorm.DB) {
	ctl := competitionController.NewCompetitionController(db)

	c.Get("/competitions", ctl.ListCompetitions)
	c.Post("/competitions", ctl.CreateCompetition)
}
