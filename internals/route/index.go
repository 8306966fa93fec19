// internals/route/index.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authMw "dojoku_backend/internals/middlewares/auth"
	"dojoku_backend/internals/route/details"
)

// SetupRoutes wires the three route groups:
//
//	/api/auth  public (register/login with their own rate limits)
//	/api/u     any authenticated member
//	/api/c     coaches only
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api")

	details.AuthRoutes(api, db)

	u := api.Group("/u", authMw.AuthMiddleware(db))
	details.MemberRoutes(u, db)
	details.ClubRoutes(u, db)
	details.CompetitionSelfRoutes(u, db)
	details.FightSelfRoutes(u, db)

	c := api.Group("/c",
		authMw.AuthMiddleware(db),
		authMw.OnlyRoles("this area is for coaches", "coach"),
	)
	details.CoachMemberRoutes(c, db)
	details.CoachClubRoutes(c, db)
	details.CoachCompetitionRoutes(c, db)
	details.CoachFightRoutes(c, db)
}
