// internals/route/details/auth_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "dojoku_backend/internals/features/members/auth/controller"
	"dojoku_backend/internals/middlewares"
	authMw "dojoku_backend/internals/middlewares/auth"
)

func AuthRoutes(api fiber.Router, db *gorm.DB) {
	ctl := authController.NewAuthController(db)

	auth := api.Group("/auth")
	auth.Post("/register", middlewares.RegisterRateLimiter(), ctl.Register)
	auth.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)
	auth.Post("/logout", ctl.Logout)
	auth.Post("/refresh-token", ctl.RefreshToken)
	auth.Get("/me", authMw.AuthMiddleware(db), ctl.Me)
}
