// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"dojoku_backend/internals/configs"
	authModel "dojoku_backend/internals/features/members/auth/model"
	helper "dojoku_backend/internals/helpers"
)

// AuthMiddleware verifies the access token (cookie or bearer), rejects
// blacklisted tokens and stores the member identity in Locals.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := helper.GetRawAccessToken(c)
		if tokenString == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing token")
		}

		// Blacklist check (once per request)
		if c.Locals("token_checked") == nil {
			var count int64
			if err := db.Model(&authModel.TokenBlacklist{}).
				Where("token_blacklist_token = ?", tokenString).
				Count(&count).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
			}
			if count > 0 {
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - token is blacklisted")
			}
			c.Locals("token_checked", true)
		}

		secretKey := configs.JWTSecret
		if secretKey == "" {
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT secret")
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(secretKey), nil
		}); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - token parse error")
		}

		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - token expired")
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing subject")
		}
		role, _ := claims["role"].(string)
		name, _ := claims["name"].(string)

		c.Locals("member_id", sub)
		c.Locals("memberRole", role)
		c.Locals("member_name", name)
		helper.SetRawAccessToken(c, tokenString)

		return c.Next()
	}
}

// validateTokenExpiry checks the exp claim with a small leeway.
func validateTokenExpiry(claims jwt.MapClaims, leeway time.Duration) error {
	expRaw, ok := claims["exp"]
	if !ok {
		return fmt.Errorf("exp claim missing")
	}
	expFloat, ok := expRaw.(float64)
	if !ok {
		return fmt.Errorf("exp claim malformed")
	}
	expAt := time.Unix(int64(expFloat), 0)
	if time.Now().After(expAt.Add(leeway)) {
		return fmt.Errorf("token expired at %s", expAt)
	}
	return nil
}
