// file: internals/helpers/token.go
package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const LocRawToken = "raw_token"

// GetRawAccessToken returns the access token from:
// 1) cookie "access_token"
// 2) Locals("raw_token") set by the auth middleware
// 3) Authorization header "Bearer <token>"
func GetRawAccessToken(c *fiber.Ctx) string {
	if v := strings.TrimSpace(c.Cookies("access_token")); v != "" {
		return v
	}
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	const p = "Bearer "
	auth := c.Get("Authorization")
	if len(auth) > len(p) && strings.HasPrefix(auth, p) {
		return strings.TrimSpace(auth[len(p):])
	}
	return ""
}

func GetRefreshTokenFromCookie(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Cookies("refresh_token"))
}

func SetRawAccessToken(c *fiber.Ctx, raw string) {
	if strings.TrimSpace(raw) != "" {
		c.Locals(LocRawToken, strings.TrimSpace(raw))
	}
}

// GetMemberID reads the acting member id stored in Locals by the auth
// middleware.
func GetMemberID(c *fiber.Ctx) (int64, error) {
	v, ok := c.Locals("member_id").(string)
	if !ok || v == "" {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "missing member id in context")
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "invalid member id in context")
	}
	return id, nil
}

// GetMemberRole reads the acting member's role from Locals.
func GetMemberRole(c *fiber.Ctx) string {
	if v, ok := c.Locals("memberRole").(string); ok {
		return v
	}
	return ""
}
