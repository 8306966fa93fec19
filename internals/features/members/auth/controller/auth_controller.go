// internals/features/members/auth/controller/auth_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"dojoku_backend/internals/features/members/auth/dto"
	"dojoku_backend/internals/features/members/auth/service"
	memberModel "dojoku_backend/internals/features/members/member/model"
	helper "dojoku_backend/internals/helpers"
	"dojoku_backend/internals/helpers/errs"
)

type AuthController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Claims    *service.ClaimService
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{
		DB:        db,
		Validator: validator.New(),
		Claims:    service.NewClaimService(db),
	}
}

// Register runs the signup claim flow and logs the member in.
func (ctl *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "email, password and JSA number are required")
	}

	res, err := ctl.Claims.Claim(c.Context(), service.ClaimInput{
		JSANumber: req.JSANumber,
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
	})
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), errs.Message(err))
	}

	var m memberModel.MemberModel
	if err := ctl.DB.WithContext(c.Context()).First(&m, res.MemberID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load account")
	}
	access, refresh, err := service.IssueTokens(c.Context(), ctl.DB, &m)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to issue tokens")
	}
	service.SetAuthCookies(c, access, refresh)

	return helper.JsonCreated(c, "welcome to the club", dto.AuthResponse{
		MemberID:    res.MemberID,
		Name:        res.Name,
		Role:        string(res.Role),
		AccessToken: access,
	})
}

func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "email and password are required")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var m memberModel.MemberModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("member_email = ?", email).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "incorrect email or password")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to look up account")
	}
	if m.MemberPasswordHash == nil || !service.CheckPassword(*m.MemberPasswordHash, req.Password) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "incorrect email or password")
	}

	access, refresh, err := service.IssueTokens(c.Context(), ctl.DB, &m)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to issue tokens")
	}
	service.SetAuthCookies(c, access, refresh)

	return helper.JsonOK(c, "login successful", dto.AuthResponse{
		MemberID:    m.MemberID,
		Name:        m.DisplayName(),
		Role:        string(m.MemberRole),
		AccessToken: access,
	})
}

// Logout blacklists the current access token, drops the presented
// refresh token and clears both cookies. It succeeds even when the
// caller is not authenticated.
func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	if raw := helper.GetRawAccessToken(c); raw != "" {
		if err := service.BlacklistAccessToken(c.Context(), ctl.DB, raw); err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to log out")
		}
	}
	if refresh := helper.GetRefreshTokenFromCookie(c); refresh != "" {
		if err := service.DropRefreshToken(c.Context(), ctl.DB, refresh); err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to log out")
		}
	}
	service.ClearAuthCookies(c)
	return helper.JsonOK(c, "logged out", nil)
}

// RefreshToken rotates the refresh token and mints a fresh pair.
func (ctl *AuthController) RefreshToken(c *fiber.Ctx) error {
	raw := helper.GetRefreshTokenFromCookie(c)
	if raw == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "missing refresh token")
	}
	m, err := service.RotateRefreshToken(c.Context(), ctl.DB, raw)
	if err != nil {
		status := errs.HTTPStatus(err)
		if status == fiber.StatusForbidden {
			status = fiber.StatusUnauthorized
		}
		return helper.JsonError(c, status, errs.Message(err))
	}

	access, refresh, err := service.IssueTokens(c.Context(), ctl.DB, m)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to issue tokens")
	}
	service.SetAuthCookies(c, access, refresh)

	return helper.JsonOK(c, "token refreshed", dto.AuthResponse{
		MemberID:    m.MemberID,
		Name:        m.DisplayName(),
		Role:        string(m.MemberRole),
		AccessToken: access,
	})
}

// Me returns the authenticated member's identity.
func (ctl *AuthController) Me(c *fiber.Ctx) error {
	memberID, err := helper.GetMemberID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	var m memberModel.MemberModel
	if err := ctl.DB.WithContext(c.Context()).First(&m, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "account no longer exists")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load account")
	}
	return helper.JsonOK(c, "ok", m)
}
