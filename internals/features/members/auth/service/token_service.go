// internals/features/members/auth/service/token_service.go
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"dojoku_backend/internals/configs"
	authModel "dojoku_backend/internals/features/members/auth/model"
	memberModel "dojoku_backend/internals/features/members/member/model"
	"dojoku_backend/internals/helpers/errs"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

func buildClaims(m *memberModel.MemberModel, ttl time.Duration) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":  strconv.FormatInt(m.MemberID, 10),
		"role": string(m.MemberRole),
		"name": m.DisplayName(),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
}

func signToken(claims jwt.MapClaims, secret string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func hashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// IssueTokens mints an access/refresh pair for a member and records the
// refresh token hash so it can be rotated and revoked server-side.
func IssueTokens(ctx context.Context, db *gorm.DB, m *memberModel.MemberModel) (string, string, error) {
	access, err := signToken(buildClaims(m, accessTokenTTL), configs.JWTSecret)
	if err != nil {
		return "", "", err
	}
	refresh, err := signToken(buildClaims(m, refreshTokenTTL), configs.JWTRefreshSecret)
	if err != nil {
		return "", "", err
	}
	row := authModel.RefreshTokenModel{
		RefreshTokenMemberID:  m.MemberID,
		RefreshTokenHash:      hashRefreshToken(refresh),
		RefreshTokenExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func SetAuthCookies(c *fiber.Ctx, access, refresh string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    access,
		HTTPOnly: true,
		Secure:   configs.CookieSecure,
		SameSite: "Lax",
		Path:     "/",
		Expires:  time.Now().Add(accessTokenTTL),
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refresh,
		HTTPOnly: true,
		Secure:   configs.CookieSecure,
		SameSite: "Lax",
		Path:     "/",
		Expires:  time.Now().Add(refreshTokenTTL),
	})
}

func ClearAuthCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			HTTPOnly: true,
			Secure:   configs.CookieSecure,
			SameSite: "Lax",
			Path:     "/",
			Expires:  expired,
		})
	}
}

// RotateRefreshToken validates a raw refresh token, retires its stored
// hash and returns the member it belongs to. A token that was already
// rotated (or never issued) is rejected.
func RotateRefreshToken(ctx context.Context, db *gorm.DB, raw string) (*memberModel.MemberModel, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(configs.JWTRefreshSecret), nil
	})
	if err != nil {
		return nil, errs.NewForbidden("invalid refresh token")
	}

	hash := hashRefreshToken(raw)
	var row authModel.RefreshTokenModel
	if err := db.WithContext(ctx).
		Where("refresh_token_hash = ? AND refresh_token_expires_at > ?", hash, time.Now()).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewForbidden("refresh token is no longer valid")
		}
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(&authModel.RefreshTokenModel{}, row.RefreshTokenID).Error; err != nil {
		return nil, err
	}

	var m memberModel.MemberModel
	if err := db.WithContext(ctx).First(&m, row.RefreshTokenMemberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewForbidden("account no longer exists")
		}
		return nil, err
	}
	return &m, nil
}

// BlacklistAccessToken voids an access token until its natural expiry.
func BlacklistAccessToken(ctx context.Context, db *gorm.DB, raw string) error {
	if raw == "" {
		return nil
	}
	expiresAt := time.Now().Add(accessTokenTTL)
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, _, err := parser.ParseUnverified(raw, claims); err == nil {
		if exp, ok := claims["exp"].(float64); ok {
			expiresAt = time.Unix(int64(exp), 0)
		}
	}
	row := authModel.TokenBlacklist{
		TokenBlacklistToken:     raw,
		TokenBlacklistExpiresAt: expiresAt,
	}
	return db.WithContext(ctx).Create(&row).Error
}

// DropRefreshToken retires a presented refresh token without judging
// its validity; logout should not fail on a stale cookie.
func DropRefreshToken(ctx context.Context, db *gorm.DB, raw string) error {
	if raw == "" {
		return nil
	}
	return db.WithContext(ctx).
		Where("refresh_token_hash = ?", hashRefreshToken(raw)).
		Delete(&authModel.RefreshTokenModel{}).Error
}
