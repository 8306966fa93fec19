package model

import "time"

// TokenBlacklist holds access tokens invalidated by logout until their
// natural expiry; the auth middleware rejects anything listed here.
type TokenBlacklist struct {
	TokenBlacklistID        int64     `gorm:"primaryKey;autoIncrement;column:token_blacklist_id" json:"token_blacklist_id"`
	TokenBlacklistToken     string    `gorm:"type:text;not null;column:token_blacklist_token" json:"-"`
	TokenBlacklistExpiresAt time.Time `gorm:"not null;index:idx_token_blacklist_expires;column:token_blacklist_expires_at" json:"token_blacklist_expires_at"`
	TokenBlacklistCreatedAt time.Time `gorm:"autoCreateTime;column:token_blacklist_created_at" json:"token_blacklist_created_at"`
}

func (TokenBlacklist) TableName() string { return "token_blacklist" }
