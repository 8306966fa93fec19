package model

import "time"

// RefreshTokenModel stores a SHA-256 hash of each issued refresh token.
// Rotation deletes the old row and inserts the new one.
type RefreshTokenModel struct {
	RefreshTokenID        int64     `gorm:"primaryKey;autoIncrement;column:refresh_token_id" json:"refresh_token_id"`
	RefreshTokenMemberID  int64     `gorm:"not null;index:idx_refresh_tokens_member;column:refresh_token_member_id" json:"refresh_token_member_id"`
	RefreshTokenHash      string    `gorm:"type:varchar(64);not null;index:idx_refresh_tokens_hash;column:refresh_token_hash" json:"-"`
	RefreshTokenExpiresAt time.Time `gorm:"not null;column:refresh_token_expires_at" json:"refresh_token_expires_at"`
	RefreshTokenCreatedAt time.Time `gorm:"autoCreateTime;column:refresh_token_created_at" json:"refresh_token_created_at"`
}

func (RefreshTokenModel) TableName() string { return "refresh_tokens" }
