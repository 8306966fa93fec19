package model

import (
	"time"
)

/*
=========================================================

	Enums
	=========================================================
*/
type MemberRole string

const (
	MemberRoleJudoka MemberRole = "judoka"
	MemberRoleCoach  MemberRole = "coach"
)

func (r MemberRole) Valid() bool {
	return r == MemberRoleJudoka || r == MemberRoleCoach
}

/*
=========================================================

	Model
	=========================================================
*/

// MemberModel is one person at the club. A row with a JSA number but no
// email/password is a placeholder created by a coach; the signup claim
// flow attaches credentials to it later.
//
// The PK is a plain autoincrement: the reconciliation engine treats the
// lowest member_id among rows sharing a JSA number as canonical.
type MemberModel struct {
	// PK
	MemberID int64 `gorm:"primaryKey;autoIncrement;column:member_id" json:"member_id"`

	// Identity
	MemberName         *string    `gorm:"type:varchar(100);column:member_name" json:"member_name,omitempty"`
	MemberEmail        *string    `gorm:"type:varchar(255);uniqueIndex:idx_members_email;column:member_email" json:"member_email,omitempty"`
	MemberPasswordHash *string    `gorm:"type:text;column:member_password_hash" json:"-"`
	MemberRole         MemberRole `gorm:"type:varchar(10);not null;default:'judoka';column:member_role" json:"member_role"`

	// Federation identity. Indexed but NOT unique at the DB level:
	// legacy data-entry duplicates are exactly what the claim merge
	// repairs, so they must stay representable. Placeholder creation and
	// claim enforce uniqueness going forward.
	MemberJSANumber *string    `gorm:"type:varchar(32);index:idx_members_jsa_number;column:member_jsa_number" json:"member_jsa_number,omitempty"`
	MemberClaimedAt *time.Time `gorm:"column:member_claimed_at" json:"member_claimed_at,omitempty"`

	// Physical badge card (opaque code, distinct from the JSA number)
	MemberCardCode *string `gorm:"type:varchar(64);uniqueIndex:idx_members_card_code;column:member_card_code" json:"member_card_code,omitempty"`

	MemberProfilePhoto *string `gorm:"type:varchar(255);column:member_profile_photo" json:"member_profile_photo,omitempty"`

	MemberCreatedAt time.Time `gorm:"column:member_created_at;autoCreateTime" json:"member_created_at"`
	MemberUpdatedAt time.Time `gorm:"column:member_updated_at;autoUpdateTime" json:"member_updated_at"`
}

func (MemberModel) TableName() string { return "members" }

// DisplayName resolves what to show for a member (name, else email, else
// the generic fallback used since the first club roster import).
func (m *MemberModel) DisplayName() string {
	if m.MemberName != nil && *m.MemberName != "" {
		return *m.MemberName
	}
	if m.MemberEmail != nil && *m.MemberEmail != "" {
		return *m.MemberEmail
	}
	return "Member"
}

// IsPlaceholder reports whether the row was coach-created and has not
// been claimed through signup yet.
func (m *MemberModel) IsPlaceholder() bool {
	return m.MemberEmail == nil || *m.MemberEmail == ""
}
