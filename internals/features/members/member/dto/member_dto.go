// internals/features/members/member/dto/member_dto.go
package dto

import "time"

// CreateMemberRequest is a coach-entered placeholder: a name and a JSA
// number, no credentials.
type CreateMemberRequest struct {
	Name      string `json:"name" validate:"required"`
	JSANumber string `json:"jsa_number" validate:"required"`
	Role      string `json:"role" validate:"omitempty,oneof=judoka coach"`
}

type AssignCardRequest struct {
	CardCode string `json:"card_code" validate:"required"`
}

// MemberSummary is the roster line item.
type MemberSummary struct {
	MemberID  int64   `json:"member_id"`
	Name      string  `json:"name"`
	Email     *string `json:"email,omitempty"`
	Role      string  `json:"role"`
	JSANumber *string `json:"jsa_number,omitempty"`
	Claimed   bool    `json:"claimed"`
	CardCode  *string `json:"card_code,omitempty"`
}

type MemberStats struct {
	SessionsAttended int64 `json:"sessions_attended"`
	CompetitionCount int64 `json:"competition_count"`
	FightUploadCount int64 `json:"fight_upload_count"`
}

// AttendanceHistoryItem is one attended session, joined with its class.
type AttendanceHistoryItem struct {
	SessionID   int64     `json:"session_id"`
	SessionDate string    `json:"session_date"`
	ClassName   string    `json:"class_name"`
	CheckedInAt time.Time `json:"checked_in_at"`
	Method      string    `json:"method"`
}
