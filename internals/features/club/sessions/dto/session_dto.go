// internals/features/club/sessions/dto/session_dto.go
package dto

import "time"

type AttendeeItem struct {
	MemberID    int64     `json:"member_id"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Method      string    `json:"method"`
	CheckedInAt time.Time `json:"checked_in_at"`
}

type NoteView struct {
	Text      string    `json:"text"`
	CoachName string    `json:"coach_name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionView is the shared session page payload: the dated session,
// its class, who is on the mat and the coach's note.
type SessionView struct {
	SessionID        int64          `json:"session_id"`
	SessionDate      string         `json:"session_date"`
	ClassID          int64          `json:"class_id"`
	ClassName        string         `json:"class_name"`
	StartTime        string         `json:"start_time"`
	EndTime          string         `json:"end_time"`
	Judoka           []AttendeeItem `json:"judoka"`
	Coaches          []AttendeeItem `json:"coaches"`
	Note             *NoteView      `json:"note,omitempty"`
	AlreadyCheckedIn bool           `json:"already_checked_in"`
}

type AddAttendanceRequest struct {
	MemberID int64 `json:"member_id" validate:"required,gt=0"`
}

type ScanRequest struct {
	Payload string `json:"payload" validate:"required"`
}

type CardScanRequest struct {
	CardCode string `json:"card_code" validate:"required"`
}

type NoteRequest struct {
	Text string `json:"text"`
}
