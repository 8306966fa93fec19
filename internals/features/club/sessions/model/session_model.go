package model

import (
	"time"
)

/*
=========================================================

	Enums
	=========================================================
*/
type AttendanceMethod string

const (
	AttendanceMethodSelf        AttendanceMethod = "self"
	AttendanceMethodCoach       AttendanceMethod = "coach"
	AttendanceMethodCoachAttend AttendanceMethod = "coach_attend"
	AttendanceMethodScan        AttendanceMethod = "scan"
)

func (m AttendanceMethod) Valid() bool {
	switch m {
	case AttendanceMethodSelf, AttendanceMethodCoach, AttendanceMethodCoachAttend, AttendanceMethodScan:
		return true
	}
	return false
}

/*
=========================================================

	Models
	=========================================================
*/

// ClassSessionModel is one dated occurrence of a class. Rows are created
// lazily on first access to a (class, date) pair; the unique index keeps
// racing creators from producing two rows.
type ClassSessionModel struct {
	SessionID      int64  `gorm:"primaryKey;autoIncrement;column:session_id" json:"session_id"`
	SessionClassID int64  `gorm:"not null;uniqueIndex:idx_sessions_class_date;column:session_class_id" json:"session_class_id"`
	SessionDate    string `gorm:"type:varchar(10);not null;uniqueIndex:idx_sessions_class_date;column:session_date" json:"session_date"` // "2006-01-02"
}

func (ClassSessionModel) TableName() string { return "class_sessions" }

// AttendanceModel joins a session and a member. At most one row per
// (session, member); a repeat check-in is a no-op, not an error.
type AttendanceModel struct {
	AttendanceID          int64            `gorm:"primaryKey;autoIncrement;column:attendance_id" json:"attendance_id"`
	AttendanceSessionID   int64            `gorm:"not null;uniqueIndex:idx_attendance_session_member;column:attendance_session_id" json:"attendance_session_id"`
	AttendanceMemberID    int64            `gorm:"not null;uniqueIndex:idx_attendance_session_member;index:idx_attendance_member;column:attendance_member_id" json:"attendance_member_id"`
	AttendanceCheckedInAt time.Time        `gorm:"not null;column:attendance_checked_in_at" json:"attendance_checked_in_at"`
	AttendanceMethod      AttendanceMethod `gorm:"type:varchar(16);not null;default:'self';column:attendance_method" json:"attendance_method"`
}

func (AttendanceModel) TableName() string { return "attendance" }

// SessionNoteModel holds the coach's free-text note for a session.
// One row per session, last writer wins.
type SessionNoteModel struct {
	NoteID        int64     `gorm:"primaryKey;autoIncrement;column:note_id" json:"note_id"`
	NoteSessionID int64     `gorm:"not null;uniqueIndex:idx_session_notes_session;column:note_session_id" json:"note_session_id"`
	NoteCoachID   int64     `gorm:"not null;column:note_coach_id" json:"note_coach_id"`
	NoteText      string    `gorm:"type:text;not null;column:note_text" json:"note_text"`
	NoteUpdatedAt time.Time `gorm:"not null;column:note_updated_at" json:"note_updated_at"`
}

func (SessionNoteModel) TableName() string { return "session_notes" }
