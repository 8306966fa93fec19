// internals/features/club/sessions/service/attendance_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	classModel "dojoku_backend/internals/features/club/classes/model"
	sessionModel "dojoku_backend/internals/features/club/sessions/model"
	memberModel "dojoku_backend/internals/features/members/member/model"
	"dojoku_backend/internals/helpers/errs"
)

// AttendanceService owns session materialization, check-ins and session
// notes. Every operation here is idempotent: repeating a call converges
// on the same state instead of failing or duplicating rows.
type AttendanceService struct {
	DB *gorm.DB
}

func NewAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{DB: db}
}

// EnsureSession returns the session row for (classID, date), creating it
// if this is the first access. Two racing creators both end up with the
// same row: the loser of the unique-index race re-reads.
func (s *AttendanceService) EnsureSession(ctx context.Context, classID int64, date string) (*sessionModel.ClassSessionModel, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, errs.NewValidation("date must be formatted YYYY-MM-DD")
	}

	var cls classModel.ClassModel
	if err := s.DB.WithContext(ctx).First(&cls, classID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("class not found")
		}
		return nil, err
	}

	var session sessionModel.ClassSessionModel
	err := s.DB.WithContext(ctx).
		Where("session_class_id = ? AND session_date = ?", classID, date).
		First(&session).Error
	if err == nil {
		return &session, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	session = sessionModel.ClassSessionModel{SessionClassID: classID, SessionDate: date}
	if err := s.DB.WithContext(ctx).Create(&session).Error; err != nil {
		if isDuplicateKey(err) {
			if err := s.DB.WithContext(ctx).
				Where("session_class_id = ? AND session_date = ?", classID, date).
				First(&session).Error; err != nil {
				return nil, err
			}
			return &session, nil
		}
		return nil, err
	}
	return &session, nil
}

// CheckIn records a member in a session. The bool reports whether a new
// row was created; an existing check-in is left untouched and reported
// as created=false.
func (s *AttendanceService) CheckIn(ctx context.Context, sessionID, memberID int64, method sessionModel.AttendanceMethod) (bool, error) {
	if !method.Valid() {
		return false, errs.NewValidation("unknown check-in method")
	}

	var session sessionModel.ClassSessionModel
	if err := s.DB.WithContext(ctx).First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, errs.NewNotFound("session not found")
		}
		return false, err
	}
	var member memberModel.MemberModel
	if err := s.DB.WithContext(ctx).First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, errs.NewNotFound("member not found")
		}
		return false, err
	}

	row := sessionModel.AttendanceModel{
		AttendanceSessionID:   sessionID,
		AttendanceMemberID:    memberID,
		AttendanceCheckedInAt: time.Now(),
		AttendanceMethod:      method,
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		if isDuplicateKey(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RemoveCheckIn deletes a member's check-in from a session. Removing an
// absent check-in is not an error.
func (s *AttendanceService) RemoveCheckIn(ctx context.Context, sessionID, memberID int64) error {
	return s.DB.WithContext(ctx).
		Where("attendance_session_id = ? AND attendance_member_id = ?", sessionID, memberID).
		Delete(&sessionModel.AttendanceModel{}).Error
}

// UpsertNote replaces the session note wholesale. An empty text stores
// the placeholder the coaches are used to seeing.
func (s *AttendanceService) UpsertNote(ctx context.Context, sessionID, coachID int64, text string) (*sessionModel.SessionNoteModel, error) {
	var session sessionModel.ClassSessionModel
	if err := s.DB.WithContext(ctx).First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("session not found")
		}
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		text = "(no notes)"
	}

	note := sessionModel.SessionNoteModel{
		NoteSessionID: sessionID,
		NoteCoachID:   coachID,
		NoteText:      text,
		NoteUpdatedAt: time.Now(),
	}
	if err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "note_session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"note_coach_id", "note_text", "note_updated_at"}),
		}).
		Create(&note).Error; err != nil {
		return nil, err
	}

	var saved sessionModel.SessionNoteModel
	if err := s.DB.WithContext(ctx).
		Where("note_session_id = ?", sessionID).
		First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// ResolveBadge maps a scanned QR payload ("JSA:<number>") to the judoka
// it identifies. Coaches do not appear on the scan path.
func (s *AttendanceService) ResolveBadge(ctx context.Context, payload string) (*memberModel.MemberModel, error) {
	payload = strings.TrimSpace(payload)
	if !strings.HasPrefix(payload, "JSA:") {
		return nil, errs.NewValidation("not a member badge")
	}
	number := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(payload, "JSA:")))
	if number == "" {
		return nil, errs.NewValidation("not a member badge")
	}

	var member memberModel.MemberModel
	if err := s.DB.WithContext(ctx).
		Where("UPPER(member_jsa_number) = ?", number).
		Order("member_id ASC").
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("no member with that JSA number")
		}
		return nil, err
	}
	if member.MemberRole != memberModel.MemberRoleJudoka {
		return nil, errs.NewValidation("badge does not belong to a judoka")
	}
	return &member, nil
}

// ScanCheckIn resolves a badge payload and checks the judoka into the
// session. Both failures happen before any write.
func (s *AttendanceService) ScanCheckIn(ctx context.Context, sessionID int64, payload string) (*memberModel.MemberModel, bool, error) {
	member, err := s.ResolveBadge(ctx, payload)
	if err != nil {
		return nil, false, err
	}
	created, err := s.CheckIn(ctx, sessionID, member.MemberID, sessionModel.AttendanceMethodScan)
	if err != nil {
		return nil, false, err
	}
	return member, created, nil
}

// CardCheckIn checks a judoka in by their physical card code. Like the
// QR path, coaches do not check in this way.
func (s *AttendanceService) CardCheckIn(ctx context.Context, sessionID int64, cardCode string) (*memberModel.MemberModel, bool, error) {
	cardCode = strings.TrimSpace(cardCode)
	if cardCode == "" {
		return nil, false, errs.NewValidation("card code is required")
	}

	var member memberModel.MemberModel
	if err := s.DB.WithContext(ctx).
		Where("member_role = ? AND member_card_code = ?", string(memberModel.MemberRoleJudoka), cardCode).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, errs.NewNotFound("card is not assigned to a judoka")
		}
		return nil, false, err
	}
	created, err := s.CheckIn(ctx, sessionID, member.MemberID, sessionModel.AttendanceMethodScan)
	if err != nil {
		return nil, false, err
	}
	return &member, created, nil
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "violates unique constraint") ||
		strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "sqlstate 23505")
}
