// internals/features/club/sessions/service/session_view.go
package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	classModel "dojoku_backend/internals/features/club/classes/model"
	"dojoku_backend/internals/features/club/sessions/dto"
	sessionModel "dojoku_backend/internals/features/club/sessions/model"
	memberModel "dojoku_backend/internals/features/members/member/model"
	"dojoku_backend/internals/helpers/errs"
)

// SessionView assembles the session page for a viewer: attendees split
// by role, the coach note, and whether the viewer is already on the
// list.
func (s *AttendanceService) SessionView(ctx context.Context, sessionID, viewerID int64) (*dto.SessionView, error) {
	var session sessionModel.ClassSessionModel
	if err := s.DB.WithContext(ctx).First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("session not found")
		}
		return nil, err
	}
	var cls classModel.ClassModel
	if err := s.DB.WithContext(ctx).First(&cls, session.SessionClassID).Error; err != nil {
		return nil, err
	}

	type attendeeRow struct {
		MemberID    int64
		MemberName  *string
		MemberEmail *string
		MemberRole  string
		Method      string
		CheckedInAt time.Time
	}
	var rows []attendeeRow
	if err := s.DB.WithContext(ctx).
		Table("attendance").
		Select(`members.member_id,
			members.member_name,
			members.member_email,
			members.member_role,
			attendance.attendance_method AS method,
			attendance.attendance_checked_in_at AS checked_in_at`).
		Joins("JOIN members ON members.member_id = attendance.attendance_member_id").
		Where("attendance.attendance_session_id = ?", sessionID).
		Order("attendance.attendance_checked_in_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	view := &dto.SessionView{
		SessionID:   session.SessionID,
		SessionDate: session.SessionDate,
		ClassID:     cls.ClassID,
		ClassName:   cls.ClassName,
		StartTime:   cls.ClassStartTime,
		EndTime:     cls.ClassEndTime,
		Judoka:      []dto.AttendeeItem{},
		Coaches:     []dto.AttendeeItem{},
	}
	for _, r := range rows {
		display := memberModel.MemberModel{
			MemberID:    r.MemberID,
			MemberName:  r.MemberName,
			MemberEmail: r.MemberEmail,
		}
		item := dto.AttendeeItem{
			MemberID:    r.MemberID,
			Name:        display.DisplayName(),
			Role:        r.MemberRole,
			Method:      r.Method,
			CheckedInAt: r.CheckedInAt,
		}
		if r.MemberRole == string(memberModel.MemberRoleCoach) {
			view.Coaches = append(view.Coaches, item)
		} else {
			view.Judoka = append(view.Judoka, item)
		}
		if r.MemberID == viewerID {
			view.AlreadyCheckedIn = true
		}
	}

	var note sessionModel.SessionNoteModel
	err := s.DB.WithContext(ctx).
		Where("note_session_id = ?", sessionID).
		First(&note).Error
	switch {
	case err == nil:
		var coach memberModel.MemberModel
		coachName := "Coach"
		if err := s.DB.WithContext(ctx).First(&coach, note.NoteCoachID).Error; err == nil {
			coachName = coach.DisplayName()
		}
		view.Note = &dto.NoteView{
			Text:      note.NoteText,
			CoachName: coachName,
			UpdatedAt: note.NoteUpdatedAt,
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no note yet
	default:
		return nil, err
	}

	return view, nil
}

// HasAttended reports whether a member is checked into a session.
func (s *AttendanceService) HasAttended(ctx context.Context, sessionID, memberID int64) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).
		Model(&sessionModel.AttendanceModel{}).
		Where("attendance_session_id = ? AND attendance_member_id = ?", sessionID, memberID).
		Count(&n).Error
	return n > 0, err
}
