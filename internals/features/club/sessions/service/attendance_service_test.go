package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	classModel "dojoku_backend/internals/features/club/classes/model"
	sessionModel "dojoku_backend/internals/features/club/sessions/model"
	memberModel "dojoku_backend/internals/features/members/member/model"
	"dojoku_backend/internals/helpers/errs"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&memberModel.MemberModel{},
		&classModel.ClassModel{},
		&sessionModel.ClassSessionModel{},
		&sessionModel.AttendanceModel{},
		&sessionModel.SessionNoteModel{},
	))
	return db
}

func seedClass(t *testing.T, db *gorm.DB) classModel.ClassModel {
	t.Helper()
	cls := classModel.ClassModel{
		ClassName:      "Kids 6-11",
		ClassDayOfWeek: 1,
		ClassStartTime: "16:30",
		ClassEndTime:   "17:30",
	}
	require.NoError(t, db.Create(&cls).Error)
	return cls
}

func seedJudoka(t *testing.T, db *gorm.DB, name, jsa string) memberModel.MemberModel {
	t.Helper()
	m := memberModel.MemberModel{
		MemberName:      &name,
		MemberRole:      memberModel.MemberRoleJudoka,
		MemberJSANumber: &jsa,
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func TestEnsureSessionIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttendanceService(db)
	cls := seedClass(t, db)

	first, err := svc.EnsureSession(context.Background(), cls.ClassID, "2026-08-31")
	require.NoError(t, err)
	second, err := svc.EnsureSession(context.Background(), cls.ClassID, "2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)

	other, err := svc.EnsureSession(context.Background(), cls.ClassID, "2026-09-07")
	require.NoError(t, err)
	assert.NotEqual(t, first.SessionID, other.SessionID)

	var count int64
	require.NoError(t, db.Model(&sessionModel.ClassSessionModel{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestEnsureSessionUnknownClass(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttendanceService(db)

	_, err := svc.EnsureSession(context.Background(), 999, "2026-08-31")
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestEnsureSessionRejectsBadDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttendanceService(db)
	cls := seedClass(t, db)

	_, err := svc.EnsureSession(context.Background(), cls.ClassID, "31/08/2026")
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestCheckInIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttendanceService(db)
	cls := seedClass(t, db)
	judoka := seedJudoka(t, db, "Aiko", "JSA100")

	session, err := svc.EnsureSession(context.Background(), cls.ClassID, "2026-08-31")
	require.NoError(t, err)

	created, err := svc.CheckIn(context.Background(), session.SessionID, judoka.MemberID, sessionModel.AttendanceMethodSelf)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.CheckIn(context.Background(), session.SessionID, judoka.MemberID, sessionModel.AttendanceMethodCoach)
	require.NoError(t, err)
	assert.False(t, created)

	var rows []sessionModel.AttendanceModel
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, sessionModel.AttendanceMethodSelf, rows[0].AttendanceMethod, "original check-in is untouched")
}

func TestCheckInUnknownTargets(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttendanceService(db)
	cls := seedClass(t, db)
	judoka := seedJudoka(t, db, "Aiko", "JSA100")

	session, err := svc.EnsureSession(context.Background(), cls.ClassID, "2026-08-31")
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), 999, judoka.MemberID, sessionModel.AttendanceMethodSelf)
	assert.True(t, errs.IsNotFound(err))

	_, err = svc.CheckIn(context.Background(), session.SessionID, 999, sessionModel.AttendanceMethodSelf)
	assert.True(t, errs.IsNotFound(err))
}

func TestRemoveCheckIn(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttendanceService(db)
	cls := seedClass(t, db)
	judoka := seedJudoka(t, db, "Aiko", "JSA100")

	session, err := svc.EnsureSession(context.Background(), cls.ClassID, "2026-08-31")
	require.NoError(t, err)
	_, err = svc.CheckIn(context.Background(), session.SessionID, judoka.MemberID, sessionModel.AttendanceMethodSelf)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveCheckIn(context.Background(), session.SessionID, judoka.MemberID))

	var count int64
	require.NoError(t, db.Model(&sessionModel.AttendanceModel{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	// removing again is fine
	require.NoError(t, svc.RemoveCheckIn(context.Background(), session.SessionID, judoka.MemberID))
}

func TestUpsertNoteLastWriterWins(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttendanceService(db)
	cls := seedClass(t, db)
	coach := memberModel.MemberModel{
		MemberRole: memberModel.MemberRoleCoach,
	}
	require.NoError(t, db.Create(&coach).Error)

	session, err := svc.EnsureSession(context.Background(), cls.ClassID, "2026-08-31")
	require.NoError(t, err)

	first, err := svc.UpsertNote(context.Background(), session.SessionID, coach.MemberID, "worked on uchi mata")
	require.NoError(t, err)
	second, err := svc.UpsertNote(context.Background(), session.SessionID, coach.MemberID, "switched to newaza")
	require.NoError(t, err)

	assert.Equal(t, first.NoteID, second.NoteID)
	assert.Equal(t, "switched to newaza", second.NoteText)

	var count int64
	require.NoError(t, db.Model(&sessionModel.SessionNoteModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpsertNoteEmptyTextGetsPlaceholder(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttendanceService(db)
	cls := seedClass(t, db)

	session, err := svc.EnsureSession(context.Background(), cls.ClassID, "2026-08-31")
	require.NoError(t, err)

	note, err := svc.UpsertNote(context.Background(), session.SessionID, 1, "   ")
	require.NoError(t, err)
	assert.Equal(t, "(no notes)", note.NoteText)
}

func TestUpsertNoteUnknownSession(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttendanceService(db)

	_, err := svc.UpsertNote(context.Background(), 999, 1, "text")
	assert.True(t, errs.IsNotFound(err))
}

func TestScanCheckIn(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttendanceService(db)
	cls := seedClass(t, db)
	judoka := seedJudoka(t, db, "Aiko", "JSA100")

	session, err := svc.EnsureSession(context.Background(), cls.ClassID, "2026-08-31")
	require.NoError(t, err)

	member, created, err := svc.ScanCheckIn(context.Background(), session.SessionID, "JSA:jsa100")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, judoka.MemberID, member.MemberID)

	_, created, err = svc.ScanCheckIn(context.Background(), session.SessionID, "JSA:JSA100")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestScanRejectsBeforeAnyWrite(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttendanceService(db)
	cls := seedClass(t, db)

	coachName := "Sensei"
	coachJSA := "JSA200"
	coach := memberModel.MemberModel{
		MemberName:      &coachName,
		MemberRole:      memberModel.MemberRoleCoach,
		MemberJSANumber: &coachJSA,
	}
	require.NoError(t, db.Create(&coach).Error)

	session, err := svc.EnsureSession(context.Background(), cls.ClassID, "2026-08-31")
	require.NoError(t, err)

	_, _, err = svc.ScanCheckIn(context.Background(), session.SessionID, "hello world")
	assert.True(t, errs.IsValidation(err))

	_, _, err = svc.ScanCheckIn(context.Background(), session.SessionID, "JSA:NOPE")
	assert.True(t, errs.IsNotFound(err))

	_, _, err = svc.ScanCheckIn(context.Background(), session.SessionID, "JSA:JSA200")
	assert.True(t, errs.IsValidation(err), "coach badges are rejected")

	var count int64
	require.NoError(t, db.Model(&sessionModel.AttendanceModel{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCardCheckIn(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttendanceService(db)
	cls := seedClass(t, db)
	judoka := seedJudoka(t, db, "Aiko", "JSA100")
	card := "CARD-0042"
	require.NoError(t, db.Model(&memberModel.MemberModel{}).
		Where("member_id = ?", judoka.MemberID).
		Update("member_card_code", card).Error)

	session, err := svc.EnsureSession(context.Background(), cls.ClassID, "2026-08-31")
	require.NoError(t, err)

	member, created, err := svc.CardCheckIn(context.Background(), session.SessionID, card)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, judoka.MemberID, member.MemberID)

	_, _, err = svc.CardCheckIn(context.Background(), session.SessionID, "UNKNOWN")
	assert.True(t, errs.IsNotFound(err))

	var count int64
	require.NoError(t, db.Model(&sessionModel.AttendanceModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCardCheckInRejectsCoachBeforeAnyWrite(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttendanceService(db)
	cls := seedClass(t, db)

	coachName := "Sensei"
	coachCard := "CARD-COACH"
	coach := memberModel.MemberModel{
		MemberName:     &coachName,
		MemberRole:     memberModel.MemberRoleCoach,
		MemberCardCode: &coachCard,
	}
	require.NoError(t, db.Create(&coach).Error)

	session, err := svc.EnsureSession(context.Background(), cls.ClassID, "2026-08-31")
	require.NoError(t, err)

	_, _, err = svc.CardCheckIn(context.Background(), session.SessionID, coachCard)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err), "coach cards are not check-in cards")

	var count int64
	require.NoError(t, db.Model(&sessionModel.AttendanceModel{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
