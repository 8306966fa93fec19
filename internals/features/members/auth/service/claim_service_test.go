package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	sessionModel "dojoku_backend/internals/features/club/sessions/model"
	competitionModel "dojoku_backend/internals/features/competitions/model"
	fightModel "dojoku_backend/internals/features/fights/model"
	authModel "dojoku_backend/internals/features/members/auth/model"
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
		&sessionModel.ClassSessionModel{},
		&sessionModel.AttendanceModel{},
		&sessionModel.SessionNoteModel{},
		&competitionModel.CompetitionModel{},
		&competitionModel.MemberCompetitionModel{},
		&fightModel.FightUploadModel{},
		&fightModel.FightFeedbackModel{},
		&authModel.RefreshTokenModel{},
	))
	return db
}

func seedMember(t *testing.T, db *gorm.DB, m memberModel.MemberModel) memberModel.MemberModel {
	t.Helper()
	require.NoError(t, db.Create(&m).Error)
	return m
}

func strPtr(s string) *string { return &s }

func TestClaimCreatesNewMember(t *testing.T) {
	db := newTestDB(t)
	svc := NewClaimService(db)

	res, err := svc.Claim(context.Background(), ClaimInput{
		JSANumber: " jsa 123 ",
		Email:     " Alice@Example.COM ",
		Password:  "secret-pass",
		Name:      "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", res.Name)
	assert.Equal(t, memberModel.MemberRoleJudoka, res.Role)

	var m memberModel.MemberModel
	require.NoError(t, db.First(&m, res.MemberID).Error)
	require.NotNil(t, m.MemberJSANumber)
	assert.Equal(t, "JSA123", *m.MemberJSANumber)
	require.NotNil(t, m.MemberEmail)
	assert.Equal(t, "alice@example.com", *m.MemberEmail)
	assert.NotNil(t, m.MemberClaimedAt)
	require.NotNil(t, m.MemberPasswordHash)
	assert.True(t, CheckPassword(*m.MemberPasswordHash, "secret-pass"))
}

func TestClaimDefaultsName(t *testing.T) {
	db := newTestDB(t)
	svc := NewClaimService(db)

	res, err := svc.Claim(context.Background(), ClaimInput{
		JSANumber: "JSA900",
		Email:     "noname@example.com",
		Password:  "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "Member", res.Name)
}

func TestClaimPlaceholderKeepsIdentity(t *testing.T) {
	db := newTestDB(t)
	svc := NewClaimService(db)

	placeholder := seedMember(t, db, memberModel.MemberModel{
		MemberName:      strPtr("Bob Tanaka"),
		MemberRole:      memberModel.MemberRoleJudoka,
		MemberJSANumber: strPtr("JSA777"),
	})

	res, err := svc.Claim(context.Background(), ClaimInput{
		JSANumber: "jsa777",
		Email:     "bob@example.com",
		Password:  "pw",
		Name:      "Bobby",
	})
	require.NoError(t, err)
	assert.Equal(t, placeholder.MemberID, res.MemberID)
	assert.Equal(t, "Bob Tanaka", res.Name)

	var m memberModel.MemberModel
	require.NoError(t, db.First(&m, placeholder.MemberID).Error)
	require.NotNil(t, m.MemberEmail)
	assert.Equal(t, "bob@example.com", *m.MemberEmail)
	assert.NotNil(t, m.MemberClaimedAt)
	require.NotNil(t, m.MemberName)
	assert.Equal(t, "Bob Tanaka", *m.MemberName, "existing name is not overwritten")

	var count int64
	require.NoError(t, db.Model(&memberModel.MemberModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestClaimConflictLeavesStoreUntouched(t *testing.T) {
	db := newTestDB(t)
	svc := NewClaimService(db)

	now := time.Now()
	owner := seedMember(t, db, memberModel.MemberModel{
		MemberName:      strPtr("Carol"),
		MemberEmail:     strPtr("carol@example.com"),
		MemberRole:      memberModel.MemberRoleJudoka,
		MemberJSANumber: strPtr("JSA500"),
		MemberClaimedAt: &now,
	})

	_, err := svc.Claim(context.Background(), ClaimInput{
		JSANumber: "JSA500",
		Email:     "intruder@example.com",
		Password:  "pw",
	})
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))

	var m memberModel.MemberModel
	require.NoError(t, db.First(&m, owner.MemberID).Error)
	assert.Equal(t, "carol@example.com", *m.MemberEmail)

	var count int64
	require.NoError(t, db.Model(&memberModel.MemberModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestClaimReclaimSameEmailIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewClaimService(db)

	first, err := svc.Claim(context.Background(), ClaimInput{
		JSANumber: "JSA600",
		Email:     "dora@example.com",
		Password:  "pw-one",
		Name:      "Dora",
	})
	require.NoError(t, err)

	second, err := svc.Claim(context.Background(), ClaimInput{
		JSANumber: "JSA600",
		Email:     "DORA@example.com",
		Password:  "pw-two",
	})
	require.NoError(t, err)
	assert.Equal(t, first.MemberID, second.MemberID)

	// first write wins on the password hash
	var m memberModel.MemberModel
	require.NoError(t, db.First(&m, first.MemberID).Error)
	assert.True(t, CheckPassword(*m.MemberPasswordHash, "pw-one"))
}

func TestClaimMergesDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := NewClaimService(db)

	primary := seedMember(t, db, memberModel.MemberModel{
		MemberName:      strPtr("Eri"),
		MemberRole:      memberModel.MemberRoleJudoka,
		MemberJSANumber: strPtr("JSA321"),
	})
	dupe := seedMember(t, db, memberModel.MemberModel{
		MemberName:      strPtr("Eri S."),
		MemberRole:      memberModel.MemberRoleJudoka,
		MemberJSANumber: strPtr("JSA321"),
	})

	s1 := sessionModel.ClassSessionModel{SessionClassID: 1, SessionDate: "2026-08-24"}
	s2 := sessionModel.ClassSessionModel{SessionClassID: 1, SessionDate: "2026-08-26"}
	require.NoError(t, db.Create(&s1).Error)
	require.NoError(t, db.Create(&s2).Error)

	// primary and dupe both at s1; dupe alone at s2
	for _, a := range []sessionModel.AttendanceModel{
		{AttendanceSessionID: s1.SessionID, AttendanceMemberID: primary.MemberID, AttendanceCheckedInAt: time.Now(), AttendanceMethod: sessionModel.AttendanceMethodSelf},
		{AttendanceSessionID: s1.SessionID, AttendanceMemberID: dupe.MemberID, AttendanceCheckedInAt: time.Now(), AttendanceMethod: sessionModel.AttendanceMethodCoach},
		{AttendanceSessionID: s2.SessionID, AttendanceMemberID: dupe.MemberID, AttendanceCheckedInAt: time.Now(), AttendanceMethod: sessionModel.AttendanceMethodCoach},
	} {
		a := a
		require.NoError(t, db.Create(&a).Error)
	}

	comp := competitionModel.CompetitionModel{CompetitionName: "Winter Cup"}
	require.NoError(t, db.Create(&comp).Error)
	entry := competitionModel.MemberCompetitionModel{
		EntryMemberID:      dupe.MemberID,
		EntryCompetitionID: comp.CompetitionID,
		EntryAddedAt:       time.Now(),
	}
	require.NoError(t, db.Create(&entry).Error)

	upload := fightModel.FightUploadModel{
		UploadMemberID:     dupe.MemberID,
		UploadOriginalName: "fight.mp4",
		UploadFileName:     "abc.mp4",
		UploadMimeType:     "video/mp4",
		UploadUploadedAt:   time.Now(),
		UploadStatus:       fightModel.UploadStatusPending,
	}
	require.NoError(t, db.Create(&upload).Error)

	staleToken := authModel.RefreshTokenModel{
		RefreshTokenMemberID:  dupe.MemberID,
		RefreshTokenHash:      "deadbeef",
		RefreshTokenExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(&staleToken).Error)

	res, err := svc.Claim(context.Background(), ClaimInput{
		JSANumber: "JSA321",
		Email:     "eri@example.com",
		Password:  "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, primary.MemberID, res.MemberID, "oldest row is canonical")

	var memberCount int64
	require.NoError(t, db.Model(&memberModel.MemberModel{}).Count(&memberCount).Error)
	assert.EqualValues(t, 1, memberCount, "duplicate row is gone")

	var attendance []sessionModel.AttendanceModel
	require.NoError(t, db.Order("attendance_session_id ASC").Find(&attendance).Error)
	require.Len(t, attendance, 2, "s1 deduped, s2 carried over")
	for _, a := range attendance {
		assert.Equal(t, primary.MemberID, a.AttendanceMemberID)
	}

	var movedEntry competitionModel.MemberCompetitionModel
	require.NoError(t, db.First(&movedEntry, entry.EntryID).Error)
	assert.Equal(t, primary.MemberID, movedEntry.EntryMemberID)

	var movedUpload fightModel.FightUploadModel
	require.NoError(t, db.First(&movedUpload, upload.UploadID).Error)
	assert.Equal(t, primary.MemberID, movedUpload.UploadMemberID)

	var tokenCount int64
	require.NoError(t, db.Model(&authModel.RefreshTokenModel{}).Count(&tokenCount).Error)
	assert.EqualValues(t, 0, tokenCount, "duplicate's sessions die with the row")
}

func TestClaimValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewClaimService(db)

	cases := []ClaimInput{
		{JSANumber: "", Email: "a@b.com", Password: "pw"},
		{JSANumber: "   ", Email: "a@b.com", Password: "pw"},
		{JSANumber: "JSA1", Email: "", Password: "pw"},
		{JSANumber: "JSA1", Email: "a@b.com", Password: ""},
	}
	for _, in := range cases {
		_, err := svc.Claim(context.Background(), in)
		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
	}

	var count int64
	require.NoError(t, db.Model(&memberModel.MemberModel{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestClaimDuplicateEmailAcrossJSANumbers(t *testing.T) {
	db := newTestDB(t)
	svc := NewClaimService(db)

	_, err := svc.Claim(context.Background(), ClaimInput{
		JSANumber: "JSA1", Email: "same@example.com", Password: "pw",
	})
	require.NoError(t, err)

	_, err = svc.Claim(context.Background(), ClaimInput{
		JSANumber: "JSA2", Email: "same@example.com", Password: "pw",
	})
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))
}
