package controller

import (
	"bytes"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	fightModel "dojoku_backend/internals/features/fights/model"
	memberModel "dojoku_backend/internals/features/members/member/model"
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
		&fightModel.FightUploadModel{},
		&fightModel.FightFeedbackModel{},
	))
	return db
}

// newTestApp mounts the coach endpoints behind a stub that injects the
// identity the auth middleware would normally populate.
func newTestApp(db *gorm.DB, actingID int64, role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("member_id", strconv.FormatInt(actingID, 10))
		c.Locals("memberRole", role)
		return c.Next()
	})
	ctl := NewFightController(db)
	app.Get("/fights/pending", ctl.ListPending)
	app.Post("/fights/:uploadId/feedback", ctl.Review)
	return app
}

func TestReviewFlipsStatusAndRejectsSecondReview(t *testing.T) {
	db := newTestDB(t)

	coachName := "Sensei"
	coach := memberModel.MemberModel{MemberName: &coachName, MemberRole: memberModel.MemberRoleCoach}
	require.NoError(t, db.Create(&coach).Error)
	judokaName := "Aiko"
	judoka := memberModel.MemberModel{MemberName: &judokaName, MemberRole: memberModel.MemberRoleJudoka}
	require.NoError(t, db.Create(&judoka).Error)

	upload := fightModel.FightUploadModel{
		UploadMemberID:     judoka.MemberID,
		UploadOriginalName: "osoto.mp4",
		UploadFileName:     "x.mp4",
		UploadMimeType:     "video/mp4",
		UploadUploadedAt:   time.Now(),
		UploadStatus:       fightModel.UploadStatusPending,
	}
	require.NoError(t, db.Create(&upload).Error)

	app := newTestApp(db, coach.MemberID, "coach")
	target := "/fights/" + strconv.FormatInt(upload.UploadID, 10) + "/feedback"

	req := httptest.NewRequest(fiber.MethodPost, target, bytes.NewReader([]byte(`{"text":"good grip fighting"}`)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var reloaded fightModel.FightUploadModel
	require.NoError(t, db.First(&reloaded, upload.UploadID).Error)
	assert.Equal(t, fightModel.UploadStatusReviewed, reloaded.UploadStatus)

	req = httptest.NewRequest(fiber.MethodPost, target, bytes.NewReader([]byte(`{"text":"second opinion"}`)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var feedbackCount int64
	require.NoError(t, db.Model(&fightModel.FightFeedbackModel{}).Count(&feedbackCount).Error)
	assert.EqualValues(t, 1, feedbackCount)
}

func TestReviewUnknownUpload(t *testing.T) {
	db := newTestDB(t)
	coach := memberModel.MemberModel{MemberRole: memberModel.MemberRoleCoach}
	require.NoError(t, db.Create(&coach).Error)

	app := newTestApp(db, coach.MemberID, "coach")
	req := httptest.NewRequest(fiber.MethodPost, "/fights/999/feedback", bytes.NewReader([]byte(`{"text":"hm"}`)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPendingQueueDrainsAfterReview(t *testing.T) {
	db := newTestDB(t)
	coach := memberModel.MemberModel{MemberRole: memberModel.MemberRoleCoach}
	require.NoError(t, db.Create(&coach).Error)
	judoka := memberModel.MemberModel{MemberRole: memberModel.MemberRoleJudoka}
	require.NoError(t, db.Create(&judoka).Error)

	upload := fightModel.FightUploadModel{
		UploadMemberID:     judoka.MemberID,
		UploadOriginalName: "seoi.mp4",
		UploadFileName:     "y.mp4",
		UploadMimeType:     "video/mp4",
		UploadUploadedAt:   time.Now(),
		UploadStatus:       fightModel.UploadStatusPending,
	}
	require.NoError(t, db.Create(&upload).Error)

	app := newTestApp(db, coach.MemberID, "coach")

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/fights/pending", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(fiber.MethodPost,
		"/fights/"+strconv.FormatInt(upload.UploadID, 10)+"/feedback",
		bytes.NewReader([]byte(`{"text":"reviewed"}`)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	_, err = app.Test(req)
	require.NoError(t, err)

	var pending int64
	require.NoError(t, db.Model(&fightModel.FightUploadModel{}).
		Where("upload_status = ?", string(fightModel.UploadStatusPending)).
		Count(&pending).Error)
	assert.EqualValues(t, 0, pending)
}
