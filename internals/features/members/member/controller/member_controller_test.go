package controller

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	sessionModel "dojoku_backend/internals/features/club/sessions/model"
	competitionModel "dojoku_backend/internals/features/competitions/model"
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
		&sessionModel.ClassSessionModel{},
		&sessionModel.AttendanceModel{},
		&competitionModel.CompetitionModel{},
		&competitionModel.MemberCompetitionModel{},
		&fightModel.FightUploadModel{},
	))
	return db
}

func newTestApp(db *gorm.DB, actingID int64, role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("member_id", strconv.FormatInt(actingID, 10))
		c.Locals("memberRole", role)
		return c.Next()
	})
	ctl := NewMemberController(db)
	app.Post("/members", ctl.CreateMember)
	app.Post("/members/:memberId/card", ctl.AssignCard)
	return app
}

func postJSON(t *testing.T, app *fiber.App, target, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, target, bytes.NewReader([]byte(body)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp.StatusCode, payload
}

func TestCreateMemberDeduplicatesByJSA(t *testing.T) {
	db := newTestDB(t)
	coach := memberModel.MemberModel{MemberRole: memberModel.MemberRoleCoach}
	require.NoError(t, db.Create(&coach).Error)
	app := newTestApp(db, coach.MemberID, "coach")

	status, payload := postJSON(t, app, "/members", `{"name":"Hana","jsa_number":"jsa 42"}`)
	assert.Equal(t, fiber.StatusCreated, status)
	created := payload["data"].(map[string]any)
	firstID := created["member_id"].(float64)
	assert.Equal(t, "JSA42", created["jsa_number"])

	status, payload = postJSON(t, app, "/members", `{"name":"Hana Again","jsa_number":"JSA42"}`)
	assert.Equal(t, fiber.StatusOK, status, "existing JSA points at the existing member")
	existing := payload["data"].(map[string]any)
	assert.Equal(t, firstID, existing["member_id"])

	var count int64
	require.NoError(t, db.Model(&memberModel.MemberModel{}).Count(&count).Error)
	assert.EqualValues(t, 2, count, "coach plus one placeholder")
}

func TestAssignCardUniqueAcrossMembers(t *testing.T) {
	db := newTestDB(t)
	coach := memberModel.MemberModel{MemberRole: memberModel.MemberRoleCoach}
	require.NoError(t, db.Create(&coach).Error)
	a := memberModel.MemberModel{MemberRole: memberModel.MemberRoleJudoka}
	require.NoError(t, db.Create(&a).Error)
	b := memberModel.MemberModel{MemberRole: memberModel.MemberRoleJudoka}
	require.NoError(t, db.Create(&b).Error)

	app := newTestApp(db, coach.MemberID, "coach")

	status, _ := postJSON(t, app, "/members/"+strconv.FormatInt(a.MemberID, 10)+"/card", `{"card_code":"CARD-1"}`)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = postJSON(t, app, "/members/"+strconv.FormatInt(b.MemberID, 10)+"/card", `{"card_code":"CARD-1"}`)
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestAssignCardUnknownMember(t *testing.T) {
	db := newTestDB(t)
	coach := memberModel.MemberModel{MemberRole: memberModel.MemberRoleCoach}
	require.NoError(t, db.Create(&coach).Error)
	app := newTestApp(db, coach.MemberID, "coach")

	status, _ := postJSON(t, app, "/members/999/card", `{"card_code":"CARD-9"}`)
	assert.Equal(t, fiber.StatusNotFound, status)
}
