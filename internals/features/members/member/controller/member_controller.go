// internals/features/members/member/controller/member_controller.go
package controller

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"dojoku_backend/internals/configs"
	authService "dojoku_backend/internals/features/members/auth/service"
	"dojoku_backend/internals/features/members/member/dto"
	memberModel "dojoku_backend/internals/features/members/member/model"
	helper "dojoku_backend/internals/helpers"
)

type MemberController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewMemberController(db *gorm.DB) *MemberController {
	return &MemberController{DB: db, Validator: validator.New()}
}

func toSummary(m *memberModel.MemberModel) dto.MemberSummary {
	return dto.MemberSummary{
		MemberID:  m.MemberID,
		Name:      m.DisplayName(),
		Email:     m.MemberEmail,
		Role:      string(m.MemberRole),
		JSANumber: m.MemberJSANumber,
		Claimed:   m.MemberClaimedAt != nil,
		CardCode:  m.MemberCardCode,
	}
}

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

/* =======================================================
   Coach: roster
======================================================= */

// ListMembers returns the roster, optionally filtered by ?q= against
// name, email and JSA number.
func (ctl *MemberController) ListMembers(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 25, 100)

	q := ctl.DB.WithContext(c.Context()).Model(&memberModel.MemberModel{})
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(member_name) LIKE ? OR LOWER(member_email) LIKE ? OR LOWER(member_jsa_number) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count members")
	}

	var rows []memberModel.MemberModel
	if err := q.Order("member_name ASC, member_id ASC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list members")
	}

	out := make([]dto.MemberSummary, 0, len(rows))
	for i := range rows {
		out = append(out, toSummary(&rows[i]))
	}
	return helper.JsonList(c, "members", out, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// CreateMember adds a coach-entered placeholder. When the JSA number is
// already on the books the existing member is returned instead of a
// duplicate being created.
func (ctl *MemberController) CreateMember(c *fiber.Ctx) error {
	var req dto.CreateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "name and JSA number are required")
	}

	jsa := authService.NormalizeJSA(req.JSANumber)
	if jsa == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "name and JSA number are required")
	}

	var existing memberModel.MemberModel
	err := ctl.DB.WithContext(c.Context()).
		Where("member_jsa_number = ?", jsa).
		Order("member_id ASC").
		First(&existing).Error
	if err == nil {
		return helper.JsonOK(c, "member with that JSA number already exists", toSummary(&existing))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to look up JSA number")
	}

	role := memberModel.MemberRole(req.Role)
	if role == "" {
		role = memberModel.MemberRoleJudoka
	}
	name := strings.TrimSpace(req.Name)
	m := memberModel.MemberModel{
		MemberName:      &name,
		MemberRole:      role,
		MemberJSANumber: &jsa,
	}
	if err := ctl.DB.WithContext(c.Context()).Create(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create member")
	}
	return helper.JsonCreated(c, "member added", toSummary(&m))
}

// GetMember returns one member with their activity counters.
func (ctl *MemberController) GetMember(c *fiber.Ctx) error {
	memberID, err := parseIDParam(c, "memberId")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid member id")
	}

	var m memberModel.MemberModel
	if err := ctl.DB.WithContext(c.Context()).First(&m, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "member not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load member")
	}

	stats, err := ctl.memberStats(c, memberID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load member stats")
	}
	return helper.JsonOK(c, "member", fiber.Map{
		"member": toSummary(&m),
		"stats":  stats,
	})
}

// MemberAttendance returns a member's attended session history.
func (ctl *MemberController) MemberAttendance(c *fiber.Ctx) error {
	memberID, err := parseIDParam(c, "memberId")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid member id")
	}
	history, err := ctl.attendanceHistory(c, memberID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load attendance")
	}
	return helper.JsonOK(c, "attendance history", history)
}

// AssignCard links a physical badge card to a member. Card codes are
// unique across the club.
func (ctl *MemberController) AssignCard(c *fiber.Ctx) error {
	memberID, err := parseIDParam(c, "memberId")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid member id")
	}
	var req dto.AssignCardRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "card code is required")
	}
	code := strings.TrimSpace(req.CardCode)

	var m memberModel.MemberModel
	if err := ctl.DB.WithContext(c.Context()).First(&m, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "member not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load member")
	}

	if err := ctl.DB.WithContext(c.Context()).
		Model(&memberModel.MemberModel{}).
		Where("member_id = ?", memberID).
		Update("member_card_code", code).Error; err != nil {
		if isDuplicateKey(err) {
			return helper.JsonError(c, fiber.StatusConflict, "that card is already assigned to someone else")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to assign card")
	}
	m.MemberCardCode = &code
	return helper.JsonUpdated(c, "card assigned", toSummary(&m))
}

/* =======================================================
   Self: profile
======================================================= */

// Profile returns the caller's own record, counters and competition
// entries.
func (ctl *MemberController) Profile(c *fiber.Ctx) error {
	memberID, err := helper.GetMemberID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var m memberModel.MemberModel
	if err := ctl.DB.WithContext(c.Context()).First(&m, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "account no longer exists")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load profile")
	}

	stats, err := ctl.memberStats(c, memberID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load profile stats")
	}

	type entryRow struct {
		EntryID         int64   `json:"entry_id"`
		CompetitionID   int64   `json:"competition_id"`
		CompetitionName string  `json:"competition_name"`
		ResultPlace     *string `json:"result_place,omitempty"`
		EventDate       *string `json:"event_date,omitempty"`
	}
	var entries []entryRow
	if err := ctl.DB.WithContext(c.Context()).
		Table("member_competitions").
		Select(`member_competitions.entry_id,
			competitions.competition_id,
			competitions.competition_name,
			member_competitions.entry_result_place AS result_place,
			member_competitions.entry_event_date AS event_date`).
		Joins("JOIN competitions ON competitions.competition_id = member_competitions.entry_competition_id").
		Where("member_competitions.entry_member_id = ?", memberID).
		Order("member_competitions.entry_added_at DESC").
		Scan(&entries).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load competition entries")
	}

	photoURL := ""
	if m.MemberProfilePhoto != nil && *m.MemberProfilePhoto != "" {
		photoURL = "/uploads/" + *m.MemberProfilePhoto
	}
	return helper.JsonOK(c, "profile", fiber.Map{
		"member":       toSummary(&m),
		"photo_url":    photoURL,
		"stats":        stats,
		"competitions": entries,
	})
}

// UploadProfilePhoto stores a resized profile picture and replaces the
// old one on disk.
func (ctl *MemberController) UploadProfilePhoto(c *fiber.Ctx) error {
	memberID, err := helper.GetMemberID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	fh, err := c.FormFile("photo")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "photo file is required")
	}

	var m memberModel.MemberModel
	if err := ctl.DB.WithContext(c.Context()).First(&m, memberID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load profile")
	}

	name, err := helper.SaveProfilePhoto(fh, configs.UploadDir)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "photo must be a valid image")
	}
	if err := ctl.DB.WithContext(c.Context()).
		Model(&memberModel.MemberModel{}).
		Where("member_id = ?", memberID).
		Update("member_profile_photo", name).Error; err != nil {
		helper.RemoveUploadFile(configs.UploadDir, name)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to save photo")
	}
	if m.MemberProfilePhoto != nil {
		helper.RemoveUploadFile(configs.UploadDir, *m.MemberProfilePhoto)
	}
	return helper.JsonUpdated(c, "photo updated", fiber.Map{"photo_url": "/uploads/" + name})
}

// ProfileAttendance returns the caller's attended session history.
func (ctl *MemberController) ProfileAttendance(c *fiber.Ctx) error {
	memberID, err := helper.GetMemberID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	history, err := ctl.attendanceHistory(c, memberID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load attendance")
	}
	return helper.JsonOK(c, "attendance history", history)
}

// Badge renders the caller's check-in QR code as a PNG. The payload is
// the scanner contract: "JSA:" followed by the federation number.
func (ctl *MemberController) Badge(c *fiber.Ctx) error {
	memberID, err := helper.GetMemberID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var m memberModel.MemberModel
	if err := ctl.DB.WithContext(c.Context()).First(&m, memberID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load profile")
	}
	if m.MemberRole != memberModel.MemberRoleJudoka {
		return helper.JsonError(c, fiber.StatusForbidden, "badges are issued to judoka only")
	}
	if m.MemberJSANumber == nil || *m.MemberJSANumber == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "no JSA number on record")
	}

	png, err := qrcode.Encode("JSA:"+strings.ToUpper(*m.MemberJSANumber), qrcode.Medium, 256)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to render badge")
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

/* =======================================================
   Shared queries
======================================================= */

func (ctl *MemberController) memberStats(c *fiber.Ctx, memberID int64) (*dto.MemberStats, error) {
	var stats dto.MemberStats
	db := ctl.DB.WithContext(c.Context())
	if err := db.Table("attendance").
		Where("attendance_member_id = ?", memberID).
		Count(&stats.SessionsAttended).Error; err != nil {
		return nil, err
	}
	if err := db.Table("member_competitions").
		Where("entry_member_id = ?", memberID).
		Count(&stats.CompetitionCount).Error; err != nil {
		return nil, err
	}
	if err := db.Table("fight_uploads").
		Where("upload_member_id = ?", memberID).
		Count(&stats.FightUploadCount).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (ctl *MemberController) attendanceHistory(c *fiber.Ctx, memberID int64) ([]dto.AttendanceHistoryItem, error) {
	var history []dto.AttendanceHistoryItem
	err := ctl.DB.WithContext(c.Context()).
		Table("attendance").
		Select(`class_sessions.session_id,
			class_sessions.session_date,
			classes.class_name,
			attendance.attendance_checked_in_at AS checked_in_at,
			attendance.attendance_method AS method`).
		Joins("JOIN class_sessions ON class_sessions.session_id = attendance.attendance_session_id").
		Joins("JOIN classes ON classes.class_id = class_sessions.session_class_id").
		Where("attendance.attendance_member_id = ?", memberID).
		Order("class_sessions.session_date DESC, class_sessions.session_id DESC").
		Scan(&history).Error
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []dto.AttendanceHistoryItem{}
	}
	return history, nil
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
