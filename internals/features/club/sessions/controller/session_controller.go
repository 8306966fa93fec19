// internals/features/club/sessions/controller/session_controller.go
package controller

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"dojoku_backend/internals/features/club/sessions/dto"
	sessionModel "dojoku_backend/internals/features/club/sessions/model"
	"dojoku_backend/internals/features/club/sessions/service"
	memberModel "dojoku_backend/internals/features/members/member/model"
	helper "dojoku_backend/internals/helpers"
	"dojoku_backend/internals/helpers/errs"
)

type SessionController struct {
	DB         *gorm.DB
	Validator  *validator.Validate
	Attendance *service.AttendanceService
}

func NewSessionController(db *gorm.DB) *SessionController {
	return &SessionController{
		DB:         db,
		Validator:  validator.New(),
		Attendance: service.NewAttendanceService(db),
	}
}

func (ctl *SessionController) sessionIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("sessionId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid session id")
	}
	return id, nil
}

/* =======================================================
   Member-facing
======================================================= */

// GetSession shows a past or current session. Judoka only see sessions
// they attended; coaches see everything.
func (ctl *SessionController) GetSession(c *fiber.Ctx) error {
	sessionID, err := ctl.sessionIDParam(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	viewerID, err := helper.GetMemberID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if helper.GetMemberRole(c) != string(memberModel.MemberRoleCoach) {
		attended, err := ctl.Attendance.HasAttended(c.Context(), sessionID, viewerID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load session")
		}
		if !attended {
			return helper.JsonError(c, fiber.StatusForbidden, "you were not at that session")
		}
	}

	view, err := ctl.Attendance.SessionView(c.Context(), sessionID, viewerID)
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), errs.Message(err))
	}
	return helper.JsonOK(c, "session", view)
}

/* =======================================================
   Coach-facing
======================================================= */

// CoachGetSession shows a session with the list of judoka who are not
// yet checked in, for the manual check-in dropdown.
func (ctl *SessionController) CoachGetSession(c *fiber.Ctx) error {
	sessionID, err := ctl.sessionIDParam(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	viewerID, _ := helper.GetMemberID(c)

	view, err := ctl.Attendance.SessionView(c.Context(), sessionID, viewerID)
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), errs.Message(err))
	}

	type candidate struct {
		MemberID  int64   `json:"member_id"`
		Name      *string `json:"name"`
		JSANumber *string `json:"jsa_number,omitempty"`
	}
	var remaining []candidate
	if err := ctl.DB.WithContext(c.Context()).
		Table("members").
		Select("member_id, member_name AS name, member_jsa_number AS jsa_number").
		Where("member_role = ?", string(memberModel.MemberRoleJudoka)).
		Where(`member_id NOT IN (
			SELECT attendance_member_id FROM attendance WHERE attendance_session_id = ?)`, sessionID).
		Order("member_name ASC, member_id ASC").
		Scan(&remaining).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load roster")
	}

	return helper.JsonOK(c, "session", fiber.Map{
		"session":          view,
		"remaining_judoka": remaining,
	})
}

// AddAttendance checks a judoka into a session on the coach's behalf.
func (ctl *SessionController) AddAttendance(c *fiber.Ctx) error {
	sessionID, err := ctl.sessionIDParam(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	var req dto.AddAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "member_id is required")
	}

	var target memberModel.MemberModel
	if err := ctl.DB.WithContext(c.Context()).First(&target, req.MemberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "member not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load member")
	}
	if target.MemberRole != memberModel.MemberRoleJudoka {
		return helper.JsonError(c, fiber.StatusBadRequest, "only judoka can be checked in this way")
	}

	created, err := ctl.Attendance.CheckIn(c.Context(), sessionID, target.MemberID, sessionModel.AttendanceMethodCoach)
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), errs.Message(err))
	}
	msg := "checked in"
	if !created {
		msg = "already checked in"
	}
	return helper.JsonOK(c, msg, fiber.Map{
		"member_id": target.MemberID,
		"name":      target.DisplayName(),
		"created":   created,
	})
}

// RemoveAttendance takes a member off the session list. Removing someone
// who is not on the list succeeds quietly.
func (ctl *SessionController) RemoveAttendance(c *fiber.Ctx) error {
	sessionID, err := ctl.sessionIDParam(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	memberID, err := strconv.ParseInt(c.Params("memberId"), 10, 64)
	if err != nil || memberID <= 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid member id")
	}
	if err := ctl.Attendance.RemoveCheckIn(c.Context(), sessionID, memberID); err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), errs.Message(err))
	}
	return helper.JsonDeleted(c, "check-in removed", fiber.Map{
		"session_id": sessionID,
		"member_id":  memberID,
	})
}

// Attend marks the coach's own presence at a session.
func (ctl *SessionController) Attend(c *fiber.Ctx) error {
	sessionID, err := ctl.sessionIDParam(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	coachID, err := helper.GetMemberID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	created, err := ctl.Attendance.CheckIn(c.Context(), sessionID, coachID, sessionModel.AttendanceMethodCoachAttend)
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), errs.Message(err))
	}
	msg := "attendance recorded"
	if !created {
		msg = "already recorded"
	}
	return helper.JsonOK(c, msg, fiber.Map{"created": created})
}

// Scan checks a judoka in from a scanned badge QR payload.
func (ctl *SessionController) Scan(c *fiber.Ctx) error {
	sessionID, err := ctl.sessionIDParam(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	var req dto.ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "payload is required")
	}

	member, created, err := ctl.Attendance.ScanCheckIn(c.Context(), sessionID, req.Payload)
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), errs.Message(err))
	}
	msg := "checked in"
	if !created {
		msg = "already checked in"
	}
	return helper.JsonOK(c, msg, fiber.Map{
		"member_id": member.MemberID,
		"name":      member.DisplayName(),
		"created":   created,
	})
}

// CardScan checks a member in from a swiped badge card code.
func (ctl *SessionController) CardScan(c *fiber.Ctx) error {
	sessionID, err := ctl.sessionIDParam(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	var req dto.CardScanRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "card_code is required")
	}

	member, created, err := ctl.Attendance.CardCheckIn(c.Context(), sessionID, req.CardCode)
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), errs.Message(err))
	}
	msg := "checked in"
	if !created {
		msg = "already checked in"
	}
	return helper.JsonOK(c, msg, fiber.Map{
		"member_id": member.MemberID,
		"name":      member.DisplayName(),
		"created":   created,
	})
}

// UpsertNote writes the coach note for a session, replacing any previous
// text.
func (ctl *SessionController) UpsertNote(c *fiber.Ctx) error {
	sessionID, err := ctl.sessionIDParam(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	coachID, err := helper.GetMemberID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	var req dto.NoteRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	note, err := ctl.Attendance.UpsertNote(c.Context(), sessionID, coachID, req.Text)
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), errs.Message(err))
	}
	return helper.JsonUpdated(c, "note saved", note)
}
