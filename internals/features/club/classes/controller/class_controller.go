// internals/features/club/classes/controller/class_controller.go
package controller

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classModel "dojoku_backend/internals/features/club/classes/model"
	sessionModel "dojoku_backend/internals/features/club/sessions/model"
	sessionService "dojoku_backend/internals/features/club/sessions/service"
	memberModel "dojoku_backend/internals/features/members/member/model"
	helper "dojoku_backend/internals/helpers"
	"dojoku_backend/internals/helpers/errs"
)

type ClassController struct {
	DB         *gorm.DB
	Attendance *sessionService.AttendanceService
}

func NewClassController(db *gorm.DB) *ClassController {
	return &ClassController{DB: db, Attendance: sessionService.NewAttendanceService(db)}
}

func today() (string, int) {
	now := time.Now()
	return now.Format("2006-01-02"), int(now.Weekday())
}

// ListClasses returns the weekly timetable ordered by day and start
// time.
func (ctl *ClassController) ListClasses(c *fiber.Ctx) error {
	var classes []classModel.ClassModel
	if err := ctl.DB.WithContext(c.Context()).
		Order("class_day_of_week ASC, class_start_time ASC").
		Find(&classes).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load timetable")
	}
	return helper.JsonOK(c, "timetable", classes)
}

// ClassToday returns today's session for a class, creating the session
// row on first access.
func (ctl *ClassController) ClassToday(c *fiber.Ctx) error {
	classID, err := strconv.ParseInt(c.Params("classId"), 10, 64)
	if err != nil || classID <= 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid class id")
	}
	date, weekday := today()

	var cls classModel.ClassModel
	if err := ctl.DB.WithContext(c.Context()).First(&cls, classID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "class not found")
	}
	if cls.ClassDayOfWeek != weekday {
		return helper.JsonError(c, fiber.StatusBadRequest, "that class does not run today")
	}

	session, err := ctl.Attendance.EnsureSession(c.Context(), classID, date)
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), errs.Message(err))
	}

	viewerID, _ := helper.GetMemberID(c)
	view, err := ctl.Attendance.SessionView(c.Context(), session.SessionID, viewerID)
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), errs.Message(err))
	}
	return helper.JsonOK(c, "today's session", view)
}

// SelfCheckIn marks the calling judoka present in today's session for a
// class. Checking in twice is a no-op.
func (ctl *ClassController) SelfCheckIn(c *fiber.Ctx) error {
	memberID, err := helper.GetMemberID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if helper.GetMemberRole(c) != string(memberModel.MemberRoleJudoka) {
		return helper.JsonError(c, fiber.StatusForbidden, "coaches mark their attendance from the session page")
	}
	classID, err := strconv.ParseInt(c.Params("classId"), 10, 64)
	if err != nil || classID <= 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid class id")
	}
	date, weekday := today()

	var cls classModel.ClassModel
	if err := ctl.DB.WithContext(c.Context()).First(&cls, classID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "class not found")
	}
	if cls.ClassDayOfWeek != weekday {
		return helper.JsonError(c, fiber.StatusBadRequest, "that class does not run today")
	}

	session, err := ctl.Attendance.EnsureSession(c.Context(), classID, date)
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), errs.Message(err))
	}
	created, err := ctl.Attendance.CheckIn(c.Context(), session.SessionID, memberID, sessionModel.AttendanceMethodSelf)
	if err != nil {
		return helper.JsonError(c, errs.HTTPStatus(err), errs.Message(err))
	}

	msg := "checked in"
	if !created {
		msg = "already checked in"
	}
	return helper.JsonOK(c, msg, fiber.Map{
		"session_id": session.SessionID,
		"created":    created,
	})
}

// CoachClassesToday lists today's classes with their sessions ensured
// and attendance counts, for the coach dashboard.
func (ctl *ClassController) CoachClassesToday(c *fiber.Ctx) error {
	date, weekday := today()

	var classes []classModel.ClassModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("class_day_of_week = ?", weekday).
		Order("class_start_time ASC").
		Find(&classes).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load today's classes")
	}

	type todayItem struct {
		Class         classModel.ClassModel `json:"class"`
		SessionID     int64                 `json:"session_id"`
		AttendeeCount int64                 `json:"attendee_count"`
	}
	items := make([]todayItem, 0, len(classes))
	for _, cls := range classes {
		session, err := ctl.Attendance.EnsureSession(c.Context(), cls.ClassID, date)
		if err != nil {
			return helper.JsonError(c, errs.HTTPStatus(err), errs.Message(err))
		}
		var n int64
		if err := ctl.DB.WithContext(c.Context()).
			Model(&sessionModel.AttendanceModel{}).
			Where("attendance_session_id = ?", session.SessionID).
			Count(&n).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count attendance")
		}
		items = append(items, todayItem{Class: cls, SessionID: session.SessionID, AttendeeCount: n})
	}
	return helper.JsonOK(c, "today's classes", fiber.Map{
		"date":    date,
		"classes": items,
	})
}
