// internals/features/fights/controller/fight_controller.go
package controller

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"dojoku_backend/internals/configs"
	"dojoku_backend/internals/features/fights/dto"
	fightModel "dojoku_backend/internals/features/fights/model"
	helper "dojoku_backend/internals/helpers"
)

const maxFightUploadBytes = 200 << 20 // 200MB, matches the server body limit

type FightController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewFightController(db *gorm.DB) *FightController {
	return &FightController{DB: db, Validator: validator.New()}
}

func isVideoUpload(mime, filename string) bool {
	if strings.HasPrefix(strings.ToLower(mime), "video/") {
		return true
	}
	lower := strings.ToLower(filename)
	for _, ext := range []string{".mp4", ".mov", ".webm", ".mkv", ".avi"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

/* =======================================================
   Judoka
======================================================= */

// ListOwn returns the caller's uploads with any feedback attached,
// newest first.
func (ctl *FightController) ListOwn(c *fiber.Ctx) error {
	memberID, err := helper.GetMemberID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	type row struct {
		UploadID     int64
		OriginalName string
		FileName     string
		MimeType     string
		UploadedAt   time.Time
		Status       string
		FeedbackText *string
		CoachName    *string
		ReviewedAt   *time.Time
	}
	var rows []row
	if err := ctl.DB.WithContext(c.Context()).
		Table("fight_uploads").
		Select(`fight_uploads.upload_id,
			fight_uploads.upload_original_name AS original_name,
			fight_uploads.upload_file_name AS file_name,
			fight_uploads.upload_mime_type AS mime_type,
			fight_uploads.upload_uploaded_at AS uploaded_at,
			fight_uploads.upload_status AS status,
			fight_feedback.feedback_text,
			members.member_name AS coach_name,
			fight_feedback.feedback_reviewed_at AS reviewed_at`).
		Joins("LEFT JOIN fight_feedback ON fight_feedback.feedback_upload_id = fight_uploads.upload_id").
		Joins("LEFT JOIN members ON members.member_id = fight_feedback.feedback_coach_id").
		Where("fight_uploads.upload_member_id = ?", memberID).
		Order("fight_uploads.upload_uploaded_at DESC").
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load uploads")
	}

	items := make([]dto.FightItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.FightItem{
			UploadID:     r.UploadID,
			OriginalName: r.OriginalName,
			FileURL:      "/uploads/" + r.FileName,
			MimeType:     r.MimeType,
			UploadedAt:   r.UploadedAt,
			Status:       r.Status,
			FeedbackText: r.FeedbackText,
			CoachName:    r.CoachName,
			ReviewedAt:   r.ReviewedAt,
		})
	}
	return helper.JsonOK(c, "fight uploads", items)
}

// Upload stores a fight video for coach review.
func (ctl *FightController) Upload(c *fiber.Ctx) error {
	memberID, err := helper.GetMemberID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	fh, err := c.FormFile("video")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "video file is required")
	}
	if fh.Size > maxFightUploadBytes {
		return helper.JsonError(c, fiber.StatusRequestEntityTooLarge, "video must be 200MB or smaller")
	}
	mime := fh.Header.Get("Content-Type")
	if !isVideoUpload(mime, fh.Filename) {
		return helper.JsonError(c, fiber.StatusBadRequest, "only video files are accepted")
	}

	name, err := helper.SaveUploadFile(c, fh, configs.UploadDir)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to store video")
	}

	upload := fightModel.FightUploadModel{
		UploadMemberID:     memberID,
		UploadOriginalName: fh.Filename,
		UploadFileName:     name,
		UploadMimeType:     mime,
		UploadUploadedAt:   time.Now(),
		UploadStatus:       fightModel.UploadStatusPending,
	}
	if err := ctl.DB.WithContext(c.Context()).Create(&upload).Error; err != nil {
		helper.RemoveUploadFile(configs.UploadDir, name)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to record upload")
	}
	return helper.JsonCreated(c, "video uploaded", upload)
}

// Delete removes one of the caller's own uploads, its feedback and the
// file on disk.
func (ctl *FightController) Delete(c *fiber.Ctx) error {
	memberID, err := helper.GetMemberID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	uploadID, err := strconv.ParseInt(c.Params("uploadId"), 10, 64)
	if err != nil || uploadID <= 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid upload id")
	}

	var upload fightModel.FightUploadModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("upload_id = ? AND upload_member_id = ?", uploadID, memberID).
		First(&upload).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "upload not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load upload")
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("feedback_upload_id = ?", upload.UploadID).
			Delete(&fightModel.FightFeedbackModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&fightModel.FightUploadModel{}, upload.UploadID).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete upload")
	}
	helper.RemoveUploadFile(configs.UploadDir, upload.UploadFileName)
	return helper.JsonDeleted(c, "upload deleted", fiber.Map{"upload_id": upload.UploadID})
}

/* =======================================================
   Coach
======================================================= */

// ListPending returns the review queue, oldest upload first.
func (ctl *FightController) ListPending(c *fiber.Ctx) error {
	type row struct {
		UploadID     int64
		MemberID     int64
		MemberName   *string
		MemberEmail  *string
		OriginalName string
		FileName     string
		MimeType     string
		UploadedAt   time.Time
	}
	var rows []row
	if err := ctl.DB.WithContext(c.Context()).
		Table("fight_uploads").
		Select(`fight_uploads.upload_id,
			members.member_id,
			members.member_name,
			members.member_email,
			fight_uploads.upload_original_name AS original_name,
			fight_uploads.upload_file_name AS file_name,
			fight_uploads.upload_mime_type AS mime_type,
			fight_uploads.upload_uploaded_at AS uploaded_at`).
		Joins("JOIN members ON members.member_id = fight_uploads.upload_member_id").
		Where("fight_uploads.upload_status = ?", string(fightModel.UploadStatusPending)).
		Order("fight_uploads.upload_uploaded_at ASC").
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load pending uploads")
	}

	items := make([]dto.PendingFightItem, 0, len(rows))
	for _, r := range rows {
		name := "Member"
		if r.MemberName != nil && *r.MemberName != "" {
			name = *r.MemberName
		} else if r.MemberEmail != nil && *r.MemberEmail != "" {
			name = *r.MemberEmail
		}
		items = append(items, dto.PendingFightItem{
			UploadID:     r.UploadID,
			MemberID:     r.MemberID,
			MemberName:   name,
			OriginalName: r.OriginalName,
			FileURL:      "/uploads/" + r.FileName,
			MimeType:     r.MimeType,
			UploadedAt:   r.UploadedAt,
		})
	}
	return helper.JsonOK(c, "pending uploads", items)
}

// Review writes feedback on an upload and flips it to reviewed. A second
// review of the same upload is rejected.
func (ctl *FightController) Review(c *fiber.Ctx) error {
	coachID, err := helper.GetMemberID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	uploadID, err := strconv.ParseInt(c.Params("uploadId"), 10, 64)
	if err != nil || uploadID <= 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid upload id")
	}
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "feedback text is required")
	}

	var feedback fightModel.FightFeedbackModel
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var upload fightModel.FightUploadModel
		if err := tx.First(&upload, uploadID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "upload not found")
			}
			return err
		}
		if upload.UploadStatus == fightModel.UploadStatusReviewed {
			return fiber.NewError(fiber.StatusConflict, "that upload has already been reviewed")
		}

		feedback = fightModel.FightFeedbackModel{
			FeedbackUploadID:   upload.UploadID,
			FeedbackCoachID:    coachID,
			FeedbackText:       strings.TrimSpace(req.Text),
			FeedbackReviewedAt: time.Now(),
		}
		if err := tx.Create(&feedback).Error; err != nil {
			if isDuplicateKey(err) {
				return fiber.NewError(fiber.StatusConflict, "that upload has already been reviewed")
			}
			return err
		}
		return tx.Model(&fightModel.FightUploadModel{}).
			Where("upload_id = ?", upload.UploadID).
			Update("upload_status", string(fightModel.UploadStatusReviewed)).Error
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to save feedback")
	}
	return helper.JsonCreated(c, "feedback saved", feedback)
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
