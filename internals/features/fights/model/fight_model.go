package model

import "time"

/*
=========================================================

	Enums
	=========================================================
*/
type UploadStatus string

const (
	UploadStatusPending  UploadStatus = "pending"
	UploadStatusReviewed UploadStatus = "reviewed"
)

/*
=========================================================

	Models
	=========================================================
*/

// FightUploadModel is a fight video a judoka uploaded for review.
type FightUploadModel struct {
	UploadID           int64        `gorm:"primaryKey;autoIncrement;column:upload_id" json:"upload_id"`
	UploadMemberID     int64        `gorm:"not null;index:idx_fight_uploads_member;column:upload_member_id" json:"upload_member_id"`
	UploadOriginalName string       `gorm:"type:varchar(255);not null;column:upload_original_name" json:"upload_original_name"`
	UploadFileName     string       `gorm:"type:varchar(255);not null;column:upload_file_name" json:"upload_file_name"`
	UploadMimeType     string       `gorm:"type:varchar(100);not null;column:upload_mime_type" json:"upload_mime_type"`
	UploadUploadedAt   time.Time    `gorm:"not null;column:upload_uploaded_at" json:"upload_uploaded_at"`
	UploadStatus       UploadStatus `gorm:"type:varchar(10);not null;default:'pending';column:upload_status" json:"upload_status"`
}

func (FightUploadModel) TableName() string { return "fight_uploads" }

// FightFeedbackModel is the coach's written review of one upload.
// Writing it flips the upload to reviewed; one feedback per upload.
type FightFeedbackModel struct {
	FeedbackID         int64     `gorm:"primaryKey;autoIncrement;column:feedback_id" json:"feedback_id"`
	FeedbackUploadID   int64     `gorm:"not null;uniqueIndex:idx_fight_feedback_upload;column:feedback_upload_id" json:"feedback_upload_id"`
	FeedbackCoachID    int64     `gorm:"not null;column:feedback_coach_id" json:"feedback_coach_id"`
	FeedbackText       string    `gorm:"type:text;not null;column:feedback_text" json:"feedback_text"`
	FeedbackReviewedAt time.Time `gorm:"not null;column:feedback_reviewed_at" json:"feedback_reviewed_at"`
}

func (FightFeedbackModel) TableName() string { return "fight_feedback" }
