// internals/features/fights/dto/fight_dto.go
package dto

import "time"

type FeedbackRequest struct {
	Text string `json:"text" validate:"required"`
}

// FightItem is an upload joined with its feedback, if reviewed yet.
type FightItem struct {
	UploadID     int64      `json:"upload_id"`
	OriginalName string     `json:"original_name"`
	FileURL      string     `json:"file_url"`
	MimeType     string     `json:"mime_type"`
	UploadedAt   time.Time  `json:"uploaded_at"`
	Status       string     `json:"status"`
	FeedbackText *string    `json:"feedback_text,omitempty"`
	CoachName    *string    `json:"coach_name,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
}

// PendingFightItem is a coach-queue line: the upload plus who sent it.
type PendingFightItem struct {
	UploadID     int64     `json:"upload_id"`
	MemberID     int64     `json:"member_id"`
	MemberName   string    `json:"member_name"`
	OriginalName string    `json:"original_name"`
	FileURL      string    `json:"file_url"`
	MimeType     string    `json:"mime_type"`
	UploadedAt   time.Time `json:"uploaded_at"`
}
