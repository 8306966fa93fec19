package model

import "time"

// CompetitionModel is a named reference entity ("Nationals 2025" etc).
type CompetitionModel struct {
	CompetitionID   int64  `gorm:"primaryKey;autoIncrement;column:competition_id" json:"competition_id"`
	CompetitionName string `gorm:"type:varchar(150);not null;uniqueIndex:idx_competitions_name;column:competition_name" json:"competition_name"`
}

func (CompetitionModel) TableName() string { return "competitions" }

// MemberCompetitionModel links a member to a competition with an optional
// result and event date. No unique (member, competition) index: the same
// competition may be entered across years; the add handler dedupes exact
// live pairs itself.
type MemberCompetitionModel struct {
	EntryID            int64     `gorm:"primaryKey;autoIncrement;column:entry_id" json:"entry_id"`
	EntryMemberID      int64     `gorm:"not null;index:idx_member_competitions_member;column:entry_member_id" json:"entry_member_id"`
	EntryCompetitionID int64     `gorm:"not null;column:entry_competition_id" json:"entry_competition_id"`
	EntryAddedAt       time.Time `gorm:"not null;column:entry_added_at" json:"entry_added_at"`
	EntryResultPlace   *string   `gorm:"type:varchar(50);column:entry_result_place" json:"entry_result_place,omitempty"`
	EntryEventDate     *string   `gorm:"type:varchar(10);column:entry_event_date" json:"entry_event_date,omitempty"`
}

func (MemberCompetitionModel) TableName() string { return "member_competitions" }
