package database

import (
	"log"

	"gorm.io/gorm"

	classModel "dojoku_backend/internals/features/club/classes/model"
	sessionModel "dojoku_backend/internals/features/club/sessions/model"
	competitionModel "dojoku_backend/internals/features/competitions/model"
	fightModel "dojoku_backend/internals/features/fights/model"
	authModel "dojoku_backend/internals/features/members/auth/model"
	memberModel "dojoku_backend/internals/features/members/member/model"
)

// Migrate creates/updates the schema and seeds the weekly timetable on an
// empty database.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&memberModel.MemberModel{},
		&classModel.ClassModel{},
		&sessionModel.ClassSessionModel{},
		&sessionModel.AttendanceModel{},
		&sessionModel.SessionNoteModel{},
		&competitionModel.CompetitionModel{},
		&competitionModel.MemberCompetitionModel{},
		&fightModel.FightUploadModel{},
		&fightModel.FightFeedbackModel{},
		&authModel.RefreshTokenModel{},
		&authModel.TokenBlacklist{},
	); err != nil {
		return err
	}
	return seedClasses(db)
}

// seedClasses loads the club's standing timetable when the classes table
// is empty. Day-of-week follows time.Weekday (0 = Sunday).
func seedClasses(db *gorm.DB) error {
	var count int64
	if err := db.Model(&classModel.ClassModel{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	classes := []classModel.ClassModel{
		{ClassName: "Kids (6-11)", ClassDayOfWeek: 1, ClassStartTime: "16:30", ClassEndTime: "17:30"},
		{ClassName: "Kids (6-11)", ClassDayOfWeek: 3, ClassStartTime: "16:30", ClassEndTime: "17:30"},
		{ClassName: "Kids (6-11)", ClassDayOfWeek: 5, ClassStartTime: "16:00", ClassEndTime: "17:00"},
		{ClassName: "Hobart Grove (12+)", ClassDayOfWeek: 1, ClassStartTime: "17:30", ClassEndTime: "19:00"},
		{ClassName: "Hobart Grove (12+)", ClassDayOfWeek: 2, ClassStartTime: "18:00", ClassEndTime: "19:00"},
		{ClassName: "Hobart Grove (12+)", ClassDayOfWeek: 3, ClassStartTime: "17:30", ClassEndTime: "19:00"},
		{ClassName: "Hobart Grove (12+)", ClassDayOfWeek: 4, ClassStartTime: "18:00", ClassEndTime: "19:00"},
		{ClassName: "Friday Fight Night (12+)", ClassDayOfWeek: 5, ClassStartTime: "18:00", ClassEndTime: "19:00"},
	}
	if err := db.Create(&classes).Error; err != nil {
		return err
	}
	log.Printf("[INFO] seeded %d timetable classes", len(classes))
	return nil
}
