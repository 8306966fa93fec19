package model

// ClassModel is a recurring weekly time slot on the mat timetable.
// Reference data: seeded once, edited by hand when the timetable changes.
type ClassModel struct {
	ClassID        int64  `gorm:"primaryKey;autoIncrement;column:class_id" json:"class_id"`
	ClassName      string `gorm:"type:varchar(100);not null;column:class_name" json:"class_name"`
	ClassDayOfWeek int    `gorm:"not null;column:class_day_of_week" json:"class_day_of_week"` // 0=Sunday .. 6=Saturday
	ClassStartTime string `gorm:"type:varchar(5);not null;column:class_start_time" json:"class_start_time"` // "16:30"
	ClassEndTime   string `gorm:"type:varchar(5);not null;column:class_end_time" json:"class_end_time"`
}

func (ClassModel) TableName() string { return "classes" }
