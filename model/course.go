package model

import "time"

// Course is an ordered program of listening sessions
type Course struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Title           string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_courses_title" json:"title"`
	Description     *string   `gorm:"type:varchar(2048)" json:"description"`
	DurationMinutes *int      `json:"duration_minutes"`
	CategoryID      *uint     `gorm:"index" json:"category_id"`
	LevelID         *uint     `gorm:"index" json:"level_id"`
	AmbienceID      *uint     `gorm:"index" json:"ambience_id"`

	// Relationships
	Category *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category"`
	Level    *Level          `gorm:"foreignKey:LevelID;constraint:OnDelete:SET NULL" json:"level"`
	Ambience *Ambience       `gorm:"foreignKey:AmbienceID;constraint:OnDelete:SET NULL" json:"ambience"`
	Sessions []CourseSession `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"sessions"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseSession is one episode of a course, owned by it
type CourseSession struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	CourseID        uint      `gorm:"not null;index" json:"course_id"`
	Title           string    `gorm:"type:varchar(255);not null" json:"title"`
	Description     *string   `gorm:"type:varchar(2048)" json:"description"`
	Order           *int      `gorm:"column:sort_order" json:"order"`
	DurationMinutes *int      `json:"duration_minutes"`
}

func (CourseSession) TableName() string {
	return "course_sessions"
}
