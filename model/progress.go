package model

import "time"

type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

// UserProgress tracks one user's relationship to one course.
// There is at most one row per (user, course), guarded by uq_progress_user_course.
type UserProgress struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	UserID               uint           `gorm:"not null;uniqueIndex:uq_progress_user_course,priority:1" json:"user_id"`
	CourseID             uint           `gorm:"not null;uniqueIndex:uq_progress_user_course,priority:2;index" json:"course_id"`
	Status               ProgressStatus `gorm:"type:varchar(20);not null;default:'not_started'" json:"status"`
	TotalListenedSeconds int            `gorm:"not null;default:0" json:"total_listened_seconds"`
	StartedAt            *time.Time     `json:"started_at"`
	CompletedAt          *time.Time     `json:"completed_at"`

	// Relationships
	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Course *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
