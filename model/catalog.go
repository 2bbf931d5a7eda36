package model

import "time"

// Category groups courses by theme (breathing, guided meditation, ...)
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Description *string   `gorm:"type:varchar(1024)" json:"description"`
}

func (Category) TableName() string {
	return "categories"
}

// Level is a difficulty tier; Order drives display sorting
type Level struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Description *string   `gorm:"type:varchar(1024)" json:"description"`
	Order       *int      `gorm:"column:sort_order" json:"order"`
}

func (Level) TableName() string {
	return "levels"
}

// Ambience is a background soundtrack played under a course.
// AudioURL is either an absolute URL or an object key in the audio bucket.
type Ambience struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Description *string   `gorm:"type:varchar(1024)" json:"description"`
	AudioURL    *string   `gorm:"type:text" json:"audio_url"`
}

func (Ambience) TableName() string {
	return "ambiances"
}
