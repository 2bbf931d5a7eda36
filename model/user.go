package model

import "time"

// User is created lazily from the asserted caller identity; Email is the natural key.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName  *string   `gorm:"type:varchar(255)" json:"full_name"`
}

func (User) TableName() string {
	return "users"
}
