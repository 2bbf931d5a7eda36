package model

import (
	"time"

	"gorm.io/datatypes"
)

// AdminAuditLog records catalog mutations made with the admin credential.
// The credential is shared, so entries carry request metadata instead of an admin user.
type AdminAuditLog struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Action      string         `gorm:"type:varchar(100);not null;index" json:"action"` // e.g. "course_create", "session_delete"
	Resource    string         `gorm:"type:varchar(100);index" json:"resource"`        // e.g. "courses"
	ResourceID  uint           `json:"resource_id,omitempty"`
	Payload     datatypes.JSON `json:"payload,omitempty"`
	StatusCode  int            `json:"status_code"`
	IPAddress   string         `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent   string         `gorm:"type:text" json:"user_agent"`
	RequestID   string         `gorm:"type:varchar(64)" json:"request_id"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AdminAuditLog) TableName() string {
	return "admin_audit_logs"
}
