package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/respir-app/respir-api/model"
	"github.com/respir-app/respir-api/utils/query"
	"github.com/respir-app/respir-api/utils/response"
	"gorm.io/gorm"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 200
)

// LogHandler serves the audit and maintenance trails to administrators
type LogHandler struct {
	db *gorm.DB
}

func NewLogHandler(db *gorm.DB) *LogHandler {
	return &LogHandler{db: db}
}

// ListAuditLogs retrieves the most recent catalog mutations
// GET /admin/audit-logs?limit=&action=&resource=
func (h *LogHandler) ListAuditLogs(c *fiber.Ctx) error {
	limit := query.Limit(c, defaultLogLimit, maxLogLimit)

	q := h.db.WithContext(c.UserContext()).Model(&model.AdminAuditLog{})
	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		q = q.Where("resource = ?", resource)
	}

	logs := []model.AdminAuditLog{}
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return response.FromError(c, err, "Failed to fetch audit logs")
	}
	return response.Success(c, logs)
}

// ListCronLogs retrieves the most recent maintenance job runs
// GET /admin/cron-logs?limit=&job_name=&status=
func (h *LogHandler) ListCronLogs(c *fiber.Ctx) error {
	limit := query.Limit(c, defaultLogLimit, maxLogLimit)

	q := h.db.WithContext(c.UserContext()).Model(&model.CronJobLog{})
	if jobName := c.Query("job_name"); jobName != "" {
		q = q.Where("job_name = ?", jobName)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	logs := []model.CronJobLog{}
	if err := q.Order("started_at DESC, id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return response.FromError(c, err, "Failed to fetch cron logs")
	}
	return response.Success(c, logs)
}
