package cron

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/respir-app/respir-api/model"
	"github.com/robfig/cron/v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	jobSummarizeProgress = "summarize_progress"
	jobCleanupOldLogs    = "cleanup_old_logs"
)

// CronManager manages the scheduled maintenance jobs
type CronManager struct {
	cron *cron.Cron
	db   *gorm.DB
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron: c,
		db:   db,
	}
}

// Start registers the jobs and starts the scheduler
func (m *CronManager) Start() error {
	log.Info("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Infow("Cron jobs started", "jobs", len(m.cron.Entries()))
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (m *CronManager) Stop() {
	log.Info("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Info("Cron jobs stopped")
}

func (m *CronManager) registerJobs() error {
	// Every hour: snapshot of progress per status
	if _, err := m.cron.AddFunc("0 0 * * * *", m.SummarizeProgress); err != nil {
		return err
	}

	// Daily at 3 AM: trim job and audit logs
	if _, err := m.cron.AddFunc("0 0 3 * * *", m.CleanupOldLogs); err != nil {
		return err
	}

	return nil
}

// jobResult is what a job reports back to its log row
type jobResult struct {
	message  string
	metadata interface{}
}

// run executes job with a timeout and records the run in cron_job_logs.
func (m *CronManager) run(jobName string, timeout time.Duration, job func(ctx context.Context) (jobResult, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	entry := m.logJobStart(jobName)
	result, err := job(ctx)
	if err != nil {
		m.logJobError(entry, err)
		return
	}
	m.logJobComplete(entry, result)
}

func (m *CronManager) logJobStart(jobName string) *model.CronJobLog {
	log.Infow("[CRON] Starting job", "job", jobName)

	entry := &model.CronJobLog{
		JobName:   jobName,
		Status:    model.CronStatusRunning,
		StartedAt: time.Now().UTC(),
		Metadata:  datatypes.JSON("{}"),
	}
	if err := m.db.Create(entry).Error; err != nil {
		log.Warnw("[CRON] Failed to record job start", "job", jobName, "error", err)
	}
	return entry
}

func (m *CronManager) logJobComplete(entry *model.CronJobLog, result jobResult) {
	log.Infow("[CRON] Completed job", "job", entry.JobName, "message", result.message)

	completedAt := time.Now().UTC()
	updates := map[string]interface{}{
		"status":       model.CronStatusCompleted,
		"completed_at": completedAt,
		"duration":     completedAt.Sub(entry.StartedAt).Milliseconds(),
		"message":      result.message,
	}
	if result.metadata != nil {
		if raw, err := json.Marshal(result.metadata); err == nil {
			updates["metadata"] = datatypes.JSON(raw)
		}
	}
	m.finish(entry, updates)
}

func (m *CronManager) logJobError(entry *model.CronJobLog, err error) {
	log.Errorw("[CRON] Job failed", "job", entry.JobName, "error", err)

	completedAt := time.Now().UTC()
	m.finish(entry, map[string]interface{}{
		"status":       model.CronStatusFailed,
		"completed_at": completedAt,
		"duration":     completedAt.Sub(entry.StartedAt).Milliseconds(),
		"error_msg":    err.Error(),
	})
}

func (m *CronManager) finish(entry *model.CronJobLog, updates map[string]interface{}) {
	if entry.ID == 0 {
		return
	}
	if err := m.db.Model(&model.CronJobLog{}).Where("id = ?", entry.ID).Updates(updates).Error; err != nil {
		log.Warnw("[CRON] Failed to record job result", "job", entry.JobName, "error", err)
	}
}
