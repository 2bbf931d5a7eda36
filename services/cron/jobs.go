package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/respir-app/respir-api/model"
)

const (
	cronLogRetention  = 30 * 24 * time.Hour
	auditLogRetention = 90 * 24 * time.Hour
)

// ProgressSummary is stored as the metadata of a summarize_progress run
type ProgressSummary struct {
	GeneratedAt          time.Time        `json:"generated_at"`
	ByStatus             map[string]int64 `json:"by_status"`
	TotalListenedSeconds int64            `json:"total_listened_seconds"`
	Learners             int64            `json:"learners"`
}

// SummarizeProgress counts progress rows per status and the total listening time
func (m *CronManager) SummarizeProgress() {
	m.run(jobSummarizeProgress, 5*time.Minute, func(ctx context.Context) (jobResult, error) {
		summary, err := m.summarizeProgress(ctx)
		if err != nil {
			return jobResult{}, err
		}
		return jobResult{
			message: fmt.Sprintf("Summarized progress of %d learners, %d seconds listened",
				summary.Learners, summary.TotalListenedSeconds),
			metadata: summary,
		}, nil
	})
}

func (m *CronManager) summarizeProgress(ctx context.Context) (*ProgressSummary, error) {
	type statusCount struct {
		Status string
		Count  int64
	}

	var counts []statusCount
	err := m.db.WithContext(ctx).Model(&model.UserProgress{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count progress by status: %w", err)
	}

	summary := &ProgressSummary{
		GeneratedAt: time.Now().UTC(),
		ByStatus: map[string]int64{
			string(model.ProgressNotStarted): 0,
			string(model.ProgressInProgress): 0,
			string(model.ProgressCompleted):  0,
		},
	}
	for _, c := range counts {
		summary.ByStatus[c.Status] = c.Count
	}

	err = m.db.WithContext(ctx).Model(&model.UserProgress{}).
		Select("COALESCE(SUM(total_listened_seconds), 0)").
		Scan(&summary.TotalListenedSeconds).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum listened seconds: %w", err)
	}

	err = m.db.WithContext(ctx).Model(&model.UserProgress{}).
		Distinct("user_id").
		Count(&summary.Learners).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count learners: %w", err)
	}

	return summary, nil
}

// CleanupOldLogs removes cron logs older than 30 days and audit logs older than 90 days
func (m *CronManager) CleanupOldLogs() {
	m.run(jobCleanupOldLogs, 10*time.Minute, func(ctx context.Context) (jobResult, error) {
		now := time.Now().UTC()

		cronLogs := m.db.WithContext(ctx).
			Where("started_at < ?", now.Add(-cronLogRetention)).
			Delete(&model.CronJobLog{})
		if cronLogs.Error != nil {
			return jobResult{}, fmt.Errorf("failed to clean cron logs: %w", cronLogs.Error)
		}

		auditLogs := m.db.WithContext(ctx).
			Where("created_at < ?", now.Add(-auditLogRetention)).
			Delete(&model.AdminAuditLog{})
		if auditLogs.Error != nil {
			return jobResult{}, fmt.Errorf("failed to clean audit logs: %w", auditLogs.Error)
		}

		return jobResult{
			message: fmt.Sprintf("Cleaned %d cron logs and %d audit logs", cronLogs.RowsAffected, auditLogs.RowsAffected),
			metadata: map[string]int64{
				"cron_logs":  cronLogs.RowsAffected,
				"audit_logs": auditLogs.RowsAffected,
			},
		}, nil
	})
}
