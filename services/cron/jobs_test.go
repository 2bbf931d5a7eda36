package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/respir-app/respir-api/database/dbtest"
	"github.com/respir-app/respir-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeProgressRecordsMetadata(t *testing.T) {
	db := dbtest.New(t)
	m := NewCronManager(db)

	course := model.Course{Title: "Souffle"}
	require.NoError(t, db.Create(&course).Error)
	other := model.Course{Title: "Sommeil"}
	require.NoError(t, db.Create(&other).Error)
	ana := model.User{Email: "ana@example.com"}
	require.NoError(t, db.Create(&ana).Error)
	leo := model.User{Email: "leo@example.com"}
	require.NoError(t, db.Create(&leo).Error)

	require.NoError(t, db.Create(&model.UserProgress{UserID: ana.ID, CourseID: course.ID, Status: model.ProgressCompleted, TotalListenedSeconds: 300}).Error)
	require.NoError(t, db.Create(&model.UserProgress{UserID: ana.ID, CourseID: other.ID, Status: model.ProgressInProgress, TotalListenedSeconds: 60}).Error)
	require.NoError(t, db.Create(&model.UserProgress{UserID: leo.ID, CourseID: course.ID, Status: model.ProgressInProgress, TotalListenedSeconds: 40}).Error)

	m.SummarizeProgress()

	var entry model.CronJobLog
	require.NoError(t, db.Where("job_name = ?", jobSummarizeProgress).First(&entry).Error)
	assert.Equal(t, model.CronStatusCompleted, entry.Status)
	assert.NotNil(t, entry.CompletedAt)

	var summary ProgressSummary
	require.NoError(t, json.Unmarshal(entry.Metadata, &summary))
	assert.Equal(t, int64(400), summary.TotalListenedSeconds)
	assert.Equal(t, int64(2), summary.Learners)
	assert.Equal(t, int64(2), summary.ByStatus["in_progress"])
	assert.Equal(t, int64(1), summary.ByStatus["completed"])
	assert.Equal(t, int64(0), summary.ByStatus["not_started"])
}

func TestCleanupOldLogs(t *testing.T) {
	db := dbtest.New(t)
	m := NewCronManager(db)
	now := time.Now().UTC()

	require.NoError(t, db.Create(&model.CronJobLog{JobName: "old", Status: model.CronStatusCompleted, StartedAt: now.Add(-40 * 24 * time.Hour)}).Error)
	require.NoError(t, db.Create(&model.CronJobLog{JobName: "recent", Status: model.CronStatusCompleted, StartedAt: now.Add(-2 * 24 * time.Hour)}).Error)
	require.NoError(t, db.Create(&model.AdminAuditLog{Action: "course_create", CreatedAt: now.Add(-100 * 24 * time.Hour)}).Error)
	require.NoError(t, db.Create(&model.AdminAuditLog{Action: "course_update", CreatedAt: now.Add(-40 * 24 * time.Hour)}).Error)

	m.CleanupOldLogs()

	var names []string
	require.NoError(t, db.Model(&model.CronJobLog{}).Order("id").Pluck("job_name", &names).Error)
	assert.Equal(t, []string{"recent", jobCleanupOldLogs}, names)

	var actions []string
	require.NoError(t, db.Model(&model.AdminAuditLog{}).Pluck("action", &actions).Error)
	assert.Equal(t, []string{"course_update"}, actions)

	var entry model.CronJobLog
	require.NoError(t, db.Where("job_name = ?", jobCleanupOldLogs).First(&entry).Error)
	assert.Equal(t, model.CronStatusCompleted, entry.Status)
	assert.Contains(t, entry.Message, "Cleaned 1 cron logs and 1 audit logs")
}

func TestFailedJobIsRecorded(t *testing.T) {
	db := dbtest.New(t)
	m := NewCronManager(db)

	m.run("broken", time.Second, func(ctx context.Context) (jobResult, error) {
		return jobResult{}, errors.New("boom")
	})

	var entry model.CronJobLog
	require.NoError(t, db.Where("job_name = ?", "broken").First(&entry).Error)
	assert.Equal(t, model.CronStatusFailed, entry.Status)
	assert.Equal(t, "boom", entry.ErrorMsg)
}

func TestRegisterJobs(t *testing.T) {
	m := NewCronManager(dbtest.New(t))
	require.NoError(t, m.registerJobs())
	assert.Len(t, m.cron.Entries(), 2)
}
