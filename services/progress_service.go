package services

import (
	"context"
	"errors"
	"time"

	"github.com/respir-app/respir-api/model"
	"github.com/respir-app/respir-api/utils/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressService owns the lifecycle of UserProgress rows.
// Every mutation runs in its own transaction.
type ProgressService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// ListForUser returns the caller's progress rows, most recently touched first.
func (s *ProgressService) ListForUser(ctx context.Context, userID uint) ([]model.UserProgress, error) {
	progresses := []model.UserProgress{}
	err := s.db.WithContext(ctx).
		Scopes(ProgressDetails).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id DESC").
		Find(&progresses).Error
	return progresses, err
}

// Get returns one progress row. Rows owned by someone else are Forbidden.
func (s *ProgressService) Get(ctx context.Context, userID, progressID uint) (*model.UserProgress, error) {
	progress, err := s.load(ctx, progressID)
	if err != nil {
		return nil, err
	}
	if progress.UserID != userID {
		return nil, apperror.Forbidden("Access denied")
	}
	return progress, nil
}

// Start creates the (user, course) row in progress, or forces an existing row back
// to in_progress. started_at is only set once and completed_at is kept.
func (s *ProgressService) Start(ctx context.Context, userID, courseID uint) (*model.UserProgress, error) {
	var progressID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course model.Course
		if err := tx.Select("id").First(&course, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("Course not found")
			}
			return err
		}

		now := s.now()
		progress := model.UserProgress{
			UserID:    userID,
			CourseID:  course.ID,
			Status:    model.ProgressInProgress,
			StartedAt: timePtr(now),
		}
		// uq_progress_user_course decides between concurrent first starts
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).Create(&progress)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			progressID = progress.ID
			return nil
		}

		var existing model.UserProgress
		if err := tx.Where("user_id = ? AND course_id = ?", userID, course.ID).First(&existing).Error; err != nil {
			return err
		}
		startProgress(&existing, now)
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		progressID = existing.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, progressID)
}

// Log adds listened seconds to the caller's progress row. It never creates a row.
func (s *ProgressService) Log(ctx context.Context, userID, progressID uint, seconds int) (*model.UserProgress, error) {
	if err := checkListenedSeconds(seconds); err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, byProgressID(progressID), func(p *model.UserProgress, now time.Time) error {
		return logListening(p, seconds, now)
	})
}

// LogCourse is Log addressed by course instead of progress id.
func (s *ProgressService) LogCourse(ctx context.Context, userID, courseID uint, seconds int) (*model.UserProgress, error) {
	if err := checkListenedSeconds(seconds); err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, byCourseID(courseID), func(p *model.UserProgress, now time.Time) error {
		return logListening(p, seconds, now)
	})
}

// Complete marks the caller's progress row completed, first adding seconds when given.
// Completing again refreshes completed_at.
func (s *ProgressService) Complete(ctx context.Context, userID, progressID uint, seconds *int) (*model.UserProgress, error) {
	if seconds != nil {
		if err := checkListenedSeconds(*seconds); err != nil {
			return nil, err
		}
	}
	return s.mutate(ctx, userID, byProgressID(progressID), func(p *model.UserProgress, now time.Time) error {
		return completeProgress(p, seconds, now)
	})
}

// CompleteCourse is Complete addressed by course instead of progress id.
func (s *ProgressService) CompleteCourse(ctx context.Context, userID, courseID uint, seconds *int) (*model.UserProgress, error) {
	if seconds != nil {
		if err := checkListenedSeconds(*seconds); err != nil {
			return nil, err
		}
	}
	return s.mutate(ctx, userID, byCourseID(courseID), func(p *model.UserProgress, now time.Time) error {
		return completeProgress(p, seconds, now)
	})
}

func byProgressID(id uint) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB { return tx.Where("id = ?", id) }
}

func byCourseID(id uint) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB { return tx.Where("course_id = ?", id) }
}

// mutate applies a transition to the caller's row found by locate.
// A row that is missing or owned by someone else is reported as NotFound.
func (s *ProgressService) mutate(
	ctx context.Context,
	userID uint,
	locate func(*gorm.DB) *gorm.DB,
	apply func(*model.UserProgress, time.Time) error,
) (*model.UserProgress, error) {
	var progressID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var progress model.UserProgress
		if err := tx.Scopes(locate).Where("user_id = ?", userID).First(&progress).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("Progress not found")
			}
			return err
		}
		if err := apply(&progress, s.now()); err != nil {
			return err
		}
		if err := tx.Save(&progress).Error; err != nil {
			return err
		}
		progressID = progress.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, progressID)
}

func (s *ProgressService) load(ctx context.Context, progressID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	if err := s.db.WithContext(ctx).Scopes(ProgressDetails).First(&progress, progressID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Progress not found")
		}
		return nil, err
	}
	return &progress, nil
}
