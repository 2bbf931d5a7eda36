package services

import (
	"context"
	"errors"
	"time"

	"github.com/respir-app/respir-api/database"
	"github.com/respir-app/respir-api/model"
	"github.com/respir-app/respir-api/utils/apperror"
	"gorm.io/gorm"
)

const duplicateTitleMessage = "A course with this title already exists"

// CourseFilter narrows course listings; nil fields are ignored.
type CourseFilter struct {
	CategoryID *uint
	LevelID    *uint
	AmbienceID *uint
}

// CourseService manages courses and the sessions they own.
type CourseService struct {
	db *gorm.DB
}

func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{db: db}
}

func (s *CourseService) List(ctx context.Context, filter CourseFilter) ([]model.Course, error) {
	query := s.db.WithContext(ctx).Scopes(CourseDetails)
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.LevelID != nil {
		query = query.Where("level_id = ?", *filter.LevelID)
	}
	if filter.AmbienceID != nil {
		query = query.Where("ambience_id = ?", *filter.AmbienceID)
	}

	courses := []model.Course{}
	if err := query.Order("title ASC, id ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *CourseService) Get(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	if err := s.db.WithContext(ctx).Scopes(CourseDetails).First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Course not found")
		}
		return nil, err
	}
	return &course, nil
}

// Create inserts a course without sessions. Title collisions are reported as Conflict.
func (s *CourseService) Create(ctx context.Context, course *model.Course) (*model.Course, error) {
	course.ID = 0
	course.Sessions = nil
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, course.CategoryID, course.LevelID, course.AmbienceID); err != nil {
			return err
		}
		if err := tx.Omit("Category", "Level", "Ambience", "Sessions").Create(course).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return apperror.Conflict(duplicateTitleMessage)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, course.ID)
}

// Update applies a column patch. A nil value clears the column.
func (s *CourseService) Update(ctx context.Context, id uint, changes map[string]interface{}) (*model.Course, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course model.Course
		if err := tx.First(&course, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("Course not found")
			}
			return err
		}
		if err := checkReferences(tx,
			refFromChanges(changes, "category_id"),
			refFromChanges(changes, "level_id"),
			refFromChanges(changes, "ambience_id"),
		); err != nil {
			return err
		}

		changes["updated_at"] = time.Now().UTC()
		if err := tx.Model(&course).Updates(changes).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return apperror.Conflict(duplicateTitleMessage)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the course together with its sessions and every progress row on it.
func (s *CourseService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course model.Course
		if err := tx.Select("id").First(&course, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("Course not found")
			}
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&model.CourseSession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&model.UserProgress{}).Error; err != nil {
			return err
		}
		return tx.Delete(&course).Error
	})
}

func (s *CourseService) ListSessions(ctx context.Context, courseID uint) ([]model.CourseSession, error) {
	sessions := []model.CourseSession{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := courseExists(tx, courseID); err != nil {
			return err
		}
		return tx.Scopes(OrderedSessions).Where("course_id = ?", courseID).Find(&sessions).Error
	})
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// AddSession appends a session to the course. payloadCourseID, when sent, must match courseID.
func (s *CourseService) AddSession(ctx context.Context, courseID uint, payloadCourseID *uint, session *model.CourseSession) (*model.CourseSession, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := courseExists(tx, courseID); err != nil {
			return err
		}
		if payloadCourseID != nil && *payloadCourseID != courseID {
			return apperror.BadRequest("course_id does not match the course in the path")
		}

		session.ID = 0
		session.CourseID = courseID
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		return touchCourse(tx, courseID)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// UpdateSession patches a session of the course. Sessions of other courses are NotFound.
func (s *CourseService) UpdateSession(ctx context.Context, courseID, sessionID uint, payloadCourseID *uint, changes map[string]interface{}) (*model.CourseSession, error) {
	if payloadCourseID != nil && *payloadCourseID != courseID {
		return nil, apperror.BadRequest("course_id does not match the course in the path")
	}

	var session model.CourseSession
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findSession(tx, courseID, sessionID, &session); err != nil {
			return err
		}
		changes["updated_at"] = time.Now().UTC()
		if err := tx.Model(&session).Updates(changes).Error; err != nil {
			return err
		}
		if err := touchCourse(tx, courseID); err != nil {
			return err
		}
		return tx.First(&session, sessionID).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *CourseService) DeleteSession(ctx context.Context, courseID, sessionID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session model.CourseSession
		if err := findSession(tx, courseID, sessionID, &session); err != nil {
			return err
		}
		if err := tx.Delete(&session).Error; err != nil {
			return err
		}
		return touchCourse(tx, courseID)
	})
}

func courseExists(tx *gorm.DB, courseID uint) error {
	var count int64
	if err := tx.Model(&model.Course{}).Where("id = ?", courseID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperror.NotFound("Course not found")
	}
	return nil
}

func findSession(tx *gorm.DB, courseID, sessionID uint, session *model.CourseSession) error {
	err := tx.Where("id = ? AND course_id = ?", sessionID, courseID).First(session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("Session not found for this course")
	}
	return err
}

// touchCourse bumps updated_at on the parent so clients see the course changed.
func touchCourse(tx *gorm.DB, courseID uint) error {
	return tx.Model(&model.Course{}).
		Where("id = ?", courseID).
		UpdateColumn("updated_at", time.Now().UTC()).Error
}

func checkReferences(tx *gorm.DB, categoryID, levelID, ambienceID *uint) error {
	refs := []struct {
		id      *uint
		model   interface{}
		message string
	}{
		{categoryID, &model.Category{}, "Category not found"},
		{levelID, &model.Level{}, "Level not found"},
		{ambienceID, &model.Ambience{}, "Ambience not found"},
	}
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		var count int64
		if err := tx.Model(ref.model).Where("id = ?", *ref.id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperror.NotFound(ref.message)
		}
	}
	return nil
}

func refFromChanges(changes map[string]interface{}, column string) *uint {
	if id, ok := changes[column].(uint); ok {
		return &id
	}
	return nil
}
