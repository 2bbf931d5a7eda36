package services

import (
	"context"
	"errors"
	"time"

	"github.com/respir-app/respir-api/model"
	"github.com/respir-app/respir-api/utils/apperror"
	"gorm.io/gorm"
)

// LookupService serves the small reference tables courses point at
// (categories, levels, ambiances).
type LookupService[T any] struct {
	db        *gorm.DB
	order     string
	refColumn string
	notFound  string
}

func NewCategoryService(db *gorm.DB) *LookupService[model.Category] {
	return &LookupService[model.Category]{db: db, order: "name ASC, id ASC", refColumn: "category_id", notFound: "Category not found"}
}

func NewLevelService(db *gorm.DB) *LookupService[model.Level] {
	return &LookupService[model.Level]{db: db, order: LevelOrder, refColumn: "level_id", notFound: "Level not found"}
}

func NewAmbienceService(db *gorm.DB) *LookupService[model.Ambience] {
	return &LookupService[model.Ambience]{db: db, order: "name ASC, id ASC", refColumn: "ambience_id", notFound: "Ambience not found"}
}

func (s *LookupService[T]) List(ctx context.Context) ([]T, error) {
	rows := []T{}
	if err := s.db.WithContext(ctx).Order(s.order).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *LookupService[T]) Get(ctx context.Context, id uint) (*T, error) {
	var row T
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(s.notFound)
		}
		return nil, err
	}
	return &row, nil
}

func (s *LookupService[T]) Create(ctx context.Context, row *T) (*T, error) {
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update applies a column patch; a nil value clears the column.
func (s *LookupService[T]) Update(ctx context.Context, id uint, changes map[string]interface{}) (*T, error) {
	var row T
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound(s.notFound)
			}
			return err
		}
		changes["updated_at"] = time.Now().UTC()
		if err := tx.Model(&row).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(&row, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Delete removes the row after detaching every course that referenced it.
func (s *LookupService[T]) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row T
		if err := tx.First(&row, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound(s.notFound)
			}
			return err
		}
		err := tx.Model(&model.Course{}).
			Where(s.refColumn+" = ?", id).
			Updates(map[string]interface{}{s.refColumn: nil, "updated_at": time.Now().UTC()}).Error
		if err != nil {
			return err
		}
		return tx.Delete(&row).Error
	})
}
