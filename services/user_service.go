package services

import (
	"context"

	"github.com/respir-app/respir-api/model"
	"github.com/respir-app/respir-api/utils/apperror"
	"github.com/respir-app/respir-api/utils/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserService resolves asserted caller identities to users.
//
// The identity comes from request headers and is not verified. Real authentication
// must be put in front of this before it is exposed publicly.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ResolveUser returns the user owning email, creating it on first sight.
// When fullName is non-empty and differs from the stored name, the stored name is replaced.
// The email itself is never changed.
func (s *UserService) ResolveUser(ctx context.Context, email, fullName string) (*model.User, error) {
	email = validation.SanitizeString(email)
	name := validation.SanitizeString(fullName)
	if email == "" {
		return nil, apperror.Unauthorized("Missing caller identity")
	}

	db := s.db.WithContext(ctx)

	var user model.User
	err := db.Where("email = ?", email).Limit(1).Find(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return s.createUser(db, email, name)
	}
	if err := renameUser(db, &user, name); err != nil {
		return nil, err
	}
	return &user, nil
}

// createUser inserts a first-seen caller. The unique index on email arbitrates
// concurrent first requests; the loser reads the winner's row.
func (s *UserService) createUser(db *gorm.DB, email, name string) (*model.User, error) {
	var user model.User
	err := db.Transaction(func(tx *gorm.DB) error {
		candidate := model.User{Email: email}
		if name != "" {
			candidate.FullName = &name
		}

		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).Create(&candidate)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			user = candidate
			return nil
		}

		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			return err
		}
		return renameUser(tx, &user, name)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func renameUser(db *gorm.DB, user *model.User, name string) error {
	if name == "" || (user.FullName != nil && *user.FullName == name) {
		return nil
	}
	user.FullName = &name
	return db.Save(user).Error
}
