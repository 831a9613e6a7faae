package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/athlos-portal-api/internal/models"
)

// StudentProfileRepository persists athlete profiles bound to user records.
type StudentProfileRepository interface {
	Create(ctx context.Context, profile *models.StudentProfile) error
	GetByUserID(ctx context.Context, userID uint) (models.StudentProfile, error)
	Update(ctx context.Context, userID uint, updates map[string]interface{}) (models.StudentProfile, error)
}

type studentProfileRepository struct {
	db *gorm.DB
}

// NewStudentProfileRepository constructs a student profile repository.
func NewStudentProfileRepository(db *gorm.DB) StudentProfileRepository {
	return &studentProfileRepository{db: db}
}

func (r *studentProfileRepository) Create(ctx context.Context, profile *models.StudentProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *studentProfileRepository) GetByUserID(ctx context.Context, userID uint) (models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return models.StudentProfile{}, err
	}
	return profile, nil
}

func (r *studentProfileRepository) Update(ctx context.Context, userID uint, updates map[string]interface{}) (models.StudentProfile, error) {
	var profile models.StudentProfile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		applied := tx.Model(&models.StudentProfile{}).Where("user_id = ?", userID).Updates(updates)
		if applied.Error != nil {
			return applied.Error
		}
		if applied.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("user_id = ?", userID).First(&profile).Error
	})
	if err != nil {
		return models.StudentProfile{}, err
	}
	return profile, nil
}
