package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/athlos-portal-api/internal/models"
)

// UpsertOutcome reports what a version-checked upsert did.
type UpsertOutcome int

const (
	// UpsertCreated means no record existed for the external id.
	UpsertCreated UpsertOutcome = iota
	// UpsertUpdated means the incoming version won and fields were applied.
	UpsertUpdated
	// UpsertStale means the incoming version was not newer; nothing changed.
	UpsertStale
)

// UserUpsert carries the fields an identity event may apply to a user
// record. Role is applied only when non-empty; new records without a role
// default to student.
type UserUpsert struct {
	ExternalID string
	Email      string
	FirstName  string
	LastName   string
	Role       string
	Metadata   datatypes.JSON
	Version    int64
}

// UserFilter narrows admin directory listings.
type UserFilter struct {
	Search   string
	Role     string
	Page     int
	PageSize int
}

// UserRepository owns the canonical user records.
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (models.User, error)
	FindByExternalID(ctx context.Context, externalID string) (models.User, error)
	UpsertByExternalID(ctx context.Context, change UserUpsert) (models.User, UpsertOutcome, error)
	UpdateRole(ctx context.Context, id uint, role string) (models.User, error)
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs a user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) FindByExternalID(ctx context.Context, externalID string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpsertByExternalID creates or updates a user record inside a transaction.
// Updates are conditional on the stored version being older than the
// incoming one, so concurrent or replayed events for the same external id
// cannot regress state or interleave partial writes.
func (r *userRepository) UpsertByExternalID(ctx context.Context, change UserUpsert) (models.User, UpsertOutcome, error) {
	var result models.User
	outcome := UpsertStale

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("external_id = ?", change.ExternalID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			role := change.Role
			if role == "" {
				role = models.DefaultRole
			}
			created := models.User{
				ExternalID:  change.ExternalID,
				Email:       change.Email,
				FirstName:   change.FirstName,
				LastName:    change.LastName,
				Role:        role,
				Metadata:    change.Metadata,
				SyncVersion: change.Version,
			}
			if err := tx.Create(&created).Error; err != nil {
				return err
			}
			result = created
			outcome = UpsertCreated
			return nil
		case err != nil:
			return err
		}

		if change.Version <= existing.SyncVersion {
			result = existing
			outcome = UpsertStale
			return nil
		}

		updates := map[string]interface{}{
			"email":        change.Email,
			"first_name":   change.FirstName,
			"last_name":    change.LastName,
			"sync_version": change.Version,
		}
		if change.Role != "" {
			updates["role"] = change.Role
		}
		if len(change.Metadata) > 0 {
			updates["metadata"] = change.Metadata
		}

		// Version guard repeated in the WHERE clause: if a concurrent event
		// advanced the record between the read and this write, zero rows
		// match and the event is absorbed as stale.
		applied := tx.Model(&models.User{}).
			Where("external_id = ? AND sync_version < ?", change.ExternalID, change.Version).
			Updates(updates)
		if applied.Error != nil {
			return applied.Error
		}
		if applied.RowsAffected == 0 {
			outcome = UpsertStale
		} else {
			outcome = UpsertUpdated
		}

		return tx.Where("external_id = ?", change.ExternalID).First(&result).Error
	})
	if err != nil {
		return models.User{}, UpsertStale, err
	}

	return result, outcome, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id uint, role string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updated := tx.Model(&models.User{}).Where("id = ?", id).Update("role", role)
		if updated.Error != nil {
			return updated.Error
		}
		if updated.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&user, id).Error
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like, like)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
