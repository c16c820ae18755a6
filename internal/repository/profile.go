package repository

import (
	"context"
	"errors"

	"devconnect/internal/cache"
	"devconnect/internal/models"
	"devconnect/internal/observability"

	"gorm.io/gorm"
)

// ErrVersionConflict is returned by Update when the row was modified since it
// was read. Callers re-read and retry.
var ErrVersionConflict = errors.New("profile was modified concurrently")

// ProfileRepository defines persistence operations for developer profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	List(ctx context.Context, limit, offset int) ([]models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
	DeleteByUserID(ctx context.Context, userID uint) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "GetByUserID", "profiles")
	defer span.End()

	var profile models.Profile
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("There is no profile for this user")
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			// Another request created the profile first; surface as a
			// version conflict so the caller re-reads and merges.
			return ErrVersionConflict
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateProfile(ctx, profile.UserID)
	return nil
}

// Update writes the profile with a compare-and-swap on the version column.
// The in-memory Version is bumped only when the write lands.
func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	ctx, span := observability.TraceRepositoryMethod(ctx, "Update", "profiles")
	defer span.End()

	expected := profile.Version
	profile.Version = expected + 1

	res := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ? AND version = ?", profile.ID, expected).
		Select("company", "website", "location", "status", "bio",
			"github_username", "skills", "social", "experience", "version").
		Updates(profile)
	if res.Error != nil {
		profile.Version = expected
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		profile.Version = expected
		return ErrVersionConflict
	}
	cache.InvalidateProfile(ctx, profile.UserID)
	return nil
}

func (r *profileRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Profile{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProfile(ctx, userID)
	return nil
}
