package repository

import (
	"context"
	"errors"

	"eduway/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.db.WithContext(ctx).
		Preload("Badges").
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Save upserts the profile row. Badge rows are managed by BadgeRepository,
// so associations are omitted here.
func (r *ProfileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(profile).Error
}

// DeleteByUserID removes the profile together with its badge rows. A missing
// profile is not an error.
func (r *ProfileRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	var profile domain.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return r.db.WithContext(ctx).
		Select("Badges").
		Delete(&profile).Error
}
