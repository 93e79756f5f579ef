package repository

import (
	"context"

	"eduway/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BadgeRepository struct {
	db *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

func (r *BadgeRepository) Create(ctx context.Context, badge *domain.Badge) error {
	return r.db.WithContext(ctx).Create(badge).Error
}

func (r *BadgeRepository) ListByProfileID(ctx context.Context, profileID uuid.UUID) ([]domain.Badge, error) {
	var badges []domain.Badge
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at asc").
		Find(&badges).Error
	return badges, err
}

func (r *BadgeRepository) ExistsByProfileAndName(ctx context.Context, profileID uuid.UUID, badgeName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Badge{}).
		Where("profile_id = ? AND badge_name = ?", profileID, badgeName).
		Count(&count).Error
	return count > 0, err
}
