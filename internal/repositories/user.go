package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"careerpilot/career-audit/internal/models"
)

type UserRepository interface {
	// Upsert returns the existing user for externalID unchanged, or creates
	// one with the default tier and a zero streak.
	Upsert(ctx context.Context, externalID, email, name string) (*models.User, error)
	FindByExternalID(ctx context.Context, externalID string) (*models.User, error)
	TouchLastAudit(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Upsert implements UserRepository.
func (r *userRepository) Upsert(ctx context.Context, externalID, email, name string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user = models.User{
		ID:               uuid.New(),
		ExternalID:       externalID,
		Email:            email,
		Name:             name,
		SubscriptionTier: "free",
		StreakCount:      0,
		CreatedAt:        time.Now(),
	}

	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// FindByExternalID implements UserRepository.
func (r *userRepository) FindByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// TouchLastAudit implements UserRepository.
func (r *userRepository) TouchLastAudit(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("last_audit_at", time.Now())

	if result.Error != nil {
		return fmt.Errorf("failed to update last audit time: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}
