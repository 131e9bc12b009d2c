package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reputation-service/internal/models"
)

// ProfileRepository handles profile and client-user link operations
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	Delete(ctx context.Context, id uuid.UUID) error

	LinkToClient(ctx context.Context, profileID uuid.UUID, clientID string) error
	UnlinkFromClient(ctx context.Context, profileID uuid.UUID, clientID string) error
	ListByClient(ctx context.Context, clientID string) ([]models.Profile, error)
	HasClientAccess(ctx context.Context, profileID uuid.UUID, clientID string) (bool, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Profile{}).Error
}

func (r *profileRepository) LinkToClient(ctx context.Context, profileID uuid.UUID, clientID string) error {
	link := &models.ClientUser{
		ProfileID: profileID,
		ClientID:  clientID,
	}
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *profileRepository) UnlinkFromClient(ctx context.Context, profileID uuid.UUID, clientID string) error {
	return r.db.WithContext(ctx).
		Where("profile_id = ? AND client_id = ?", profileID, clientID).
		Delete(&models.ClientUser{}).Error
}

func (r *profileRepository) ListByClient(ctx context.Context, clientID string) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.WithContext(ctx).
		Joins("JOIN client_users ON client_users.profile_id = profiles.id").
		Where("client_users.client_id = ?", clientID).
		Find(&profiles).Error
	return profiles, err
}

func (r *profileRepository) HasClientAccess(ctx context.Context, profileID uuid.UUID, clientID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClientUser{}).
		Where("profile_id = ? AND client_id = ?", profileID, clientID).
		Count(&count).Error
	return count > 0, err
}
