package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reputation-service/internal/models"
)

// LeadRepository handles lead database operations. Leads are append-only;
// there is no update operation.
type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	ListByClient(ctx context.Context, clientID string, limit, offset int) ([]models.Lead, int64, error)
}

type leadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) Create(ctx context.Context, lead *models.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *leadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&lead).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &lead, nil
}

func (r *leadRepository) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]models.Lead, int64, error) {
	var leads []models.Lead
	var total int64

	query := r.db.WithContext(ctx).Where("client_id = ?", clientID)

	if err := query.Model(&models.Lead{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&leads).Error

	return leads, total, err
}
