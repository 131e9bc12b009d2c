package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reputation-service/internal/models"
)

// ContactRepository handles customer contact database operations
type ContactRepository interface {
	Create(ctx context.Context, contact *models.CustomerContact) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CustomerContact, error)
	GetLatestByPhone(ctx context.Context, clientID, phone string) (*models.CustomerContact, error)
	ListByClient(ctx context.Context, clientID string, limit, offset int) ([]models.CustomerContact, int64, error)
	RecordReviewRequest(ctx context.Context, id uuid.UUID) error
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *models.CustomerContact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *contactRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CustomerContact, error) {
	var contact models.CustomerContact
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&contact).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

// GetLatestByPhone returns the most recent contact row for a client and
// phone number, or nil when no contact matches.
func (r *contactRepository) GetLatestByPhone(ctx context.Context, clientID, phone string) (*models.CustomerContact, error) {
	if phone == "" {
		return nil, nil
	}
	var contact models.CustomerContact
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND phone = ?", clientID, phone).
		Order("created_at DESC").
		First(&contact).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]models.CustomerContact, int64, error) {
	var contacts []models.CustomerContact
	var total int64

	query := r.db.WithContext(ctx).Where("client_id = ?", clientID)

	if err := query.Model(&models.CustomerContact{}).Count(&total).Error; err != nil {
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
		Find(&contacts).Error

	return contacts, total, err
}

// RecordReviewRequest increments the contact's review-request counter and
// stamps the send time. Concurrent requests may race; the counter is
// advisory telemetry, so a lost update is acceptable.
func (r *contactRepository) RecordReviewRequest(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.CustomerContact{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"review_request_count":   gorm.Expr("review_request_count + 1"),
			"last_review_request_at": &now,
			"updated_at":             now,
		}).Error
}
