package repository

import (
	"context"

	"gorm.io/gorm"

	"reputation-service/internal/models"
)

// ClientRepository handles client (tenant) database operations
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id string) (*models.Client, error)
	GetByPhoneNumber(ctx context.Context, phone string) (*models.Client, error)
	List(ctx context.Context, limit, offset int) ([]models.Client, int64, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id string) error
}

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&client).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

// GetByPhoneNumber resolves a client by its inbound phone number. The number
// is the routing key for voice/SMS webhooks; at most one client matches.
func (r *clientRepository) GetByPhoneNumber(ctx context.Context, phone string) (*models.Client, error) {
	if phone == "" {
		return nil, nil
	}
	var client models.Client
	err := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&client).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context, limit, offset int) ([]models.Client, int64, error) {
	var clients []models.Client
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Client{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&clients).Error

	return clients, total, err
}

func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Client{}).Error
}
