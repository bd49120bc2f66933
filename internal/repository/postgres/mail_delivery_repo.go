package postgres

import (
	"context"

	"github.com/dom/blog-website/internal/domain"
	"gorm.io/gorm"
)

type mailDeliveryRepository struct {
	db *gorm.DB
}

func NewMailDeliveryRepository(db *gorm.DB) *mailDeliveryRepository {
	return &mailDeliveryRepository{db: db}
}

func (r *mailDeliveryRepository) Create(ctx context.Context, delivery *domain.MailDelivery) error {
	return r.db.WithContext(ctx).Create(delivery).Error
}
