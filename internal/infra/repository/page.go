package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/totegamma/funnelbuilder/internal/domain"
	"github.com/totegamma/funnelbuilder/internal/infra/database/models"
)

type PageRepository struct {
	db *gorm.DB
}

func NewPageRepository(db *gorm.DB) *PageRepository {
	return &PageRepository{db: db}
}

func (r *PageRepository) ListByFunnel(ctx context.Context, funnelID string) ([]domain.Page, error) {
	var rows []models.Page
	err := r.db.WithContext(ctx).
		Where("funnel_id = ?", funnelID).
		Order("order_position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	pages := make([]domain.Page, 0, len(rows))
	for _, row := range rows {
		pages = append(pages, pageFromModel(row))
	}
	return pages, nil
}

func (r *PageRepository) Create(ctx context.Context, page domain.Page) (domain.Page, error) {
	row := models.Page{
		ID:            uuid.NewString(),
		FunnelID:      page.FunnelID,
		Name:          page.Name,
		Type:          page.Type,
		OrderPosition: page.OrderPosition,
		CreatedAt:     time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Page{}, err
	}
	return pageFromModel(row), nil
}

func pageFromModel(row models.Page) domain.Page {
	return domain.Page{
		ID:            row.ID,
		FunnelID:      row.FunnelID,
		Name:          row.Name,
		Type:          row.Type,
		OrderPosition: row.OrderPosition,
		CreatedAt:     row.CreatedAt,
	}
}
