package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/totegamma/funnelbuilder/internal/domain"
	"github.com/totegamma/funnelbuilder/internal/infra/database/models"
)

type FunnelRepository struct {
	db *gorm.DB
}

func NewFunnelRepository(db *gorm.DB) *FunnelRepository {
	return &FunnelRepository{db: db}
}

func (r *FunnelRepository) ListByUser(ctx context.Context, userID string) ([]domain.Funnel, error) {
	var rows []models.Funnel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	funnels := make([]domain.Funnel, 0, len(rows))
	for _, row := range rows {
		funnels = append(funnels, funnelFromModel(row))
	}
	return funnels, nil
}

func (r *FunnelRepository) Get(ctx context.Context, id string) (domain.Funnel, error) {
	var row models.Funnel
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Funnel{}, domain.NotFoundError{Resource: "funnel"}
		}
		return domain.Funnel{}, err
	}
	return funnelFromModel(row), nil
}

func (r *FunnelRepository) Create(ctx context.Context, funnel domain.Funnel) (domain.Funnel, error) {
	row := models.Funnel{
		ID:        uuid.NewString(),
		UserID:    funnel.UserID,
		Name:      funnel.Name,
		Status:    string(funnel.Status),
		CreatedAt: time.Now(),
	}
	if row.Status == "" {
		row.Status = string(domain.FunnelStatusDraft)
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Funnel{}, err
	}
	return funnelFromModel(row), nil
}

func (r *FunnelRepository) Rename(ctx context.Context, id, name string) (domain.Funnel, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Funnel{}).
		Where("id = ?", id).
		Update("name", name)
	if result.Error != nil {
		return domain.Funnel{}, result.Error
	}
	if result.RowsAffected == 0 {
		return domain.Funnel{}, domain.NotFoundError{Resource: "funnel"}
	}
	return r.Get(ctx, id)
}

func funnelFromModel(row models.Funnel) domain.Funnel {
	return domain.Funnel{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      row.Name,
		Status:    domain.FunnelStatus(row.Status),
		CreatedAt: row.CreatedAt,
	}
}
