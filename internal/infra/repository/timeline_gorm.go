package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type TimelineGormRepository struct {
	db *gorm.DB
}

func NewTimelineGormRepository(db *gorm.DB) *TimelineGormRepository {
	return &TimelineGormRepository{db: db}
}

func (r *TimelineGormRepository) Append(ctx context.Context, entry model.OrderTimelineEntry) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *TimelineGormRepository) ListByOrder(ctx context.Context, kind model.OrderKind, orderID int64) ([]model.OrderTimelineEntry, error) {
	var items []model.OrderTimelineEntry
	err := r.db.WithContext(ctx).
		Where("order_kind = ? AND order_id = ?", kind, orderID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.OrderTimelineEntry{}, err
	}
	return items, nil
}
