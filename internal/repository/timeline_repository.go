package repository

import (
	"context"

	"app/internal/domain/model"
)

// 注文タイムライン（ステータス変更の監査証跡）。追記のみ。
type TimelineRepository interface {
	Append(ctx context.Context, entry model.OrderTimelineEntry) error
	ListByOrder(ctx context.Context, kind model.OrderKind, orderID int64) ([]model.OrderTimelineEntry, error)
}
