package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

// 検収結果の一括反映
type DeliveryResultUpdate struct {
	DeliveryStatus       model.DeliveryStatus
	DeliveryAcceptedDate time.Time
	//全量納品のときだけ入る
	ActualDeliveryDate *time.Time
}

type SupplierOrderRepository interface {
	Create(ctx context.Context, order model.SupplierOrder) (int64, error)
	FindByID(ctx context.Context, orderID int64) (model.SupplierOrder, error)
	ListByManager(ctx context.Context, managerID int64, page int, limit int) ([]model.SupplierOrder, int64, error)
	ListBySupplier(ctx context.Context, supplierID int64, page int, limit int) ([]model.SupplierOrder, int64, error)

	//現在statusがfromのときだけtoへ更新する（競合は0行更新で検出）
	UpdateStatusFrom(ctx context.Context, orderID int64, from, to model.SupplierOrderStatus) (bool, error)

	SetExpectedDeliveryDate(ctx context.Context, orderID int64, date *time.Time) error
	SetDeliveryResult(ctx context.Context, orderID int64, upd DeliveryResultUpdate) error
	SetActualDeliveryDate(ctx context.Context, orderID int64, date time.Time) error

	Deactivate(ctx context.Context, orderID int64) error

	CreateItems(ctx context.Context, orderID int64, items []model.SupplierOrderItem) error
	ListItems(ctx context.Context, orderID int64) ([]model.SupplierOrderItem, error)
	SetItemDeliveredQuantity(ctx context.Context, itemID int64, qty int64) error
}
