package repository

import (
	"context"

	"app/internal/domain/model"
)

type CustomerOrderRepository interface {
	Create(ctx context.Context, order model.CustomerOrder) (int64, error)
	FindByID(ctx context.Context, orderID int64) (model.CustomerOrder, error)
	ListByCustomer(ctx context.Context, customerID int64, page int, limit int) ([]model.CustomerOrder, int64, error)
	ListByStore(ctx context.Context, storeID int64, page int, limit int) ([]model.CustomerOrder, int64, error)

	//現在statusがfromのときだけtoへ更新する。
	//0行更新なら状態が変わっていた（競合）ということ。
	UpdateStatusFrom(ctx context.Context, orderID int64, from, to model.CustomerOrderStatus) (bool, error)

	//キャンセルのソフトデリート（行は監査のため残す）
	Deactivate(ctx context.Context, orderID int64) error

	CreateItems(ctx context.Context, orderID int64, items []model.CustomerOrderItem) error
	ListItems(ctx context.Context, orderID int64) ([]model.CustomerOrderItem, error)
}
