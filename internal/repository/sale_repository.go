package repository

import (
	"context"

	"app/internal/domain/model"
)

type SaleRepository interface {
	Create(ctx context.Context, sale model.Sale) (int64, error)
	CreateItems(ctx context.Context, saleID int64, items []model.SaleItem) error
	FindByID(ctx context.Context, saleID int64) (model.Sale, error)
	ListItems(ctx context.Context, saleID int64) ([]model.SaleItem, error)
	ListByStore(ctx context.Context, storeID int64, page int, limit int) ([]model.Sale, int64, error)
}
