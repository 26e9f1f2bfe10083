package repository

import (
	"context"

	"app/internal/domain/model"
)

type StoreRepository interface {
	Create(ctx context.Context, store model.Store) (int64, error)
	FindByID(ctx context.Context, storeID int64) (model.Store, error)
	List(ctx context.Context) ([]model.Store, error)
}
