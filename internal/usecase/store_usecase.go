package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type StoreUsecase struct {
	stores repo.StoreRepository
}

func NewStoreUsecase(stores repo.StoreRepository) *StoreUsecase {
	return &StoreUsecase{stores: stores}
}

type CreateStoreInput struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
}

func (u *StoreUsecase) AdminCreateStore(ctx context.Context, adminUserID int64, in CreateStoreInput) (int64, error) {
	if adminUserID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Name) == "" {
		return 0, NewHTTPError(http.StatusBadRequest, "name required")
	}

	id, err := u.stores.Create(ctx, model.Store{
		Name:     strings.TrimSpace(in.Name),
		Address:  strings.TrimSpace(in.Address),
		IsActive: true,
	})
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return id, nil
}

func (u *StoreUsecase) ListStores(ctx context.Context) ([]model.Store, error) {
	stores, err := u.stores.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return stores, nil
}

func (u *StoreUsecase) GetStore(ctx context.Context, storeID int64) (model.Store, error) {
	if storeID <= 0 {
		return model.Store{}, NewHTTPError(http.StatusBadRequest, "invalid store id")
	}

	s, err := u.stores.FindByID(ctx, storeID)
	if err == repo.ErrNotFound {
		return model.Store{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Store{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}
