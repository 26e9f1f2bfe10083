package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type LedgerGormRepository struct {
	db *gorm.DB
}

func NewLedgerGormRepository(db *gorm.DB) *LedgerGormRepository {
	return &LedgerGormRepository{db: db}
}

func (r *LedgerGormRepository) FindByID(ctx context.Context, entryID int64) (model.StockLedgerEntry, error) {
	var e model.StockLedgerEntry
	err := r.db.WithContext(ctx).Where("id = ?", entryID).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.StockLedgerEntry{}, repo.ErrNotFound
	}
	if err != nil {
		return model.StockLedgerEntry{}, err
	}
	return e, nil
}

func (r *LedgerGormRepository) FindByStoreProduct(ctx context.Context, storeID int64, productID int64) (model.StockLedgerEntry, error) {
	var e model.StockLedgerEntry
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.StockLedgerEntry{}, repo.ErrNotFound
	}
	if err != nil {
		return model.StockLedgerEntry{}, err
	}
	return e, nil
}

func (r *LedgerGormRepository) Create(ctx context.Context, e model.StockLedgerEntry) (model.StockLedgerEntry, error) {
	if err := r.db.WithContext(ctx).Create(&e).Error; err != nil {
		return model.StockLedgerEntry{}, err
	}
	return e, nil
}

func (r *LedgerGormRepository) ListByStore(ctx context.Context, storeID int64) ([]model.StockLedgerEntry, error) {
	var items []model.StockLedgerEntry
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("product_id asc").
		Find(&items).Error
	if err != nil {
		return []model.StockLedgerEntry{}, err
	}
	return items, nil
}

// 数量更新はすべてRowsAffectedで存在確認するUPDATE1本。
// 読み→書きの二段にしない（同時更新でロストアップデートになるため）。

func (r *LedgerGormRepository) AddQuantity(ctx context.Context, entryID int64, qty int64) error {
	return r.updateQuantity(ctx, entryID, gorm.Expr("quantity + ?", qty))
}

func (r *LedgerGormRepository) SubtractQuantityFloored(ctx context.Context, entryID int64, qty int64) error {
	return r.updateQuantity(ctx, entryID, gorm.Expr("GREATEST(quantity - ?, 0)", qty))
}

func (r *LedgerGormRepository) SetQuantity(ctx context.Context, entryID int64, qty int64) error {
	return r.updateQuantity(ctx, entryID, qty)
}

func (r *LedgerGormRepository) ShiftQuantityFloored(ctx context.Context, entryID int64, delta int64) error {
	return r.updateQuantity(ctx, entryID, gorm.Expr("GREATEST(quantity + ?, 0)", delta))
}

func (r *LedgerGormRepository) updateQuantity(ctx context.Context, entryID int64, value interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&model.StockLedgerEntry{}).
		Where("id = ?", entryID).
		Update("quantity", value)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *LedgerGormRepository) AppendMovement(ctx context.Context, m model.StockMovement) error {
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *LedgerGormRepository) ListMovements(ctx context.Context, entryID int64) ([]model.StockMovement, error) {
	var items []model.StockMovement
	err := r.db.WithContext(ctx).
		Where("ledger_entry_id = ?", entryID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.StockMovement{}, err
	}
	return items, nil
}

func (r *LedgerGormRepository) SumQuantityByProduct(ctx context.Context, productID int64) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&model.StockLedgerEntry{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}
