package repository

import (
	"context"

	"app/internal/domain/model"
)

// 在庫台帳の永続化を約束。
// 数量更新はすべて1本のUPDATEで行う（ストレージ側のアトミック更新が唯一の書き込み経路）。
type LedgerRepository interface {
	FindByID(ctx context.Context, entryID int64) (model.StockLedgerEntry, error)
	FindByStoreProduct(ctx context.Context, storeID int64, productID int64) (model.StockLedgerEntry, error)
	Create(ctx context.Context, e model.StockLedgerEntry) (model.StockLedgerEntry, error)
	ListByStore(ctx context.Context, storeID int64) ([]model.StockLedgerEntry, error)

	// in: quantity + qty
	AddQuantity(ctx context.Context, entryID int64, qty int64) error
	// out: GREATEST(quantity - qty, 0)（マイナスにはしない）
	SubtractQuantityFloored(ctx context.Context, entryID int64, qty int64) error
	// adjustment: 絶対値で上書き
	SetQuantity(ctx context.Context, entryID int64, qty int64) error
	// transfer: GREATEST(quantity + delta, 0)（符号付きデルタ）
	ShiftQuantityFloored(ctx context.Context, entryID int64, delta int64) error

	//移動履歴の追記（追記専用、編集・削除なし）
	AppendMovement(ctx context.Context, m model.StockMovement) error
	ListMovements(ctx context.Context, entryID int64) ([]model.StockMovement, error)

	//商品の台帳数量合計（ミラー再構築用）
	SumQuantityByProduct(ctx context.Context, productID int64) (int64, error)
}
