package model

import "time"

type StockMovementType string

const (
	MovementIn         StockMovementType = "in"
	MovementOut        StockMovementType = "out"
	MovementAdjustment StockMovementType = "adjustment"
	MovementTransfer   StockMovementType = "transfer"
)

type StockStatus string

const (
	StockStatusOutOfStock StockStatus = "out_of_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOverstock  StockStatus = "overstock"
	StockStatusInStock    StockStatus = "in_stock"
)

// 台帳エントリが無いときの初期値
const (
	DefaultReorderLevel = 10
	DefaultMaxStock     = 100
)

// （店舗×商品）ごとの在庫台帳。
// Quantityは全movementをゼロから順に適用した結果と常に一致する。
// 作成は最初の在庫イベント時（遅延作成）。削除はしない。
type StockLedgerEntry struct {
	ID           int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	StoreID      int64 `gorm:"not null;uniqueIndex:idx_store_product" json:"store_id"`
	ProductID    int64 `gorm:"not null;uniqueIndex:idx_store_product" json:"product_id"`
	Quantity     int64 `gorm:"not null" json:"quantity"`
	ReorderLevel int64 `gorm:"not null" json:"reorder_level"`
	MaxStock     int64 `gorm:"not null" json:"max_stock"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 在庫の移動履歴。追記専用で編集・削除はしない（監査証跡）。
type StockMovement struct {
	ID            int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	LedgerEntryID int64             `gorm:"not null;index" json:"ledger_entry_id"`
	Type          StockMovementType `gorm:"type:varchar(20);not null" json:"type"`
	Quantity      int64             `gorm:"not null" json:"quantity"`
	Reason        string            `gorm:"type:varchar(255);not null" json:"reason"`
	Reference     string            `gorm:"type:varchar(255)" json:"reference"`
	PerformedBy   int64             `gorm:"not null" json:"performed_by"`
	CreatedAt     time.Time         `gorm:"not null;autoCreateTime" json:"timestamp"`
}

// 在庫ステータス判定。判定順は固定：
// out_of_stock > low_stock > overstock > in_stock。
// quantity=0 かつ reorderLevel=0 でも out_of_stock になる。
func ClassifyStock(quantity, reorderLevel, maxStock int64) StockStatus {
	switch {
	case quantity == 0:
		return StockStatusOutOfStock
	case quantity <= reorderLevel:
		return StockStatusLowStock
	case quantity >= maxStock:
		return StockStatusOverstock
	default:
		return StockStatusInStock
	}
}

// エントリの現在ステータス
func (e StockLedgerEntry) Status() StockStatus {
	return ClassifyStock(e.Quantity, e.ReorderLevel, e.MaxStock)
}
