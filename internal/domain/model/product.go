package model

import (
	"time"

	"gorm.io/gorm"
)

// 商品。Stockは店舗横断のカタログ在庫（ミラー）。
// 台帳（StockLedgerEntry）の合計と常に同一トランザクション内で同期する。
type Product struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       int64          `gorm:"not null" json:"price"`
	Stock       int64          `gorm:"not null" json:"stock"`
	IsActive    bool           `gorm:"not null;default:false" json:"is_active"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// 商品の販売許可店舗（多対多の割り当て）。
type ProductStore struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;uniqueIndex:idx_product_store" json:"product_id"`
	StoreID   int64     `gorm:"not null;uniqueIndex:idx_product_store" json:"store_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
