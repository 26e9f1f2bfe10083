package model

import "time"

// 確定した購入の不変レコード。金額はサーバー側で再計算した値のみ保存する
// （クライアント送信の合計は信用しない）。
type Sale struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"transaction_id"`
	StoreID       int64     `gorm:"not null;index" json:"store_id"`
	CustomerID    int64     `gorm:"not null;index" json:"customer_id"`
	TotalAmount   int64     `gorm:"not null" json:"total_amount"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

type SaleItem struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleID     int64     `gorm:"not null;index" json:"sale_id"`
	ProductID  int64     `gorm:"not null;index" json:"product_id"`
	Quantity   int64     `gorm:"not null" json:"quantity"`
	UnitPrice  int64     `gorm:"not null" json:"unit_price"`
	TotalPrice int64     `gorm:"not null" json:"total_price"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
