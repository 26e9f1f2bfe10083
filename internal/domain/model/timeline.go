package model

import "time"

type OrderKind string

const (
	OrderKindCustomer OrderKind = "customer"
	OrderKindSupplier OrderKind = "supplier"
)

// 注文ステータス変更の監査証跡。追記専用。
// 注文の監査はこのタイムラインだけで行う（別のイベントストアは持たない）。
type OrderTimelineEntry struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderKind OrderKind `gorm:"type:varchar(20);not null;index:idx_timeline_order" json:"order_kind"`
	OrderID   int64     `gorm:"not null;index:idx_timeline_order" json:"order_id"`
	Status    string    `gorm:"type:varchar(30);not null" json:"status"`
	UpdatedBy int64     `gorm:"not null" json:"updated_by"`
	Notes     string    `gorm:"type:varchar(500)" json:"notes"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"timestamp"`
}
