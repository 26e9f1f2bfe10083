package model

import "time"

type SupplierOrderStatus string

const (
	SupplierOrderPending   SupplierOrderStatus = "pending"
	SupplierOrderApproved  SupplierOrderStatus = "approved"
	SupplierOrderRejected  SupplierOrderStatus = "rejected"
	SupplierOrderDelivered SupplierOrderStatus = "delivered"
	SupplierOrderCancelled SupplierOrderStatus = "cancelled"
)

func (s SupplierOrderStatus) IsTerminal() bool {
	return s == SupplierOrderRejected || s == SupplierOrderDelivered || s == SupplierOrderCancelled
}

type DeliveryStatus string

const (
	DeliveryComplete DeliveryStatus = "complete"
	DeliveryPartial  DeliveryStatus = "partial"
)

// 店長→サプライヤーの発注。
// 承認時にはExpectedDeliveryDate（未来日）が必須。
// 納品受入（検収）は1回のみ。DeliveryAcceptedDateが入っていれば受入済み。
type SupplierOrder struct {
	ID          int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string              `gorm:"type:varchar(30);not null;uniqueIndex" json:"order_number"`
	StoreID     int64               `gorm:"not null;index" json:"store_id"`
	ManagerID   int64               `gorm:"not null;index" json:"manager_id"`
	SupplierID  int64               `gorm:"not null;index" json:"supplier_id"`
	Status      SupplierOrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalAmount int64               `gorm:"not null" json:"total_amount"`

	//納品の全量/一部（受入前は空）
	DeliveryStatus DeliveryStatus `gorm:"type:varchar(20)" json:"delivery_status,omitempty"`

	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate   *time.Time `json:"actual_delivery_date,omitempty"`
	DeliveryAcceptedDate *time.Time `json:"delivery_accepted_date,omitempty"`

	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 発注明細。DeliveredQuantityは検収時に確定（0 ≤ delivered ≤ ordered）。
type SupplierOrderItem struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID           int64     `gorm:"not null;index" json:"order_id"`
	ProductID         int64     `gorm:"not null;index" json:"product_id"`
	Quantity          int64     `gorm:"not null" json:"quantity"`
	UnitPrice         int64     `gorm:"not null" json:"unit_price"`
	TotalPrice        int64     `gorm:"not null" json:"total_price"`
	DeliveredQuantity int64     `gorm:"not null;default:0" json:"delivered_quantity"`
	CreatedAt         time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
