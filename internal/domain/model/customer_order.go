package model

import "time"

type CustomerOrderStatus string

const (
	CustomerOrderReceived  CustomerOrderStatus = "Order Received"
	CustomerOrderCompleted CustomerOrderStatus = "Order Completed"
	CustomerOrderRejected  CustomerOrderStatus = "Order Rejected"
	CustomerOrderCancelled CustomerOrderStatus = "Order Cancelled"
)

// 終端ステータスか（以後の遷移は禁止）
func (s CustomerOrderStatus) IsTerminal() bool {
	return s == CustomerOrderCompleted || s == CustomerOrderRejected || s == CustomerOrderCancelled
}

// 顧客→店舗の注文。物理削除はせず、キャンセルはIsActive=falseで表す。
type CustomerOrder struct {
	ID          int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string              `gorm:"type:varchar(30);not null;uniqueIndex" json:"order_number"`
	StoreID     int64               `gorm:"not null;index" json:"store_id"`
	CustomerID  int64               `gorm:"not null;index" json:"customer_id"`
	Status      CustomerOrderStatus `gorm:"type:varchar(30);not null;index" json:"status"`
	TotalAmount int64               `gorm:"not null" json:"total_amount"`
	IsActive    bool                `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 注文明細。TotalPrice = Quantity × UnitPrice を常に満たす。
type CustomerOrderItem struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID    int64     `gorm:"not null;index" json:"order_id"`
	ProductID  int64     `gorm:"not null;index" json:"product_id"`
	Quantity   int64     `gorm:"not null" json:"quantity"`
	UnitPrice  int64     `gorm:"not null" json:"unit_price"`
	TotalPrice int64     `gorm:"not null" json:"total_price"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
