package notifier

import (
	"context"

	"app/internal/domain/model"

	"github.com/sirupsen/logrus"
)

// コミット後に発火するベストエフォート通知。
// 配送の成否はコアの正しさに影響しない（失敗してもロールバックしない）。
type Events interface {
	StockUpdated(ctx context.Context, storeID, productID, quantity int64)
	LowStock(ctx context.Context, storeID, productID, quantity, reorderLevel int64)
	OrderStatusChanged(ctx context.Context, kind model.OrderKind, orderID int64, orderNumber string, status string)
}

// logrusに流すだけの実装。通知基盤はここの後ろに差し替える。
type LogEvents struct {
	logger *logrus.Logger
}

func NewLogEvents(logger *logrus.Logger) *LogEvents {
	return &LogEvents{logger: logger}
}

func (n *LogEvents) StockUpdated(ctx context.Context, storeID, productID, quantity int64) {
	n.logger.WithFields(logrus.Fields{
		"event":      "stock_updated",
		"store_id":   storeID,
		"product_id": productID,
		"quantity":   quantity,
	}).Info("stock updated")
}

func (n *LogEvents) LowStock(ctx context.Context, storeID, productID, quantity, reorderLevel int64) {
	n.logger.WithFields(logrus.Fields{
		"event":         "low_stock",
		"store_id":      storeID,
		"product_id":    productID,
		"quantity":      quantity,
		"reorder_level": reorderLevel,
	}).Warn("low stock")
}

func (n *LogEvents) OrderStatusChanged(ctx context.Context, kind model.OrderKind, orderID int64, orderNumber string, status string) {
	n.logger.WithFields(logrus.Fields{
		"event":        "order_status_changed",
		"order_kind":   kind,
		"order_id":     orderID,
		"order_number": orderNumber,
		"status":       status,
	}).Info("order status changed")
}
