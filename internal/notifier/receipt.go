package notifier

import (
	"context"

	"app/internal/domain/model"

	"github.com/sirupsen/logrus"
)

// 確定済みSaleからレシートを作る外部サービスの約束。
// コミット後に呼ぶ。失敗しても売上はロールバックしない。
type ReceiptRenderer interface {
	Render(ctx context.Context, sale model.Sale, items []model.SaleItem) error
}

type LogReceiptRenderer struct {
	logger *logrus.Logger
}

func NewLogReceiptRenderer(logger *logrus.Logger) *LogReceiptRenderer {
	return &LogReceiptRenderer{logger: logger}
}

func (r *LogReceiptRenderer) Render(ctx context.Context, sale model.Sale, items []model.SaleItem) error {
	r.logger.WithFields(logrus.Fields{
		"event":          "receipt_rendered",
		"transaction_id": sale.TransactionID,
		"total_amount":   sale.TotalAmount,
		"item_count":     len(items),
	}).Info("receipt rendered")
	return nil
}
