package usecase

import (
	"context"
	"fmt"
	"time"

	repo "app/internal/repository"
)

const (
	CustomerOrderPrefix = "ORD"
	SupplierOrderPrefix = "PO"
)

// 注文番号：<PREFIX>-<YYYYMMDD>-<4桁連番>。
// 連番はDBカウンタのアトミックなインクリメントで採番する（同日同prefixで衝突しない）。
func nextOrderNumber(ctx context.Context, counters repo.CounterRepository, prefix string, now time.Time) (string, error) {
	dateKey := now.Format("20060102")
	seq, err := counters.NextSequence(ctx, prefix, dateKey)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, dateKey, seq), nil
}
