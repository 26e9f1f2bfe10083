package repository

import (
	"context"

	"gorm.io/gorm"
)

type CounterGormRepository struct {
	db *gorm.DB
}

func NewCounterGormRepository(db *gorm.DB) *CounterGormRepository {
	return &CounterGormRepository{db: db}
}

// （prefix, 日付キー）の連番をアトミックに払い出す。
// UPSERT1本なので同時採番でも同じ番号は出ない。
func (r *CounterGormRepository) NextSequence(ctx context.Context, prefix string, dateKey string) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO order_counters (prefix, date_key, seq)
		VALUES (?, ?, 1)
		ON CONFLICT (prefix, date_key)
		DO UPDATE SET seq = order_counters.seq + 1
		RETURNING seq`,
		prefix, dateKey,
	).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}
