package repository

import "context"

// 注文番号カウンタ。（prefix, 日付キー）ごとの連番をアトミックに払い出す。
// 既存行のカウントで採番してはいけない（同時作成で衝突する）。
type CounterRepository interface {
	NextSequence(ctx context.Context, prefix string, dateKey string) (int64, error)
}
