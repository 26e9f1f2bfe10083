package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	Page    int
	Limit   int
	StoreID *int64
}

// 商品の永続化（保存・取得）とカタログ在庫（ミラー）の更新を約束。
type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error

	//店舗への販売割り当て
	AssignToStore(ctx context.Context, productID int64, storeID int64) error
	IsAssignedToStore(ctx context.Context, productID int64, storeID int64) (bool, error)

	//カタログ在庫が足りるときだけ減らす（条件付きアトミック更新）。
	//足りなければfalse。読み→書きの二段では行わない。
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	//カタログ在庫に符号付きデルタを適用（下限0）
	AdjustStock(ctx context.Context, productID int64, delta int64) error

	//カタログ在庫の絶対値設定（台帳からの再構築用）
	SetStock(ctx context.Context, productID int64, newStock int64) error
}
