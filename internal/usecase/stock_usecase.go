package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	"app/internal/notifier"
	repo "app/internal/repository"
)

type StockUsecase struct {
	tx     repo.TransactionManager
	events notifier.Events
}

func NewStockUsecase(tx repo.TransactionManager, events notifier.Events) *StockUsecase {
	return &StockUsecase{tx: tx, events: events}
}

type ApplyMovementInput struct {
	Type        model.StockMovementType
	Quantity    int64
	Reason      string
	Reference   string
	PerformedBy int64
}

type LedgerOutput struct {
	Entry     model.StockLedgerEntry `json:"entry"`
	Status    model.StockStatus      `json:"status"`
	Movements []model.StockMovement  `json:"movements,omitempty"`
}

// 在庫移動を適用する。
// inは加算、outは減算（下限0：台帳はマイナスにならない）、
// adjustmentは絶対値で上書き、transferは符号付きデルタ。
// 台帳が無ければ数量0で遅延作成する（outでも失敗させない）。
// 移動履歴は追記され、以後編集・削除されない。
func (u *StockUsecase) ApplyMovement(ctx context.Context, storeID int64, productID int64, in ApplyMovementInput) (LedgerOutput, error) {
	if storeID <= 0 {
		return LedgerOutput{}, NewHTTPError(http.StatusBadRequest, "invalid store id")
	}
	if productID <= 0 {
		return LedgerOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if in.PerformedBy <= 0 {
		return LedgerOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return LedgerOutput{}, NewHTTPError(http.StatusBadRequest, "reason required")
	}

	switch in.Type {
	case model.MovementIn, model.MovementOut:
		if in.Quantity <= 0 {
			return LedgerOutput{}, NewHTTPError(http.StatusBadRequest, "quantity must be > 0")
		}
	case model.MovementAdjustment:
		if in.Quantity < 0 {
			return LedgerOutput{}, NewHTTPError(http.StatusBadRequest, "quantity must be >= 0")
		}
	case model.MovementTransfer:
		if in.Quantity == 0 {
			return LedgerOutput{}, NewHTTPError(http.StatusBadRequest, "quantity must be non-zero")
		}
	default:
		return LedgerOutput{}, NewHTTPError(http.StatusBadRequest, "invalid movement type")
	}

	var out LedgerOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//商品の存在だけ確認（店舗との関係チェックはここでは要らない）
		if _, err := r.Products().FindByID(ctx, productID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "product not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if _, err := r.Stores().FindByID(ctx, storeID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "store not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		entry, err := findOrCreateLedgerEntry(ctx, r, storeID, productID)
		if err != nil {
			return err
		}
		before := entry.Quantity

		//数量更新はストレージ側のアトミックUPDATE1本
		switch in.Type {
		case model.MovementIn:
			err = r.Ledger().AddQuantity(ctx, entry.ID, in.Quantity)
		case model.MovementOut:
			err = r.Ledger().SubtractQuantityFloored(ctx, entry.ID, in.Quantity)
		case model.MovementAdjustment:
			err = r.Ledger().SetQuantity(ctx, entry.ID, in.Quantity)
		case model.MovementTransfer:
			err = r.Ledger().ShiftQuantityFloored(ctx, entry.ID, in.Quantity)
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//更新後の数量を同一Tx内で読み直す
		updated, err := r.Ledger().FindByID(ctx, entry.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Ledger().AppendMovement(ctx, model.StockMovement{
			LedgerEntryID: entry.ID,
			Type:          in.Type,
			Quantity:      in.Quantity,
			Reason:        strings.TrimSpace(in.Reason),
			Reference:     strings.TrimSpace(in.Reference),
			PerformedBy:   in.PerformedBy,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カタログ在庫（ミラー）は実際に動いた分だけ同一Tx内で追随させる
		if delta := updated.Quantity - before; delta != 0 {
			if err := r.Products().AdjustStock(ctx, productID, delta); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		out = LedgerOutput{Entry: updated, Status: updated.Status()}
		return nil
	})

	if err != nil {
		return LedgerOutput{}, err
	}

	//通知はコミット後・ベストエフォート
	u.notifyStock(ctx, out.Entry)

	return out, nil
}

func (u *StockUsecase) GetLedger(ctx context.Context, storeID int64, productID int64) (LedgerOutput, error) {
	if storeID <= 0 || productID <= 0 {
		return LedgerOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out LedgerOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		entry, err := r.Ledger().FindByStoreProduct(ctx, storeID, productID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		movements, err := r.Ledger().ListMovements(ctx, entry.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = LedgerOutput{Entry: entry, Status: entry.Status(), Movements: movements}
		return nil
	})

	if err != nil {
		return LedgerOutput{}, err
	}
	return out, nil
}

// 店舗の台帳を全件返す（ステータス付き）
func (u *StockUsecase) ListLedger(ctx context.Context, storeID int64) ([]LedgerOutput, error) {
	if storeID <= 0 {
		return []LedgerOutput{}, NewHTTPError(http.StatusBadRequest, "invalid store id")
	}

	var outs []LedgerOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		entries, err := r.Ledger().ListByStore(ctx, storeID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]LedgerOutput, 0, len(entries))
		for _, e := range entries {
			outs = append(outs, LedgerOutput{Entry: e, Status: e.Status()})
		}
		return nil
	})

	if err != nil {
		return []LedgerOutput{}, err
	}
	return outs, nil
}

// 店舗の台帳をステータスで抽出する（low_stock / out_of_stock / overstock / in_stock）
func (u *StockUsecase) ListByStatus(ctx context.Context, storeID int64, status model.StockStatus) ([]LedgerOutput, error) {
	if storeID <= 0 {
		return []LedgerOutput{}, NewHTTPError(http.StatusBadRequest, "invalid store id")
	}
	switch status {
	case model.StockStatusOutOfStock, model.StockStatusLowStock, model.StockStatusOverstock, model.StockStatusInStock:
	default:
		return []LedgerOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var outs []LedgerOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		entries, err := r.Ledger().ListByStore(ctx, storeID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]LedgerOutput, 0, len(entries))
		for _, e := range entries {
			if e.Status() == status {
				outs = append(outs, LedgerOutput{Entry: e, Status: status})
			}
		}
		return nil
	})

	if err != nil {
		return []LedgerOutput{}, err
	}
	return outs, nil
}

func (u *StockUsecase) notifyStock(ctx context.Context, entry model.StockLedgerEntry) {
	u.events.StockUpdated(ctx, entry.StoreID, entry.ProductID, entry.Quantity)

	switch entry.Status() {
	case model.StockStatusOutOfStock, model.StockStatusLowStock:
		u.events.LowStock(ctx, entry.StoreID, entry.ProductID, entry.Quantity, entry.ReorderLevel)
	}
}

// 台帳が無ければ数量0・既定しきい値で作る
func findOrCreateLedgerEntry(ctx context.Context, r repo.TxRepos, storeID int64, productID int64) (model.StockLedgerEntry, error) {
	entry, err := r.Ledger().FindByStoreProduct(ctx, storeID, productID)
	if err == nil {
		return entry, nil
	}
	if err != repo.ErrNotFound {
		return model.StockLedgerEntry{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	entry, err = r.Ledger().Create(ctx, model.StockLedgerEntry{
		StoreID:      storeID,
		ProductID:    productID,
		Quantity:     0,
		ReorderLevel: model.DefaultReorderLevel,
		MaxStock:     model.DefaultMaxStock,
	})
	if err != nil {
		return model.StockLedgerEntry{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return entry, nil
}
