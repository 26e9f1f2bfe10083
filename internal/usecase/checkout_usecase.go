package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	"app/internal/notifier"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

// 購入時の台帳理由（movementのreasonに入る固定文言）
const reasonCustomerPurchase = "Customer purchase"

type CheckoutUsecase struct {
	tx       repo.TransactionManager
	events   notifier.Events
	receipts notifier.ReceiptRenderer
}

func NewCheckoutUsecase(tx repo.TransactionManager, events notifier.Events, receipts notifier.ReceiptRenderer) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx, events: events, receipts: receipts}
}

type CheckoutItemInput struct {
	ProductID int64
	Quantity  int64
}

type CheckoutInput struct {
	StoreID int64
	Items   []CheckoutItemInput
}

type CheckoutItemOutput struct {
	ProductID  int64 `json:"product_id"`
	Quantity   int64 `json:"quantity"`
	UnitPrice  int64 `json:"unit_price"`
	TotalPrice int64 `json:"total_price"`
}

type CheckoutOutput struct {
	SaleID        int64                `json:"sale_id"`
	TransactionID string               `json:"transaction_id"`
	StoreID       int64                `json:"store_id"`
	TotalAmount   int64                `json:"total_amount"`
	Items         []CheckoutItemOutput `json:"items"`
	CreatedAt     time.Time            `json:"created_at"`
}

// 顧客購入。次の3つを1トランザクションで行い、全部成功か全部無しかのどちらかにする：
// (1) カタログ在庫の条件付き減算（足りなければ失敗）
// (2) 台帳へのout movement追記（reason固定、referenceはtransactionId）
// (3) サーバー側価格で計算したSaleの作成
// 金額はクライアントから受け取らない。
func (u *CheckoutUsecase) Checkout(ctx context.Context, customerID int64, in CheckoutInput) (CheckoutOutput, error) {
	if customerID <= 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.StoreID <= 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid store id")
	}
	if len(in.Items) == 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "items required")
	}
	seen := make(map[int64]bool, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID <= 0 {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
		}
		if it.Quantity <= 0 {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "quantity must be > 0")
		}
		if seen[it.ProductID] {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "duplicate product")
		}
		seen[it.ProductID] = true
	}

	transactionID := uuid.NewString()

	var out CheckoutOutput
	var touched []model.StockLedgerEntry

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		touched = touched[:0]

		//先に全itemを検証してから書き込みを始める（途中失敗はTxごとロールバック）
		products := make(map[int64]model.Product, len(in.Items))
		for _, it := range in.Items {
			p, err := r.Products().FindByID(ctx, it.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "product not found")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !p.IsActive {
				return NewHTTPError(http.StatusBadRequest, "product not active")
			}

			assigned, err := r.Products().IsAssignedToStore(ctx, it.ProductID, in.StoreID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !assigned {
				return NewHTTPError(http.StatusBadRequest, "product not sold in this store")
			}

			if p.Stock < it.Quantity {
				return NewHTTPError(http.StatusConflict, "insufficient stock")
			}

			products[it.ProductID] = p
		}

		saleItems := make([]model.SaleItem, 0, len(in.Items))
		var total int64 = 0

		for _, it := range in.Items {
			p := products[it.ProductID]

			//減算は条件付きアトミック更新。同時購入で別Txが先に引いていたらここで落ちる
			ok, err := r.Products().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusConflict, "insufficient stock")
			}

			//台帳にもoutを記録（台帳が無ければ数量0で作られ、下限0で止まる）
			entry, err := findOrCreateLedgerEntry(ctx, r, in.StoreID, it.ProductID)
			if err != nil {
				return err
			}
			if err := r.Ledger().SubtractQuantityFloored(ctx, entry.ID, it.Quantity); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if err := r.Ledger().AppendMovement(ctx, model.StockMovement{
				LedgerEntryID: entry.ID,
				Type:          model.MovementOut,
				Quantity:      it.Quantity,
				Reason:        reasonCustomerPurchase,
				Reference:     transactionID,
				PerformedBy:   customerID,
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			updated, err := r.Ledger().FindByID(ctx, entry.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			touched = append(touched, updated)

			//価格はサーバー側の値だけを使う
			saleItems = append(saleItems, model.SaleItem{
				ProductID:  it.ProductID,
				Quantity:   it.Quantity,
				UnitPrice:  p.Price,
				TotalPrice: p.Price * it.Quantity,
			})
			total += p.Price * it.Quantity
		}

		saleID, err := r.Sales().Create(ctx, model.Sale{
			TransactionID: transactionID,
			StoreID:       in.StoreID,
			CustomerID:    customerID,
			TotalAmount:   total,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Sales().CreateItems(ctx, saleID, saleItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outItems := make([]CheckoutItemOutput, 0, len(saleItems))
		for _, si := range saleItems {
			outItems = append(outItems, CheckoutItemOutput{
				ProductID:  si.ProductID,
				Quantity:   si.Quantity,
				UnitPrice:  si.UnitPrice,
				TotalPrice: si.TotalPrice,
			})
		}

		out = CheckoutOutput{
			SaleID:        saleID,
			TransactionID: transactionID,
			StoreID:       in.StoreID,
			TotalAmount:   total,
			Items:         outItems,
			CreatedAt:     time.Now(),
		}
		return nil
	})

	if err != nil {
		return CheckoutOutput{}, err
	}

	//コミット後の通知・レシート。失敗しても売上は確定したまま
	for _, entry := range touched {
		u.events.StockUpdated(ctx, entry.StoreID, entry.ProductID, entry.Quantity)
		switch entry.Status() {
		case model.StockStatusOutOfStock, model.StockStatusLowStock:
			u.events.LowStock(ctx, entry.StoreID, entry.ProductID, entry.Quantity, entry.ReorderLevel)
		}
	}
	u.renderReceipt(ctx, customerID, out)

	return out, nil
}

type SaleOutput struct {
	ID            int64                `json:"id"`
	TransactionID string               `json:"transaction_id"`
	StoreID       int64                `json:"store_id"`
	CustomerID    int64                `json:"customer_id"`
	TotalAmount   int64                `json:"total_amount"`
	CreatedAt     time.Time            `json:"created_at"`
	Items         []CheckoutItemOutput `json:"items,omitempty"`
}

// 売上詳細。購入した本人か、その店舗のスタッフだけ見られる。
func (u *CheckoutUsecase) GetSale(ctx context.Context, actor model.User, saleID int64) (SaleOutput, error) {
	if actor.ID <= 0 {
		return SaleOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if saleID <= 0 {
		return SaleOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out SaleOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		s, err := r.Sales().FindByID(ctx, saleID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		isOwner := s.CustomerID == actor.ID
		isStoreStaff := actor.Role == model.RoleManager && actor.StoreID != nil && *actor.StoreID == s.StoreID
		if !isOwner && !isStoreStaff {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.Sales().ListItems(ctx, saleID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toSaleOutput(s, items)
		return nil
	})

	if err != nil {
		return SaleOutput{}, err
	}
	return out, nil
}

// 店舗の売上一覧（スタッフ向け）
func (u *CheckoutUsecase) ListStoreSales(ctx context.Context, manager model.User) ([]SaleOutput, error) {
	if manager.ID <= 0 {
		return []SaleOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if manager.StoreID == nil || *manager.StoreID <= 0 {
		return []SaleOutput{}, NewHTTPError(http.StatusForbidden, "manager has no store")
	}

	var outs []SaleOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		sales, _, err := r.Sales().ListByStore(ctx, *manager.StoreID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]SaleOutput, 0, len(sales))
		for _, s := range sales {
			outs = append(outs, toSaleOutput(s, nil))
		}
		return nil
	})

	if err != nil {
		return []SaleOutput{}, err
	}
	return outs, nil
}

func toSaleOutput(s model.Sale, items []model.SaleItem) SaleOutput {
	outItems := make([]CheckoutItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, CheckoutItemOutput{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		})
	}

	return SaleOutput{
		ID:            s.ID,
		TransactionID: s.TransactionID,
		StoreID:       s.StoreID,
		CustomerID:    s.CustomerID,
		TotalAmount:   s.TotalAmount,
		CreatedAt:     s.CreatedAt,
		Items:         outItems,
	}
}

func (u *CheckoutUsecase) renderReceipt(ctx context.Context, customerID int64, out CheckoutOutput) {
	items := make([]model.SaleItem, 0, len(out.Items))
	for _, it := range out.Items {
		items = append(items, model.SaleItem{
			SaleID:     out.SaleID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		})
	}

	//レシート生成は確定済みSaleを読むだけ。エラーは無視してよい
	_ = u.receipts.Render(ctx, model.Sale{
		ID:            out.SaleID,
		TransactionID: out.TransactionID,
		StoreID:       out.StoreID,
		CustomerID:    customerID,
		TotalAmount:   out.TotalAmount,
	}, items)
}
