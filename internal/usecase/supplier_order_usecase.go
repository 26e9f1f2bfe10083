package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/notifier"
	repo "app/internal/repository"
)

// 検収時の台帳理由（movementのreasonに入る固定文言）
const reasonDeliveryReceived = "Delivery received from supplier"

type SupplierOrderUsecase struct {
	tx     repo.TransactionManager
	events notifier.Events
}

func NewSupplierOrderUsecase(tx repo.TransactionManager, events notifier.Events) *SupplierOrderUsecase {
	return &SupplierOrderUsecase{tx: tx, events: events}
}

type CreateSupplierOrderInput struct {
	SupplierID int64
	Items      []OrderItemInput
	Notes      string
}

type SupplierOrderItemOutput struct {
	ID                int64 `json:"id"`
	ProductID         int64 `json:"product_id"`
	Quantity          int64 `json:"quantity"`
	UnitPrice         int64 `json:"unit_price"`
	TotalPrice        int64 `json:"total_price"`
	DeliveredQuantity int64 `json:"delivered_quantity"`
}

type SupplierOrderOutput struct {
	ID                   int64                      `json:"id"`
	OrderNumber          string                     `json:"order_number"`
	StoreID              int64                      `json:"store_id"`
	ManagerID            int64                      `json:"manager_id"`
	SupplierID           int64                      `json:"supplier_id"`
	Status               string                     `json:"status"`
	DeliveryStatus       string                     `json:"delivery_status,omitempty"`
	TotalAmount          int64                      `json:"total_amount"`
	ExpectedDeliveryDate *time.Time                 `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate   *time.Time                 `json:"actual_delivery_date,omitempty"`
	DeliveryAcceptedDate *time.Time                 `json:"delivery_accepted_date,omitempty"`
	IsActive             bool                       `json:"is_active"`
	CreatedAt            time.Time                  `json:"created_at"`
	Items                []SupplierOrderItemOutput  `json:"items,omitempty"`
	Timeline             []model.OrderTimelineEntry `json:"timeline,omitempty"`
}

// 店長→サプライヤーの発注作成。pendingから始まる。
func (u *SupplierOrderUsecase) Create(ctx context.Context, manager model.User, in CreateSupplierOrderInput) (SupplierOrderOutput, error) {
	if manager.ID <= 0 {
		return SupplierOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if manager.StoreID == nil || *manager.StoreID <= 0 {
		return SupplierOrderOutput{}, NewHTTPError(http.StatusForbidden, "manager has no store")
	}
	if in.SupplierID <= 0 {
		return SupplierOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid supplier id")
	}
	if len(in.Items) == 0 {
		return SupplierOrderOutput{}, NewHTTPError(http.StatusBadRequest, "items required")
	}
	//検収がproductIDで数量を引くので、同一商品の行は1つに限る
	seen := make(map[int64]bool, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID <= 0 || it.Quantity <= 0 {
			return SupplierOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item")
		}
		if seen[it.ProductID] {
			return SupplierOrderOutput{}, NewHTTPError(http.StatusBadRequest, "duplicate product")
		}
		seen[it.ProductID] = true
	}

	storeID := *manager.StoreID
	var out SupplierOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orderItems := make([]model.SupplierOrderItem, 0, len(in.Items))
		var total int64 = 0

		for _, it := range in.Items {
			p, err := r.Products().FindByID(ctx, it.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "product not found")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			//仕入単価もカタログの値を使う（クライアント入力の価格は受けない）
			orderItems = append(orderItems, model.SupplierOrderItem{
				ProductID:  it.ProductID,
				Quantity:   it.Quantity,
				UnitPrice:  p.Price,
				TotalPrice: p.Price * it.Quantity,
			})
			total += p.Price * it.Quantity
		}

		number, err := nextOrderNumber(ctx, r.Counters(), SupplierOrderPrefix, time.Now())
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orderID, err := r.SupplierOrders().Create(ctx, model.SupplierOrder{
			OrderNumber: number,
			StoreID:     storeID,
			ManagerID:   manager.ID,
			SupplierID:  in.SupplierID,
			Status:      model.SupplierOrderPending,
			TotalAmount: total,
			IsActive:    true,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.SupplierOrders().CreateItems(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Timeline().Append(ctx, model.OrderTimelineEntry{
			OrderKind: model.OrderKindSupplier,
			OrderID:   orderID,
			Status:    string(model.SupplierOrderPending),
			UpdatedBy: manager.ID,
			Notes:     strings.TrimSpace(in.Notes),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = SupplierOrderOutput{
			ID:          orderID,
			OrderNumber: number,
			StoreID:     storeID,
			ManagerID:   manager.ID,
			SupplierID:  in.SupplierID,
			Status:      string(model.SupplierOrderPending),
			TotalAmount: total,
			IsActive:    true,
		}
		return nil
	})

	if err != nil {
		return SupplierOrderOutput{}, err
	}

	u.events.OrderStatusChanged(ctx, model.OrderKindSupplier, out.ID, out.OrderNumber, out.Status)
	return out, nil
}

type ApproveSupplierOrderInput struct {
	ExpectedDeliveryDate time.Time
	Notes                string
}

// サプライヤーによる承認。pendingのときだけ。
// ExpectedDeliveryDateは「厳密に未来」が必須（現在時刻ちょうどは不可）。
func (u *SupplierOrderUsecase) Approve(ctx context.Context, supplierID int64, orderID int64, in ApproveSupplierOrderInput) error {
	if supplierID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.ExpectedDeliveryDate.IsZero() {
		return NewHTTPError(http.StatusBadRequest, "expected_delivery_date required")
	}
	if !in.ExpectedDeliveryDate.After(time.Now()) {
		return NewHTTPError(http.StatusBadRequest, "expected_delivery_date must be in the future")
	}

	var orderNumber string

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := u.findForSupplier(ctx, r, supplierID, orderID)
		if err != nil {
			return err
		}
		if o.Status.IsTerminal() {
			return NewHTTPError(http.StatusConflict, "order already finalized")
		}

		ok, err := r.SupplierOrders().UpdateStatusFrom(ctx, orderID, model.SupplierOrderPending, model.SupplierOrderApproved)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !ok {
			return NewHTTPError(http.StatusConflict, "order is not pending")
		}

		date := in.ExpectedDeliveryDate
		if err := r.SupplierOrders().SetExpectedDeliveryDate(ctx, orderID, &date); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Timeline().Append(ctx, model.OrderTimelineEntry{
			OrderKind: model.OrderKindSupplier,
			OrderID:   orderID,
			Status:    string(model.SupplierOrderApproved),
			UpdatedBy: supplierID,
			Notes:     strings.TrimSpace(in.Notes),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orderNumber = o.OrderNumber
		return nil
	})

	if err != nil {
		return err
	}

	u.events.OrderStatusChanged(ctx, model.OrderKindSupplier, orderID, orderNumber, string(model.SupplierOrderApproved))
	return nil
}

// サプライヤーによる却下。納品予定日はクリアする。
func (u *SupplierOrderUsecase) Reject(ctx context.Context, supplierID int64, orderID int64, notes string) error {
	if supplierID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var orderNumber string

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := u.findForSupplier(ctx, r, supplierID, orderID)
		if err != nil {
			return err
		}
		if o.Status.IsTerminal() {
			return NewHTTPError(http.StatusConflict, "order already finalized")
		}

		ok, err := r.SupplierOrders().UpdateStatusFrom(ctx, orderID, model.SupplierOrderPending, model.SupplierOrderRejected)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !ok {
			return NewHTTPError(http.StatusConflict, "order is not pending")
		}

		if err := r.SupplierOrders().SetExpectedDeliveryDate(ctx, orderID, nil); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Timeline().Append(ctx, model.OrderTimelineEntry{
			OrderKind: model.OrderKindSupplier,
			OrderID:   orderID,
			Status:    string(model.SupplierOrderRejected),
			UpdatedBy: supplierID,
			Notes:     strings.TrimSpace(notes),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orderNumber = o.OrderNumber
		return nil
	})

	if err != nil {
		return err
	}

	u.events.OrderStatusChanged(ctx, model.OrderKindSupplier, orderID, orderNumber, string(model.SupplierOrderRejected))
	return nil
}

// 作成した店長によるキャンセル。pendingの間だけ。
// 行は消さずIsActive=falseにする（監査のため）。
func (u *SupplierOrderUsecase) Cancel(ctx context.Context, managerID int64, orderID int64, notes string) error {
	if managerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var orderNumber string

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.SupplierOrders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.ManagerID != managerID {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}
		if o.Status.IsTerminal() {
			return NewHTTPError(http.StatusConflict, "order already finalized")
		}

		ok, err := r.SupplierOrders().UpdateStatusFrom(ctx, orderID, model.SupplierOrderPending, model.SupplierOrderCancelled)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !ok {
			return NewHTTPError(http.StatusConflict, "order is not pending")
		}

		if err := r.SupplierOrders().Deactivate(ctx, orderID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Timeline().Append(ctx, model.OrderTimelineEntry{
			OrderKind: model.OrderKindSupplier,
			OrderID:   orderID,
			Status:    string(model.SupplierOrderCancelled),
			UpdatedBy: managerID,
			Notes:     strings.TrimSpace(notes),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orderNumber = o.OrderNumber
		return nil
	})

	if err != nil {
		return err
	}

	u.events.OrderStatusChanged(ctx, model.OrderKindSupplier, orderID, orderNumber, string(model.SupplierOrderCancelled))
	return nil
}

type AcceptDeliveryInput struct {
	//productID → 受け取った数量。載っていないitemは0扱い
	DeliveredQuantities map[int64]int64
	Notes               string
}

type AcceptDeliveryOutput struct {
	OrderID        int64  `json:"order_id"`
	OrderNumber    string `json:"order_number"`
	Status         string `json:"status"`
	DeliveryStatus string `json:"delivery_status"`
}

// 検収（納品の受け入れ）。approvedの発注に対して1回だけ。
// 各行は 0 ≤ delivered ≤ ordered。超過は丸めずエラー。
// delivered > 0 の行ごとに台帳へinを追記する（台帳が無ければ既定値で作る）。
// 全行が全量ならdelivered、1行でも不足ならpartialのままapprovedに留まる。
func (u *SupplierOrderUsecase) AcceptDelivery(ctx context.Context, managerID int64, orderID int64, in AcceptDeliveryInput) (AcceptDeliveryOutput, error) {
	if managerID <= 0 {
		return AcceptDeliveryOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return AcceptDeliveryOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out AcceptDeliveryOutput
	var touched []model.StockLedgerEntry

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		touched = touched[:0]

		o, err := r.SupplierOrders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.ManagerID != managerID {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}
		if o.Status != model.SupplierOrderApproved {
			return NewHTTPError(http.StatusConflict, "order is not approved")
		}
		//検収は1回だけ。2回目は在庫を二重計上せずエラーにする
		if o.DeliveryAcceptedDate != nil {
			return NewHTTPError(http.StatusConflict, "delivery already accepted")
		}

		items, err := r.SupplierOrders().ListItems(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//先に全行の範囲チェックをしてから書き込みを始める
		for _, it := range items {
			delivered := in.DeliveredQuantities[it.ProductID]
			if delivered < 0 {
				return NewHTTPError(http.StatusBadRequest, "delivered quantity must be >= 0")
			}
			if delivered > it.Quantity {
				return NewHTTPError(http.StatusConflict, "delivered quantity exceeds ordered quantity")
			}
		}

		now := time.Now()
		complete := true

		for _, it := range items {
			delivered := in.DeliveredQuantities[it.ProductID]
			if delivered < it.Quantity {
				complete = false
			}
			if delivered == 0 {
				continue
			}

			entry, err := findOrCreateLedgerEntry(ctx, r, o.StoreID, it.ProductID)
			if err != nil {
				return err
			}
			if err := r.Ledger().AddQuantity(ctx, entry.ID, delivered); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if err := r.Ledger().AppendMovement(ctx, model.StockMovement{
				LedgerEntryID: entry.ID,
				Type:          model.MovementIn,
				Quantity:      delivered,
				Reason:        reasonDeliveryReceived,
				Reference:     o.OrderNumber,
				PerformedBy:   managerID,
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			//カタログ在庫（ミラー）も同一Tx内で追随
			if err := r.Products().AdjustStock(ctx, it.ProductID, delivered); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			if err := r.SupplierOrders().SetItemDeliveredQuantity(ctx, it.ID, delivered); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			updated, err := r.Ledger().FindByID(ctx, entry.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			touched = append(touched, updated)
		}

		upd := repo.DeliveryResultUpdate{
			DeliveryAcceptedDate: now,
		}
		newStatus := o.Status
		timelineStatus := string(model.SupplierOrderApproved)
		timelineNotes := strings.TrimSpace(in.Notes)

		if complete {
			upd.DeliveryStatus = model.DeliveryComplete
			upd.ActualDeliveryDate = &now

			ok, err := r.SupplierOrders().UpdateStatusFrom(ctx, orderID, model.SupplierOrderApproved, model.SupplierOrderDelivered)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusConflict, "order is not approved")
			}
			newStatus = model.SupplierOrderDelivered
			timelineStatus = string(model.SupplierOrderDelivered)
		} else {
			//一部納品：ステータスはapprovedのまま、sub-statusだけpartialにする
			upd.DeliveryStatus = model.DeliveryPartial
			if timelineNotes == "" {
				timelineNotes = "partial delivery accepted"
			}
		}

		if err := r.SupplierOrders().SetDeliveryResult(ctx, orderID, upd); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Timeline().Append(ctx, model.OrderTimelineEntry{
			OrderKind: model.OrderKindSupplier,
			OrderID:   orderID,
			Status:    timelineStatus,
			UpdatedBy: managerID,
			Notes:     timelineNotes,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = AcceptDeliveryOutput{
			OrderID:        orderID,
			OrderNumber:    o.OrderNumber,
			Status:         string(newStatus),
			DeliveryStatus: string(upd.DeliveryStatus),
		}
		return nil
	})

	if err != nil {
		return AcceptDeliveryOutput{}, err
	}

	for _, entry := range touched {
		u.events.StockUpdated(ctx, entry.StoreID, entry.ProductID, entry.Quantity)
	}
	u.events.OrderStatusChanged(ctx, model.OrderKindSupplier, orderID, out.OrderNumber, out.Status)

	return out, nil
}

// 一部納品のままの発注を店長が明示的に締める。
// approved＋partialのときだけdeliveredへ遷移する（自動では締めない）。
func (u *SupplierOrderUsecase) Close(ctx context.Context, managerID int64, orderID int64, notes string) error {
	if managerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var orderNumber string

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.SupplierOrders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.ManagerID != managerID {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}
		if o.Status != model.SupplierOrderApproved || o.DeliveryStatus != model.DeliveryPartial || o.DeliveryAcceptedDate == nil {
			return NewHTTPError(http.StatusConflict, "order is not partially delivered")
		}

		ok, err := r.SupplierOrders().UpdateStatusFrom(ctx, orderID, model.SupplierOrderApproved, model.SupplierOrderDelivered)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !ok {
			return NewHTTPError(http.StatusConflict, "order is not partially delivered")
		}

		//実納品日は締めた時刻ではなく検収日
		if err := r.SupplierOrders().SetActualDeliveryDate(ctx, orderID, *o.DeliveryAcceptedDate); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		closeNotes := strings.TrimSpace(notes)
		if closeNotes == "" {
			closeNotes = "closed with partial delivery"
		}
		if err := r.Timeline().Append(ctx, model.OrderTimelineEntry{
			OrderKind: model.OrderKindSupplier,
			OrderID:   orderID,
			Status:    string(model.SupplierOrderDelivered),
			UpdatedBy: managerID,
			Notes:     closeNotes,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orderNumber = o.OrderNumber
		return nil
	})

	if err != nil {
		return err
	}

	u.events.OrderStatusChanged(ctx, model.OrderKindSupplier, orderID, orderNumber, string(model.SupplierOrderDelivered))
	return nil
}

func (u *SupplierOrderUsecase) ListByManager(ctx context.Context, managerID int64) ([]SupplierOrderOutput, error) {
	return u.list(ctx, func(r repo.TxRepos) ([]model.SupplierOrder, int64, error) {
		return r.SupplierOrders().ListByManager(ctx, managerID, 1, 50)
	}, managerID)
}

func (u *SupplierOrderUsecase) ListBySupplier(ctx context.Context, supplierID int64) ([]SupplierOrderOutput, error) {
	return u.list(ctx, func(r repo.TxRepos) ([]model.SupplierOrder, int64, error) {
		return r.SupplierOrders().ListBySupplier(ctx, supplierID, 1, 50)
	}, supplierID)
}

func (u *SupplierOrderUsecase) list(ctx context.Context, fetch func(r repo.TxRepos) ([]model.SupplierOrder, int64, error), actorID int64) ([]SupplierOrderOutput, error) {
	if actorID <= 0 {
		return []SupplierOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []SupplierOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := fetch(r)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]SupplierOrderOutput, 0, len(orders))
		for _, o := range orders {
			outs = append(outs, toSupplierOrderOutput(o, nil, nil))
		}
		return nil
	})

	if err != nil {
		return []SupplierOrderOutput{}, err
	}
	return outs, nil
}

func (u *SupplierOrderUsecase) GetDetail(ctx context.Context, actor model.User, orderID int64) (SupplierOrderOutput, error) {
	if actor.ID <= 0 {
		return SupplierOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return SupplierOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out SupplierOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.SupplierOrders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//発注した店長と相手のサプライヤーだけ。他人のは「存在しない扱い」
		if o.ManagerID != actor.ID && o.SupplierID != actor.ID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.SupplierOrders().ListItems(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		timeline, err := r.Timeline().ListByOrder(ctx, model.OrderKindSupplier, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toSupplierOrderOutput(o, items, timeline)
		return nil
	})

	if err != nil {
		return SupplierOrderOutput{}, err
	}
	return out, nil
}

// サプライヤー本人の発注だけ取り出す共通部
func (u *SupplierOrderUsecase) findForSupplier(ctx context.Context, r repo.TxRepos, supplierID int64, orderID int64) (model.SupplierOrder, error) {
	o, err := r.SupplierOrders().FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return model.SupplierOrder{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.SupplierOrder{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.SupplierID != supplierID {
		return model.SupplierOrder{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return o, nil
}

func toSupplierOrderOutput(o model.SupplierOrder, items []model.SupplierOrderItem, timeline []model.OrderTimelineEntry) SupplierOrderOutput {
	outItems := make([]SupplierOrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, SupplierOrderItemOutput{
			ID:                it.ID,
			ProductID:         it.ProductID,
			Quantity:          it.Quantity,
			UnitPrice:         it.UnitPrice,
			TotalPrice:        it.TotalPrice,
			DeliveredQuantity: it.DeliveredQuantity,
		})
	}

	return SupplierOrderOutput{
		ID:                   o.ID,
		OrderNumber:          o.OrderNumber,
		StoreID:              o.StoreID,
		ManagerID:            o.ManagerID,
		SupplierID:           o.SupplierID,
		Status:               string(o.Status),
		DeliveryStatus:       string(o.DeliveryStatus),
		TotalAmount:          o.TotalAmount,
		ExpectedDeliveryDate: o.ExpectedDeliveryDate,
		ActualDeliveryDate:   o.ActualDeliveryDate,
		DeliveryAcceptedDate: o.DeliveryAcceptedDate,
		IsActive:             o.IsActive,
		CreatedAt:            o.CreatedAt,
		Items:                outItems,
		Timeline:             timeline,
	}
}
