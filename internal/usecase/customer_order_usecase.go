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

type CustomerOrderUsecase struct {
	tx     repo.TransactionManager
	events notifier.Events
}

func NewCustomerOrderUsecase(tx repo.TransactionManager, events notifier.Events) *CustomerOrderUsecase {
	return &CustomerOrderUsecase{tx: tx, events: events}
}

type OrderItemInput struct {
	ProductID int64
	Quantity  int64
}

type PlaceCustomerOrderInput struct {
	StoreID int64
	Items   []OrderItemInput
	Notes   string
}

type CustomerOrderItemOutput struct {
	ProductID  int64 `json:"product_id"`
	Quantity   int64 `json:"quantity"`
	UnitPrice  int64 `json:"unit_price"`
	TotalPrice int64 `json:"total_price"`
}

type CustomerOrderOutput struct {
	ID          int64                      `json:"id"`
	OrderNumber string                     `json:"order_number"`
	StoreID     int64                      `json:"store_id"`
	CustomerID  int64                      `json:"customer_id"`
	Status      string                     `json:"status"`
	TotalAmount int64                      `json:"total_amount"`
	IsActive    bool                       `json:"is_active"`
	CreatedAt   time.Time                  `json:"created_at"`
	Items       []CustomerOrderItemOutput  `json:"items,omitempty"`
	Timeline    []model.OrderTimelineEntry `json:"timeline,omitempty"`
}

// 顧客注文の作成。ステータスはOrder Receivedから始まる。
// 金額はカタログ価格から計算する。在庫はここでは動かさない
// （台帳を書くのはチェックアウトと検収だけ）。
func (u *CustomerOrderUsecase) Place(ctx context.Context, customerID int64, in PlaceCustomerOrderInput) (CustomerOrderOutput, error) {
	if customerID <= 0 {
		return CustomerOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.StoreID <= 0 {
		return CustomerOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid store id")
	}
	if len(in.Items) == 0 {
		return CustomerOrderOutput{}, NewHTTPError(http.StatusBadRequest, "items required")
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 || it.Quantity <= 0 {
			return CustomerOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item")
		}
	}

	var out CustomerOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Stores().FindByID(ctx, in.StoreID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "store not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orderItems := make([]model.CustomerOrderItem, 0, len(in.Items))
		var total int64 = 0

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

			//単価はカタログの値。TotalPrice = Quantity × UnitPrice
			orderItems = append(orderItems, model.CustomerOrderItem{
				ProductID:  it.ProductID,
				Quantity:   it.Quantity,
				UnitPrice:  p.Price,
				TotalPrice: p.Price * it.Quantity,
			})
			total += p.Price * it.Quantity
		}

		number, err := nextOrderNumber(ctx, r.Counters(), CustomerOrderPrefix, time.Now())
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orderID, err := r.CustomerOrders().Create(ctx, model.CustomerOrder{
			OrderNumber: number,
			StoreID:     in.StoreID,
			CustomerID:  customerID,
			Status:      model.CustomerOrderReceived,
			TotalAmount: total,
			IsActive:    true,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.CustomerOrders().CreateItems(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//遷移（作成含む）のたびにタイムラインを1件追記する
		if err := r.Timeline().Append(ctx, model.OrderTimelineEntry{
			OrderKind: model.OrderKindCustomer,
			OrderID:   orderID,
			Status:    string(model.CustomerOrderReceived),
			UpdatedBy: customerID,
			Notes:     strings.TrimSpace(in.Notes),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outItems := make([]CustomerOrderItemOutput, 0, len(orderItems))
		for _, oi := range orderItems {
			outItems = append(outItems, CustomerOrderItemOutput{
				ProductID:  oi.ProductID,
				Quantity:   oi.Quantity,
				UnitPrice:  oi.UnitPrice,
				TotalPrice: oi.TotalPrice,
			})
		}

		out = CustomerOrderOutput{
			ID:          orderID,
			OrderNumber: number,
			StoreID:     in.StoreID,
			CustomerID:  customerID,
			Status:      string(model.CustomerOrderReceived),
			TotalAmount: total,
			IsActive:    true,
			Items:       outItems,
		}
		return nil
	})

	if err != nil {
		return CustomerOrderOutput{}, err
	}

	u.events.OrderStatusChanged(ctx, model.OrderKindCustomer, out.ID, out.OrderNumber, out.Status)
	return out, nil
}

// 店舗側の進行：Order Received → Order Completed / Order Rejected。
// 店舗スタッフだけが進められる。終端からの遷移は409。
func (u *CustomerOrderUsecase) UpdateStatus(ctx context.Context, staff model.User, orderID int64, newStatus model.CustomerOrderStatus, notes string) error {
	if staff.ID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if newStatus != model.CustomerOrderCompleted && newStatus != model.CustomerOrderRejected {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var orderNumber string

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.CustomerOrders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//自店舗の注文だけ
		if staff.StoreID == nil || *staff.StoreID != o.StoreID {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}
		if o.Status.IsTerminal() {
			return NewHTTPError(http.StatusConflict, "order already finalized")
		}

		//statusがまだReceivedのときだけ更新される。0行なら競合
		ok, err := r.CustomerOrders().UpdateStatusFrom(ctx, orderID, model.CustomerOrderReceived, newStatus)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !ok {
			return NewHTTPError(http.StatusConflict, "order already finalized")
		}

		if err := r.Timeline().Append(ctx, model.OrderTimelineEntry{
			OrderKind: model.OrderKindCustomer,
			OrderID:   orderID,
			Status:    string(newStatus),
			UpdatedBy: staff.ID,
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

	u.events.OrderStatusChanged(ctx, model.OrderKindCustomer, orderID, orderNumber, string(newStatus))
	return nil
}

// 顧客によるキャンセル。Order Receivedの間だけ、本人だけ。
// 行は消さずIsActive=falseにする（監査のため）。
func (u *CustomerOrderUsecase) Cancel(ctx context.Context, customerID int64, orderID int64, notes string) error {
	if customerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var orderNumber string

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.CustomerOrders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.CustomerID != customerID {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}
		if o.Status.IsTerminal() {
			return NewHTTPError(http.StatusConflict, "order already finalized")
		}

		ok, err := r.CustomerOrders().UpdateStatusFrom(ctx, orderID, model.CustomerOrderReceived, model.CustomerOrderCancelled)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !ok {
			return NewHTTPError(http.StatusConflict, "order already finalized")
		}

		if err := r.CustomerOrders().Deactivate(ctx, orderID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Timeline().Append(ctx, model.OrderTimelineEntry{
			OrderKind: model.OrderKindCustomer,
			OrderID:   orderID,
			Status:    string(model.CustomerOrderCancelled),
			UpdatedBy: customerID,
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

	u.events.OrderStatusChanged(ctx, model.OrderKindCustomer, orderID, orderNumber, string(model.CustomerOrderCancelled))
	return nil
}

func (u *CustomerOrderUsecase) ListMyOrders(ctx context.Context, customerID int64) ([]CustomerOrderOutput, error) {
	if customerID <= 0 {
		return []CustomerOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []CustomerOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.CustomerOrders().ListByCustomer(ctx, customerID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]CustomerOrderOutput, 0, len(orders))
		for _, o := range orders {
			outs = append(outs, toCustomerOrderOutput(o, nil, nil))
		}
		return nil
	})

	if err != nil {
		return []CustomerOrderOutput{}, err
	}
	return outs, nil
}

// 店舗スタッフ向け：自店舗の注文一覧
func (u *CustomerOrderUsecase) ListStoreOrders(ctx context.Context, staff model.User) ([]CustomerOrderOutput, error) {
	if staff.ID <= 0 {
		return []CustomerOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if staff.StoreID == nil || *staff.StoreID <= 0 {
		return []CustomerOrderOutput{}, NewHTTPError(http.StatusForbidden, "manager has no store")
	}

	var outs []CustomerOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.CustomerOrders().ListByStore(ctx, *staff.StoreID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]CustomerOrderOutput, 0, len(orders))
		for _, o := range orders {
			outs = append(outs, toCustomerOrderOutput(o, nil, nil))
		}
		return nil
	})

	if err != nil {
		return []CustomerOrderOutput{}, err
	}
	return outs, nil
}

func (u *CustomerOrderUsecase) GetDetail(ctx context.Context, actor model.User, orderID int64) (CustomerOrderOutput, error) {
	if actor.ID <= 0 {
		return CustomerOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return CustomerOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out CustomerOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.CustomerOrders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//本人か、その店舗のスタッフだけ。他人の注文は「存在しない扱い」
		isOwner := o.CustomerID == actor.ID
		isStoreStaff := actor.Role == model.RoleManager && actor.StoreID != nil && *actor.StoreID == o.StoreID
		if !isOwner && !isStoreStaff {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.CustomerOrders().ListItems(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		timeline, err := r.Timeline().ListByOrder(ctx, model.OrderKindCustomer, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toCustomerOrderOutput(o, items, timeline)
		return nil
	})

	if err != nil {
		return CustomerOrderOutput{}, err
	}
	return out, nil
}

func toCustomerOrderOutput(o model.CustomerOrder, items []model.CustomerOrderItem, timeline []model.OrderTimelineEntry) CustomerOrderOutput {
	outItems := make([]CustomerOrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, CustomerOrderItemOutput{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		})
	}

	return CustomerOrderOutput{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		StoreID:     o.StoreID,
		CustomerID:  o.CustomerID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		IsActive:    o.IsActive,
		CreatedAt:   o.CreatedAt,
		Items:       outItems,
		Timeline:    timeline,
	}
}
