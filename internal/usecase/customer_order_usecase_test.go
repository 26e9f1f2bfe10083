package usecase

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

func newCustomerOrderFixture() (*CustomerOrderUsecase, *txReposFixture, *eventsRecorder) {
	f := newTxReposFixture()
	events := new(eventsRecorder)
	uc := NewCustomerOrderUsecase(&fakeTxManager{repos: f}, events)
	return uc, f, events
}

func TestCustomerOrder_Place_Success(t *testing.T) {
	ctx := context.Background()
	uc, f, events := newCustomerOrderFixture()

	f.stores.On("FindByID", mock.Anything, int64(1)).Return(model.Store{ID: 1}, nil)
	f.products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, Price: 300, IsActive: true}, nil)
	f.products.On("IsAssignedToStore", mock.Anything, int64(10), int64(1)).Return(true, nil)
	f.counters.On("NextSequence", mock.Anything, "ORD", mock.Anything).Return(int64(3), nil)
	f.customerOrders.On("Create", mock.Anything, mock.MatchedBy(func(o model.CustomerOrder) bool {
		return o.Status == model.CustomerOrderReceived && o.TotalAmount == 600 &&
			o.IsActive && strings.HasPrefix(o.OrderNumber, "ORD-") && strings.HasSuffix(o.OrderNumber, "-0003")
	})).Return(int64(55), nil)
	f.customerOrders.On("CreateItems", mock.Anything, int64(55), mock.Anything).Return(nil)
	f.timeline.On("Append", mock.Anything, mock.MatchedBy(func(e model.OrderTimelineEntry) bool {
		return e.OrderKind == model.OrderKindCustomer && e.OrderID == 55 &&
			e.Status == string(model.CustomerOrderReceived) && e.UpdatedBy == 42
	})).Return(nil)

	out, err := uc.Place(ctx, 42, PlaceCustomerOrderInput{
		StoreID: 1,
		Items:   []OrderItemInput{{ProductID: 10, Quantity: 2}},
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(55), out.ID)
	assert.Equal(t, string(model.CustomerOrderReceived), out.Status)
	assert.Equal(t, int64(600), out.TotalAmount)

	//注文番号は <PREFIX>-<YYYYMMDD>-<4桁連番>
	wantDate := time.Now().Format("20060102")
	assert.Equal(t, "ORD-"+wantDate+"-0003", out.OrderNumber)

	assert.Len(t, events.orderChanged, 1)
	assert.Equal(t, out.OrderNumber, events.orderChanged[0].OrderNumber)

	f.assertExpectations(t)
}

func TestCustomerOrder_Place_InactiveProduct(t *testing.T) {
	ctx := context.Background()
	uc, f, _ := newCustomerOrderFixture()

	f.stores.On("FindByID", mock.Anything, int64(1)).Return(model.Store{ID: 1}, nil)
	f.products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, IsActive: false}, nil)

	_, err := uc.Place(ctx, 42, PlaceCustomerOrderInput{
		StoreID: 1,
		Items:   []OrderItemInput{{ProductID: 10, Quantity: 1}},
	})
	assertHTTPStatus(t, err, http.StatusBadRequest)
	assertErrContains(t, err, "not active")
}

func TestCustomerOrder_UpdateStatus_OnlyCompleteOrReject(t *testing.T) {
	uc, _, _ := newCustomerOrderFixture()
	staff := model.User{ID: 9, Role: model.RoleManager, StoreID: ptrInt64(1)}

	err := uc.UpdateStatus(context.Background(), staff, 55, model.CustomerOrderCancelled, "")
	assertErrContains(t, err, "invalid status")
}

func TestCustomerOrder_UpdateStatus_WrongStoreForbidden(t *testing.T) {
	ctx := context.Background()
	uc, f, _ := newCustomerOrderFixture()

	f.customerOrders.On("FindByID", mock.Anything, int64(55)).Return(model.CustomerOrder{
		ID: 55, StoreID: 2, Status: model.CustomerOrderReceived,
	}, nil)

	staff := model.User{ID: 9, Role: model.RoleManager, StoreID: ptrInt64(1)}
	err := uc.UpdateStatus(ctx, staff, 55, model.CustomerOrderCompleted, "")
	assertHTTPStatus(t, err, http.StatusForbidden)

	f.customerOrders.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCustomerOrder_UpdateStatus_TerminalConflict(t *testing.T) {
	ctx := context.Background()
	uc, f, _ := newCustomerOrderFixture()

	f.customerOrders.On("FindByID", mock.Anything, int64(55)).Return(model.CustomerOrder{
		ID: 55, StoreID: 1, Status: model.CustomerOrderCompleted,
	}, nil)

	staff := model.User{ID: 9, Role: model.RoleManager, StoreID: ptrInt64(1)}
	err := uc.UpdateStatus(ctx, staff, 55, model.CustomerOrderRejected, "")
	assertHTTPStatus(t, err, http.StatusConflict)
}

// 読み時点ではReceivedでも、0行更新なら他の遷移に負けた（競合）
func TestCustomerOrder_UpdateStatus_LostRace(t *testing.T) {
	ctx := context.Background()
	uc, f, _ := newCustomerOrderFixture()

	f.customerOrders.On("FindByID", mock.Anything, int64(55)).Return(model.CustomerOrder{
		ID: 55, StoreID: 1, Status: model.CustomerOrderReceived,
	}, nil)
	f.customerOrders.On("UpdateStatusFrom", mock.Anything, int64(55),
		model.CustomerOrderReceived, model.CustomerOrderCompleted).Return(false, nil)

	staff := model.User{ID: 9, Role: model.RoleManager, StoreID: ptrInt64(1)}
	err := uc.UpdateStatus(ctx, staff, 55, model.CustomerOrderCompleted, "")
	assertHTTPStatus(t, err, http.StatusConflict)

	f.timeline.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestCustomerOrder_UpdateStatus_Success(t *testing.T) {
	ctx := context.Background()
	uc, f, events := newCustomerOrderFixture()

	f.customerOrders.On("FindByID", mock.Anything, int64(55)).Return(model.CustomerOrder{
		ID: 55, OrderNumber: "ORD-20260831-0001", StoreID: 1, Status: model.CustomerOrderReceived,
	}, nil)
	f.customerOrders.On("UpdateStatusFrom", mock.Anything, int64(55),
		model.CustomerOrderReceived, model.CustomerOrderCompleted).Return(true, nil)
	f.timeline.On("Append", mock.Anything, mock.MatchedBy(func(e model.OrderTimelineEntry) bool {
		return e.Status == string(model.CustomerOrderCompleted) && e.UpdatedBy == 9
	})).Return(nil)

	staff := model.User{ID: 9, Role: model.RoleManager, StoreID: ptrInt64(1)}
	err := uc.UpdateStatus(ctx, staff, 55, model.CustomerOrderCompleted, "picked up")
	assert.NoError(t, err)

	assert.Len(t, events.orderChanged, 1)
	assert.Equal(t, string(model.CustomerOrderCompleted), events.orderChanged[0].Status)

	f.assertExpectations(t)
}

func TestCustomerOrder_Cancel_OnlyOwner(t *testing.T) {
	ctx := context.Background()
	uc, f, _ := newCustomerOrderFixture()

	f.customerOrders.On("FindByID", mock.Anything, int64(55)).Return(model.CustomerOrder{
		ID: 55, CustomerID: 42, Status: model.CustomerOrderReceived,
	}, nil)

	err := uc.Cancel(ctx, 43, 55, "")
	assertHTTPStatus(t, err, http.StatusForbidden)
}

func TestCustomerOrder_Cancel_Success_SoftDeletes(t *testing.T) {
	ctx := context.Background()
	uc, f, _ := newCustomerOrderFixture()

	f.customerOrders.On("FindByID", mock.Anything, int64(55)).Return(model.CustomerOrder{
		ID: 55, OrderNumber: "ORD-20260831-0001", CustomerID: 42, Status: model.CustomerOrderReceived,
	}, nil)
	f.customerOrders.On("UpdateStatusFrom", mock.Anything, int64(55),
		model.CustomerOrderReceived, model.CustomerOrderCancelled).Return(true, nil)
	f.customerOrders.On("Deactivate", mock.Anything, int64(55)).Return(nil)
	f.timeline.On("Append", mock.Anything, mock.Anything).Return(nil)

	err := uc.Cancel(ctx, 42, 55, "changed my mind")
	assert.NoError(t, err)

	f.assertExpectations(t)
}

func TestCustomerOrder_Cancel_AfterCompletionConflict(t *testing.T) {
	ctx := context.Background()
	uc, f, _ := newCustomerOrderFixture()

	f.customerOrders.On("FindByID", mock.Anything, int64(55)).Return(model.CustomerOrder{
		ID: 55, CustomerID: 42, Status: model.CustomerOrderCompleted,
	}, nil)

	err := uc.Cancel(ctx, 42, 55, "")
	assertHTTPStatus(t, err, http.StatusConflict)

	f.customerOrders.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
}

// 他人の注文は404（403ではなく存在しない扱い）
func TestCustomerOrder_GetDetail_OtherCustomerNotFound(t *testing.T) {
	ctx := context.Background()
	uc, f, _ := newCustomerOrderFixture()

	f.customerOrders.On("FindByID", mock.Anything, int64(55)).Return(model.CustomerOrder{
		ID: 55, StoreID: 1, CustomerID: 42,
	}, nil)

	actor := model.User{ID: 43, Role: model.RoleCustomer}
	_, err := uc.GetDetail(ctx, actor, 55)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestCustomerOrder_GetDetail_StoreManagerAllowed(t *testing.T) {
	ctx := context.Background()
	uc, f, _ := newCustomerOrderFixture()

	f.customerOrders.On("FindByID", mock.Anything, int64(55)).Return(model.CustomerOrder{
		ID: 55, StoreID: 1, CustomerID: 42, Status: model.CustomerOrderReceived,
	}, nil)
	f.customerOrders.On("ListItems", mock.Anything, int64(55)).Return([]model.CustomerOrderItem{}, nil)
	f.timeline.On("ListByOrder", mock.Anything, model.OrderKindCustomer, int64(55)).Return([]model.OrderTimelineEntry{}, nil)

	actor := model.User{ID: 9, Role: model.RoleManager, StoreID: ptrInt64(1)}
	out, err := uc.GetDetail(ctx, actor, 55)
	assert.NoError(t, err)
	assert.Equal(t, int64(55), out.ID)

	f.assertExpectations(t)
}

func TestCustomerOrder_Place_StoreNotFound(t *testing.T) {
	ctx := context.Background()
	uc, f, _ := newCustomerOrderFixture()

	f.stores.On("FindByID", mock.Anything, int64(9)).Return(model.Store{}, repo.ErrNotFound)

	_, err := uc.Place(ctx, 42, PlaceCustomerOrderInput{
		StoreID: 9,
		Items:   []OrderItemInput{{ProductID: 10, Quantity: 1}},
	})
	assertHTTPStatus(t, err, http.StatusNotFound)
}
