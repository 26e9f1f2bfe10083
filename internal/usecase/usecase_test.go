package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// =====================
// Mocks（repo interfaceごと）
// =====================

type productRepoMock struct{ mock.Mock }

func (m *productRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *productRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *productRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *productRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *productRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *productRepoMock) AssignToStore(ctx context.Context, productID int64, storeID int64) error {
	args := m.Called(ctx, productID, storeID)
	return args.Error(0)
}

func (m *productRepoMock) IsAssignedToStore(ctx context.Context, productID int64, storeID int64) (bool, error) {
	args := m.Called(ctx, productID, storeID)
	return args.Bool(0), args.Error(1)
}

func (m *productRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *productRepoMock) AdjustStock(ctx context.Context, productID int64, delta int64) error {
	args := m.Called(ctx, productID, delta)
	return args.Error(0)
}

func (m *productRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) error {
	args := m.Called(ctx, productID, newStock)
	return args.Error(0)
}

type storeRepoMock struct{ mock.Mock }

func (m *storeRepoMock) Create(ctx context.Context, store model.Store) (int64, error) {
	args := m.Called(ctx, store)
	return args.Get(0).(int64), args.Error(1)
}

func (m *storeRepoMock) FindByID(ctx context.Context, storeID int64) (model.Store, error) {
	args := m.Called(ctx, storeID)
	s, _ := args.Get(0).(model.Store)
	return s, args.Error(1)
}

func (m *storeRepoMock) List(ctx context.Context) ([]model.Store, error) {
	args := m.Called(ctx)
	stores, _ := args.Get(0).([]model.Store)
	return stores, args.Error(1)
}

type ledgerRepoMock struct{ mock.Mock }

func (m *ledgerRepoMock) FindByID(ctx context.Context, entryID int64) (model.StockLedgerEntry, error) {
	args := m.Called(ctx, entryID)
	e, _ := args.Get(0).(model.StockLedgerEntry)
	return e, args.Error(1)
}

func (m *ledgerRepoMock) FindByStoreProduct(ctx context.Context, storeID int64, productID int64) (model.StockLedgerEntry, error) {
	args := m.Called(ctx, storeID, productID)
	e, _ := args.Get(0).(model.StockLedgerEntry)
	return e, args.Error(1)
}

func (m *ledgerRepoMock) Create(ctx context.Context, e model.StockLedgerEntry) (model.StockLedgerEntry, error) {
	args := m.Called(ctx, e)
	created, _ := args.Get(0).(model.StockLedgerEntry)
	return created, args.Error(1)
}

func (m *ledgerRepoMock) ListByStore(ctx context.Context, storeID int64) ([]model.StockLedgerEntry, error) {
	args := m.Called(ctx, storeID)
	entries, _ := args.Get(0).([]model.StockLedgerEntry)
	return entries, args.Error(1)
}

func (m *ledgerRepoMock) AddQuantity(ctx context.Context, entryID int64, qty int64) error {
	args := m.Called(ctx, entryID, qty)
	return args.Error(0)
}

func (m *ledgerRepoMock) SubtractQuantityFloored(ctx context.Context, entryID int64, qty int64) error {
	args := m.Called(ctx, entryID, qty)
	return args.Error(0)
}

func (m *ledgerRepoMock) SetQuantity(ctx context.Context, entryID int64, qty int64) error {
	args := m.Called(ctx, entryID, qty)
	return args.Error(0)
}

func (m *ledgerRepoMock) ShiftQuantityFloored(ctx context.Context, entryID int64, delta int64) error {
	args := m.Called(ctx, entryID, delta)
	return args.Error(0)
}

func (m *ledgerRepoMock) AppendMovement(ctx context.Context, mv model.StockMovement) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}

func (m *ledgerRepoMock) ListMovements(ctx context.Context, entryID int64) ([]model.StockMovement, error) {
	args := m.Called(ctx, entryID)
	mvs, _ := args.Get(0).([]model.StockMovement)
	return mvs, args.Error(1)
}

func (m *ledgerRepoMock) SumQuantityByProduct(ctx context.Context, productID int64) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

type customerOrderRepoMock struct{ mock.Mock }

func (m *customerOrderRepoMock) Create(ctx context.Context, order model.CustomerOrder) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *customerOrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.CustomerOrder, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.CustomerOrder)
	return o, args.Error(1)
}

func (m *customerOrderRepoMock) ListByCustomer(ctx context.Context, customerID int64, page int, limit int) ([]model.CustomerOrder, int64, error) {
	args := m.Called(ctx, customerID, page, limit)
	orders, _ := args.Get(0).([]model.CustomerOrder)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *customerOrderRepoMock) ListByStore(ctx context.Context, storeID int64, page int, limit int) ([]model.CustomerOrder, int64, error) {
	args := m.Called(ctx, storeID, page, limit)
	orders, _ := args.Get(0).([]model.CustomerOrder)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *customerOrderRepoMock) UpdateStatusFrom(ctx context.Context, orderID int64, from, to model.CustomerOrderStatus) (bool, error) {
	args := m.Called(ctx, orderID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *customerOrderRepoMock) Deactivate(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *customerOrderRepoMock) CreateItems(ctx context.Context, orderID int64, items []model.CustomerOrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *customerOrderRepoMock) ListItems(ctx context.Context, orderID int64) ([]model.CustomerOrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.CustomerOrderItem)
	return items, args.Error(1)
}

type supplierOrderRepoMock struct{ mock.Mock }

func (m *supplierOrderRepoMock) Create(ctx context.Context, order model.SupplierOrder) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *supplierOrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.SupplierOrder, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.SupplierOrder)
	return o, args.Error(1)
}

func (m *supplierOrderRepoMock) ListByManager(ctx context.Context, managerID int64, page int, limit int) ([]model.SupplierOrder, int64, error) {
	args := m.Called(ctx, managerID, page, limit)
	orders, _ := args.Get(0).([]model.SupplierOrder)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *supplierOrderRepoMock) ListBySupplier(ctx context.Context, supplierID int64, page int, limit int) ([]model.SupplierOrder, int64, error) {
	args := m.Called(ctx, supplierID, page, limit)
	orders, _ := args.Get(0).([]model.SupplierOrder)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *supplierOrderRepoMock) UpdateStatusFrom(ctx context.Context, orderID int64, from, to model.SupplierOrderStatus) (bool, error) {
	args := m.Called(ctx, orderID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *supplierOrderRepoMock) SetExpectedDeliveryDate(ctx context.Context, orderID int64, date *time.Time) error {
	args := m.Called(ctx, orderID, date)
	return args.Error(0)
}

func (m *supplierOrderRepoMock) SetDeliveryResult(ctx context.Context, orderID int64, upd repo.DeliveryResultUpdate) error {
	args := m.Called(ctx, orderID, upd)
	return args.Error(0)
}

func (m *supplierOrderRepoMock) SetActualDeliveryDate(ctx context.Context, orderID int64, date time.Time) error {
	args := m.Called(ctx, orderID, date)
	return args.Error(0)
}

func (m *supplierOrderRepoMock) Deactivate(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *supplierOrderRepoMock) CreateItems(ctx context.Context, orderID int64, items []model.SupplierOrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *supplierOrderRepoMock) ListItems(ctx context.Context, orderID int64) ([]model.SupplierOrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.SupplierOrderItem)
	return items, args.Error(1)
}

func (m *supplierOrderRepoMock) SetItemDeliveredQuantity(ctx context.Context, itemID int64, qty int64) error {
	args := m.Called(ctx, itemID, qty)
	return args.Error(0)
}

type timelineRepoMock struct{ mock.Mock }

func (m *timelineRepoMock) Append(ctx context.Context, entry model.OrderTimelineEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *timelineRepoMock) ListByOrder(ctx context.Context, kind model.OrderKind, orderID int64) ([]model.OrderTimelineEntry, error) {
	args := m.Called(ctx, kind, orderID)
	entries, _ := args.Get(0).([]model.OrderTimelineEntry)
	return entries, args.Error(1)
}

type saleRepoMock struct{ mock.Mock }

func (m *saleRepoMock) Create(ctx context.Context, sale model.Sale) (int64, error) {
	args := m.Called(ctx, sale)
	return args.Get(0).(int64), args.Error(1)
}

func (m *saleRepoMock) CreateItems(ctx context.Context, saleID int64, items []model.SaleItem) error {
	args := m.Called(ctx, saleID, items)
	return args.Error(0)
}

func (m *saleRepoMock) FindByID(ctx context.Context, saleID int64) (model.Sale, error) {
	args := m.Called(ctx, saleID)
	s, _ := args.Get(0).(model.Sale)
	return s, args.Error(1)
}

func (m *saleRepoMock) ListItems(ctx context.Context, saleID int64) ([]model.SaleItem, error) {
	args := m.Called(ctx, saleID)
	items, _ := args.Get(0).([]model.SaleItem)
	return items, args.Error(1)
}

func (m *saleRepoMock) ListByStore(ctx context.Context, storeID int64, page int, limit int) ([]model.Sale, int64, error) {
	args := m.Called(ctx, storeID, page, limit)
	sales, _ := args.Get(0).([]model.Sale)
	return sales, args.Get(1).(int64), args.Error(2)
}

type counterRepoMock struct{ mock.Mock }

func (m *counterRepoMock) NextSequence(ctx context.Context, prefix string, dateKey string) (int64, error) {
	args := m.Called(ctx, prefix, dateKey)
	return args.Get(0).(int64), args.Error(1)
}

// =====================
// Tx fixture
// =====================

// 全repoのmockを束ねたTxRepos実装。
// fakeTxManagerはfnをそのまま呼ぶ（エラーが返ればロールバックされた扱い）。
type txReposFixture struct {
	products       *productRepoMock
	stores         *storeRepoMock
	ledger         *ledgerRepoMock
	customerOrders *customerOrderRepoMock
	supplierOrders *supplierOrderRepoMock
	timeline       *timelineRepoMock
	sales          *saleRepoMock
	counters       *counterRepoMock
}

func newTxReposFixture() *txReposFixture {
	return &txReposFixture{
		products:       new(productRepoMock),
		stores:         new(storeRepoMock),
		ledger:         new(ledgerRepoMock),
		customerOrders: new(customerOrderRepoMock),
		supplierOrders: new(supplierOrderRepoMock),
		timeline:       new(timelineRepoMock),
		sales:          new(saleRepoMock),
		counters:       new(counterRepoMock),
	}
}

func (f *txReposFixture) Products() repo.ProductRepository              { return f.products }
func (f *txReposFixture) Stores() repo.StoreRepository                  { return f.stores }
func (f *txReposFixture) Ledger() repo.LedgerRepository                 { return f.ledger }
func (f *txReposFixture) CustomerOrders() repo.CustomerOrderRepository  { return f.customerOrders }
func (f *txReposFixture) SupplierOrders() repo.SupplierOrderRepository  { return f.supplierOrders }
func (f *txReposFixture) Timeline() repo.TimelineRepository             { return f.timeline }
func (f *txReposFixture) Sales() repo.SaleRepository                    { return f.sales }
func (f *txReposFixture) Counters() repo.CounterRepository              { return f.counters }

func (f *txReposFixture) assertExpectations(t *testing.T) {
	f.products.AssertExpectations(t)
	f.stores.AssertExpectations(t)
	f.ledger.AssertExpectations(t)
	f.customerOrders.AssertExpectations(t)
	f.supplierOrders.AssertExpectations(t)
	f.timeline.AssertExpectations(t)
	f.sales.AssertExpectations(t)
	f.counters.AssertExpectations(t)
}

type fakeTxManager struct {
	repos *txReposFixture
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.repos)
}

// =====================
// 通知のレコーダー
// =====================

type stockEvent struct {
	StoreID   int64
	ProductID int64
	Quantity  int64
}

type orderEvent struct {
	Kind        model.OrderKind
	OrderID     int64
	OrderNumber string
	Status      string
}

type eventsRecorder struct {
	stockUpdated []stockEvent
	lowStock     []stockEvent
	orderChanged []orderEvent
}

func (r *eventsRecorder) StockUpdated(ctx context.Context, storeID, productID, quantity int64) {
	r.stockUpdated = append(r.stockUpdated, stockEvent{storeID, productID, quantity})
}

func (r *eventsRecorder) LowStock(ctx context.Context, storeID, productID, quantity, reorderLevel int64) {
	r.lowStock = append(r.lowStock, stockEvent{storeID, productID, quantity})
}

func (r *eventsRecorder) OrderStatusChanged(ctx context.Context, kind model.OrderKind, orderID int64, orderNumber string, status string) {
	r.orderChanged = append(r.orderChanged, orderEvent{kind, orderID, orderNumber, status})
}

type receiptsRecorder struct {
	rendered []model.Sale
}

func (r *receiptsRecorder) Render(ctx context.Context, sale model.Sale, items []model.SaleItem) error {
	r.rendered = append(r.rendered, sale)
	return nil
}

// =====================
// Helpers
// =====================

func assertErrContains(t *testing.T, err error, want string) {
	t.Helper()
	assert.Error(t, err)
	if err != nil {
		assert.True(t, strings.Contains(err.Error(), want),
			"error %q should contain %q", err.Error(), want)
	}
}

func assertHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := AsHTTPError(err)
	assert.True(t, ok, "expected HTTPError, got %v", err)
	if ok {
		assert.Equal(t, status, he.Status)
	}
}

func ptrInt64(v int64) *int64 { return &v }
