package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStock_OutOfStock(t *testing.T) {
	assert.Equal(t, StockStatusOutOfStock, ClassifyStock(0, 10, 100))
}

// quantity=0はreorderLevel=0でもout_of_stock（lowより優先）
func TestClassifyStock_ZeroWinsOverLow(t *testing.T) {
	assert.Equal(t, StockStatusOutOfStock, ClassifyStock(0, 0, 100))
}

// quantity=0はmaxStock=0でもout_of_stock（overより優先）
func TestClassifyStock_ZeroWinsOverOver(t *testing.T) {
	assert.Equal(t, StockStatusOutOfStock, ClassifyStock(0, 10, 0))
}

func TestClassifyStock_LowStock(t *testing.T) {
	assert.Equal(t, StockStatusLowStock, ClassifyStock(1, 10, 100))
	assert.Equal(t, StockStatusLowStock, ClassifyStock(10, 10, 100))
}

// low判定はover判定より先（reorderLevel ≥ maxStockの歪んだ設定でも順序は変えない）
func TestClassifyStock_LowWinsOverOver(t *testing.T) {
	assert.Equal(t, StockStatusLowStock, ClassifyStock(5, 10, 5))
}

func TestClassifyStock_Overstock(t *testing.T) {
	assert.Equal(t, StockStatusOverstock, ClassifyStock(100, 10, 100))
	assert.Equal(t, StockStatusOverstock, ClassifyStock(150, 10, 100))
}

func TestClassifyStock_InStock(t *testing.T) {
	assert.Equal(t, StockStatusInStock, ClassifyStock(11, 10, 100))
	assert.Equal(t, StockStatusInStock, ClassifyStock(99, 10, 100))
}

func TestStockLedgerEntry_Status(t *testing.T) {
	e := StockLedgerEntry{Quantity: 3, ReorderLevel: 10, MaxStock: 100}
	assert.Equal(t, StockStatusLowStock, e.Status())
}

func TestCustomerOrderStatus_IsTerminal(t *testing.T) {
	assert.False(t, CustomerOrderReceived.IsTerminal())
	assert.True(t, CustomerOrderCompleted.IsTerminal())
	assert.True(t, CustomerOrderRejected.IsTerminal())
	assert.True(t, CustomerOrderCancelled.IsTerminal())
}

func TestSupplierOrderStatus_IsTerminal(t *testing.T) {
	assert.False(t, SupplierOrderPending.IsTerminal())
	assert.False(t, SupplierOrderApproved.IsTerminal())
	assert.True(t, SupplierOrderRejected.IsTerminal())
	assert.True(t, SupplierOrderDelivered.IsTerminal())
	assert.True(t, SupplierOrderCancelled.IsTerminal())
}
