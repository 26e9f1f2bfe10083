package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	products       repo.ProductRepository
	stores         repo.StoreRepository
	ledger         repo.LedgerRepository
	customerOrders repo.CustomerOrderRepository
	supplierOrders repo.SupplierOrderRepository
	timeline       repo.TimelineRepository
	sales          repo.SaleRepository
	counters       repo.CounterRepository
}

func (r *txReposGorm) Products() repo.ProductRepository             { return r.products }
func (r *txReposGorm) Stores() repo.StoreRepository                 { return r.stores }
func (r *txReposGorm) Ledger() repo.LedgerRepository                { return r.ledger }
func (r *txReposGorm) CustomerOrders() repo.CustomerOrderRepository { return r.customerOrders }
func (r *txReposGorm) SupplierOrders() repo.SupplierOrderRepository { return r.supplierOrders }
func (r *txReposGorm) Timeline() repo.TimelineRepository            { return r.timeline }
func (r *txReposGorm) Sales() repo.SaleRepository                   { return r.sales }
func (r *txReposGorm) Counters() repo.CounterRepository             { return r.counters }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			products:       NewProductGormRepository(tx),
			stores:         NewStoreGormRepository(tx),
			ledger:         NewLedgerGormRepository(tx),
			customerOrders: NewCustomerOrderGormRepository(tx),
			supplierOrders: NewSupplierOrderGormRepository(tx),
			timeline:       NewTimelineGormRepository(tx),
			sales:          NewSaleGormRepository(tx),
			counters:       NewCounterGormRepository(tx),
		}
		return fn(r)
	})
}
