package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Products() ProductRepository
	Stores() StoreRepository
	Ledger() LedgerRepository
	CustomerOrders() CustomerOrderRepository
	SupplierOrders() SupplierOrderRepository
	Timeline() TimelineRepository
	Sales() SaleRepository
	Counters() CounterRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがエラーを返したら全部ロールバック（部分書き込みは外から見えない）。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
