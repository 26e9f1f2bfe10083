package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 条件付きUPDATE・UPSERTの挙動は実DBでしか確かめられないので、
// TEST_DATABASE_DSN があるときだけ実行する。
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open failed: %v", err)
	}
	if err := db.AutoMigrate(&model.Product{}, &model.StockLedgerEntry{}, &model.OrderCounter{}); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}
	return db
}

// 最後の1個を同時に狙ったら成功は必ず1回だけ。在庫がマイナスにならない。
func TestProductGorm_DecreaseStockIfEnough_LastUnit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	products := NewProductGormRepository(db)

	created, err := products.Create(ctx, model.Product{
		Name:     fmt.Sprintf("last-unit-%d", time.Now().UnixNano()),
		Price:    100,
		Stock:    1,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	const workers = 4
	results := make([]bool, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := products.DecreaseStockIfEnough(ctx, created.ID, 1)
			assert.NoError(t, err)
			results[i] = ok
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, ok := range results {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)

	got, err := products.FindByID(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), got.Stock)
}

// 台帳の引き落としは0で止まる。符号付きデルタも同様。
func TestLedgerGorm_QuantityUpdates_FlooredAtZero(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	ledger := NewLedgerGormRepository(db)

	base := time.Now().UnixNano()
	entry, err := ledger.Create(ctx, model.StockLedgerEntry{
		StoreID:      base,
		ProductID:    base,
		Quantity:     5,
		ReorderLevel: model.DefaultReorderLevel,
		MaxStock:     model.DefaultMaxStock,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	//在庫5から8引いても0で止まる
	assert.NoError(t, ledger.SubtractQuantityFloored(ctx, entry.ID, 8))
	got, err := ledger.FindByID(ctx, entry.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), got.Quantity)

	assert.NoError(t, ledger.ShiftQuantityFloored(ctx, entry.ID, -3))
	got, err = ledger.FindByID(ctx, entry.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), got.Quantity)

	assert.NoError(t, ledger.AddQuantity(ctx, entry.ID, 4))
	got, err = ledger.FindByID(ctx, entry.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), got.Quantity)

	//存在しないエントリはRowsAffected=0でErrNotFound
	err = ledger.SubtractQuantityFloored(ctx, entry.ID+1_000_000, 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

// 同一（prefix, 日付キー）の同時採番で番号が重複しないこと
func TestCounterGorm_NextSequence_ConcurrentNoDuplicates(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	counters := NewCounterGormRepository(db)

	prefix := fmt.Sprintf("T%06d", time.Now().UnixNano()%1_000_000)
	dateKey := time.Now().Format("20060102")

	const n = 8
	seqs := make([]int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seq, err := counters.NextSequence(ctx, prefix, dateKey)
			assert.NoError(t, err)
			seqs[i] = seq
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, n)
	for _, s := range seqs {
		assert.False(t, seen[s], "sequence %d issued twice", s)
		seen[s] = true
		assert.GreaterOrEqual(t, s, int64(1))
		assert.LessOrEqual(t, s, int64(n))
	}
}
