package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/logging"
)

// カタログ在庫（Product.Stock）を台帳の合計から作り直す保守コマンド。
// ミラーがズレた疑いがあるときに実行する。台帳が常に正。
func main() {
	dryRun := flag.Bool("dry-run", false, "差分の表示だけ行い書き込まない")
	flag.Parse()

	_ = godotenv.Load()

	log := logging.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config load failed")
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}

	ledgerRepo := infraRepo.NewLedgerGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)

	ctx := context.Background()

	//削除済み商品も対象（ミラーを残したまま消えている場合がある）
	var productIDs []int64
	if err := gormDB.WithContext(ctx).
		Model(&model.Product{}).
		Unscoped().
		Pluck("id", &productIDs).Error; err != nil {
		log.WithError(err).Fatal("list products failed")
	}

	fixed := 0
	for _, id := range productIDs {
		want, err := ledgerRepo.SumQuantityByProduct(ctx, id)
		if err != nil {
			log.WithError(err).WithField("product_id", id).Error("sum failed")
			continue
		}

		p, err := productRepo.FindByID(ctx, id)
		if err != nil {
			//削除済みはFindByIDに出ないので直接読む
			if err2 := gormDB.WithContext(ctx).Unscoped().First(&p, id).Error; err2 != nil {
				log.WithError(err2).WithField("product_id", id).Error("load failed")
				continue
			}
		}

		if p.Stock == want {
			continue
		}

		log.WithFields(map[string]interface{}{
			"product_id": id,
			"stock":      p.Stock,
			"ledger_sum": want,
		}).Warn("stock mismatch")

		if *dryRun {
			continue
		}

		if err := productRepo.SetStock(ctx, id, want); err != nil {
			log.WithError(err).WithField("product_id", id).Error("set stock failed")
			continue
		}
		fixed++
	}

	log.WithFields(map[string]interface{}{
		"products": len(productIDs),
		"fixed":    fixed,
		"dry_run":  *dryRun,
	}).Info("stock rebuild finished")
}
