package main

import (
	"github.com/joho/godotenv"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/logging"
	"app/internal/notifier"
	"app/internal/server"
	"app/internal/usecase"
)

func main() {
	//.envは無くても動く（本番は環境変数で渡す）
	_ = godotenv.Load()

	log := logging.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config load failed")
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Store{},
		&model.Product{},
		&model.ProductStore{},
		&model.StockLedgerEntry{},
		&model.StockMovement{},
		&model.CustomerOrder{},
		&model.CustomerOrderItem{},
		&model.SupplierOrder{},
		&model.SupplierOrderItem{},
		&model.OrderTimelineEntry{},
		&model.Sale{},
		&model.SaleItem{},
		&model.OrderCounter{},
	); err != nil {
		log.WithError(err).Fatal("migrate failed")
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	storeRepo := infraRepo.NewStoreGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//通知系（構造化ログへの出力）
	events := notifier.NewLogEvents(log)
	receipts := notifier.NewLogReceiptRenderer(log)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, storeRepo)
	productUC := usecase.NewProductUsecase(productRepo, storeRepo)
	storeUC := usecase.NewStoreUsecase(storeRepo)
	stockUC := usecase.NewStockUsecase(txManager, events)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, events, receipts)
	customerOrderUC := usecase.NewCustomerOrderUsecase(txManager, events)
	supplierOrderUC := usecase.NewSupplierOrderUsecase(txManager, events)

	//Handler生成
	h := server.Handlers{
		Auth:          handler.NewAuthHandler(authUC),
		Product:       handler.NewProductHandler(productUC),
		Store:         handler.NewStoreHandler(storeUC),
		Admin:         handler.NewAdminHandler(productUC, storeUC),
		Stock:         handler.NewStockHandler(stockUC),
		Checkout:      handler.NewCheckoutHandler(checkoutUC),
		CustomerOrder: handler.NewCustomerOrderHandler(customerOrderUC),
		SupplierOrder: handler.NewSupplierOrderHandler(supplierOrderUC),
	}

	//Server起動
	e := server.New(cfg, log, h)
	if err := server.Start(e, cfg); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
