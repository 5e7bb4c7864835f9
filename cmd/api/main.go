package main

import (
	"log"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	orderUC := usecase.NewOrderUsecase(txManager, orderRepo, orderItemRepo, userRepo)
	productUC := usecase.NewProductUsecase(productRepo)
	userUC := usecase.NewUserUsecase(userRepo, 12)
	loginUC := usecase.NewLoginUsecase(userRepo, cfg.JWTSecret, 15*time.Minute)

	//Handler生成
	orderH := handler.NewOrderHandler(orderUC)
	productH := handler.NewProductHandler(productUC)
	userH := handler.NewUserHandler(userUC)
	authH := handler.NewAuthHandler(loginUC)

	//Server起動
	e := server.New(cfg, orderH, productH, userH, authH)
	if err := server.Start(e, ":"+cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
