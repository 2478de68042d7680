package main

import (
	"os"
	"strconv"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/audit"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"
	auth "app/internal/usecase/auth_usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func newJWTIssuer(secret string) *jwtIssuer {
	//アクセストークン
	return &jwtIssuer{
		secret:    []byte(secret),
		accessTTL: 15 * time.Minute,
	}
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(userID, 10),
		"role": string(role),
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envは無くても起動できる（本番は環境変数で渡す）
	_ = godotenv.Load("../.env")

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config load failed")
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		logger.Fatal().Err(err).Msg("db connect failed")
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Address{},
		&model.Product{},
		&model.Discount{},
		&model.Order{},
		&model.OrderItem{},
		&model.Tracking{},
		&model.Commission{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
	); err != nil {
		logger.Fatal().Err(err).Msg("migrate failed")
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	discountRepo := infraRepo.NewDiscountGormRepository(gormDB)
	commissionRepo := infraRepo.NewCommissionGormRepository(gormDB)
	auditLogRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	clock := &realClock{}
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := newJWTIssuer(cfg.JWTSecret)
	auditSink := audit.NewRepoSink(auditLogRepo, logger)

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer, clock)
	productUC := usecase.NewProductUsecase(productRepo, inventoryRepo, discountRepo, auditSink, clock)
	discountUC := usecase.NewDiscountUsecase(productRepo, discountRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, addressRepo, auditSink, cfg.CommissionPercent)
	addressUC := usecase.NewAddressUsecase(addressRepo)
	fulfillmentUC := usecase.NewFulfillmentUsecase(txManager, auditSink)
	earningsUC := usecase.NewEarningsUsecase(commissionRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, auditSink)
	adminAuditUC := usecase.NewAdminAuditUsecase(auditLogRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:          handler.NewAuthHandler(registerUC, loginUC),
		Product:       handler.NewProductHandler(productUC),
		SellerProduct: handler.NewSellerProductHandler(productUC),
		Discount:      handler.NewDiscountHandler(discountUC),
		Order:         handler.NewOrderHandler(checkoutUC),
		Address:       handler.NewAddressHandler(addressUC),
		Fulfillment:   handler.NewFulfillmentHandler(fulfillmentUC),
		Earnings:      handler.NewEarningsHandler(earningsUC),
		AdminOrder:    handler.NewAdminOrderHandler(adminOrderUC),
		AdminAudit:    handler.NewAdminAuditHandler(adminAuditUC),
	}

	e := server.New(cfg, logger, handlers)

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Msg("server start")
	if err := server.Start(e, addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
