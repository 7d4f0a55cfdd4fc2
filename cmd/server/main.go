package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	identityapp "github.com/tripled/backend/internal/application/identity"
	ledgerapp "github.com/tripled/backend/internal/application/ledger"
	realtyapp "github.com/tripled/backend/internal/application/realty"
	"github.com/tripled/backend/internal/domain/ledger"
	"github.com/tripled/backend/internal/infrastructure/auth"
	"github.com/tripled/backend/internal/infrastructure/cache"
	"github.com/tripled/backend/internal/infrastructure/config"
	"github.com/tripled/backend/internal/infrastructure/logger"
	"github.com/tripled/backend/internal/infrastructure/persistence"
	"github.com/tripled/backend/internal/interfaces/http/handler"
	"github.com/tripled/backend/internal/interfaces/http/middleware"
	"github.com/tripled/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormLevel := gormlogger.Warn
	if cfg.App.Env == "development" {
		gormLevel = gormlogger.Info
	}
	database, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, gormLevel)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	db := database.DB
	txManager := persistence.NewGormTransactionManager(db)

	// Redis backs the balance cache and token blacklist. Both degrade
	// to in-process fallbacks when Redis is unavailable, which is
	// acceptable for a single-instance deployment.
	var balanceCache ledgerapp.BalanceCache
	var blacklist auth.TokenBlacklist
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, using in-memory fallbacks", zap.Error(err))
		balanceCache = cache.NewInMemoryBalanceCache(cfg.Cache.BalanceTTL)
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		defer func() { _ = redisClient.Close() }()
		balanceCache = cache.NewRedisBalanceCache(redisClient, cfg.Cache.BalanceTTL, log)
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	branchRepo := persistence.NewGormBranchRepository(db)
	categoryRepo := persistence.NewGormCategoryRepository(db)
	transactionRepo := persistence.NewGormTransactionRepository(db)
	allocationRepo := persistence.NewGormFundAllocationRepository(db)
	realtorRepo := persistence.NewGormRealtorRepository(db)
	saleRepo := persistence.NewGormPropertySaleRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)
	commissionRepo := persistence.NewGormCommissionRepository(db)
	userRepo := persistence.NewGormUserRepository(db)

	systemCats, err := loadSystemCategories(context.Background(), categoryRepo)
	if err != nil {
		log.Fatal("failed to resolve system categories; run migrations first", zap.Error(err))
	}

	branchService := ledgerapp.NewBranchService(branchRepo, allocationRepo, balanceCache, log)
	categoryService := ledgerapp.NewCategoryService(categoryRepo, log)
	transactionService := ledgerapp.NewTransactionService(transactionRepo, branchRepo, categoryRepo, txManager, balanceCache, log)
	allocationService := ledgerapp.NewAllocationService(allocationRepo, transactionRepo, branchRepo, txManager, systemCats, balanceCache, log)
	realtorService := realtyapp.NewRealtorService(realtorRepo, log)
	saleService := realtyapp.NewSaleService(saleRepo, realtorRepo, log)
	paymentService := realtyapp.NewPaymentService(paymentRepo, saleRepo, realtorRepo, commissionRepo, txManager, log)
	commissionService := realtyapp.NewCommissionService(commissionRepo, realtorRepo, branchRepo, transactionRepo, txManager, systemCats, balanceCache, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		LockDuration:     cfg.Auth.LockDuration,
	}, log)
	userService := identityapp.NewUserService(userRepo, log)

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine := router.New(router.Config{
		Handlers: router.Handlers{
			System:      handler.NewSystemHandler(db),
			Auth:        handler.NewAuthHandler(authService),
			User:        handler.NewUserHandler(userService),
			Branch:      handler.NewBranchHandler(branchService),
			Category:    handler.NewCategoryHandler(categoryService),
			Transaction: handler.NewTransactionHandler(transactionService),
			Allocation:  handler.NewAllocationHandler(allocationService),
			Realtor:     handler.NewRealtorHandler(realtorService),
			Sale:        handler.NewSaleHandler(saleService, paymentService),
			Commission:  handler.NewCommissionHandler(commissionService),
		},
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		CORS:           corsConfig,
		MaxBodySize:    cfg.HTTP.MaxBodyBytes,
		Logger:         log,
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

// loadSystemCategories resolves the pre-seeded system category IDs the
// allocation and commission services write their ledger entries under
func loadSystemCategories(ctx context.Context, repo ledger.CategoryRepository) (ledger.SystemCategories, error) {
	allocExp, err := repo.FindSystemCategory(ctx, ledger.SystemCategoryFundAllocation, ledger.CategoryKindExpenditure)
	if err != nil {
		return ledger.SystemCategories{}, err
	}
	allocInc, err := repo.FindSystemCategory(ctx, ledger.SystemCategoryFundAllocation, ledger.CategoryKindIncome)
	if err != nil {
		return ledger.SystemCategories{}, err
	}
	commExp, err := repo.FindSystemCategory(ctx, ledger.SystemCategoryRealtorCommission, ledger.CategoryKindExpenditure)
	if err != nil {
		return ledger.SystemCategories{}, err
	}

	cats := ledger.SystemCategories{
		AllocationExpenditureID: allocExp.ID,
		AllocationIncomeID:      allocInc.ID,
		CommissionExpenditureID: commExp.ID,
	}
	return cats, cats.Validate()
}
