// Package dependency provides dependency injection for the application.
package dependency

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/smart-expense/backend/config"
	"github.com/smart-expense/backend/internal/application/usecase/assetcache"
	"github.com/smart-expense/backend/internal/application/usecase/auth"
	"github.com/smart-expense/backend/internal/application/usecase/expense"
	"github.com/smart-expense/backend/internal/application/usecase/summary"
	"github.com/smart-expense/backend/internal/infra/server/router"
	"github.com/smart-expense/backend/internal/integration/adapters"
	"github.com/smart-expense/backend/internal/integration/assetstore"
	"github.com/smart-expense/backend/internal/integration/entrypoint/controller"
	"github.com/smart-expense/backend/internal/integration/entrypoint/middleware"
	"github.com/smart-expense/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config        *config.Config
	DB            *gorm.DB
	Router        *router.Router
	AssetCache    *assetcache.Cache
	SessionBroker *auth.SessionBroker
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Injector {
	// Create repositories
	userRepo := persistence.NewUserRepository(db)
	tokenRepo := persistence.NewTokenRepository(db)
	expenseRepo := persistence.NewExpenseRepository(db)

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry, tokenRepo)

	sessionBroker := auth.NewSessionBroker()

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService, sessionBroker)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService, sessionBroker)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService, sessionBroker)

	// Create expense use cases
	createExpenseUseCase := expense.NewCreateExpenseUseCase(expenseRepo)
	listExpensesUseCase := expense.NewListExpensesUseCase(expenseRepo)
	updateExpenseUseCase := expense.NewUpdateExpenseUseCase(expenseRepo)
	deleteExpenseUseCase := expense.NewDeleteExpenseUseCase(expenseRepo)

	// Create summary use case
	getSummaryUseCase := summary.NewGetSummaryUseCase(expenseRepo)

	// Create asset cache
	assetStore := assetstore.NewRedisStore(redisClient)
	assetFetcher := assetstore.NewHTTPFetcher(cfg.Assets.OriginURL, cfg.Assets.FetchTimeout)
	cache := assetcache.NewCache(cfg.Assets.Generation, cfg.Assets.Manifest, assetStore, assetFetcher)

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	})

	authController := controller.NewAuthController(
		registerUseCase,
		loginUseCase,
		refreshTokenUseCase,
		logoutUseCase,
	)

	expenseController := controller.NewExpenseController(
		createExpenseUseCase,
		listExpensesUseCase,
		updateExpenseUseCase,
		deleteExpenseUseCase,
	)

	summaryController := controller.NewSummaryController(getSummaryUseCase)
	assetsController := controller.NewAssetsController(cache)

	// Create middleware
	// Use higher rate limits for test environments to prevent flaky tests
	var loginRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "test" {
		loginRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		loginRateLimiter = middleware.NewRateLimiter()
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(healthController, authController, expenseController, summaryController, assetsController, loginRateLimiter, authMiddleware)

	return &Injector{
		Config:        cfg,
		DB:            db,
		Router:        r,
		AssetCache:    cache,
		SessionBroker: sessionBroker,
	}
}
