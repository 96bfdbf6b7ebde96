package main

import (
	"context"
	"fmt"
	"time"

	"sweetspro/internal/config"
	"sweetspro/internal/handlers"
	"sweetspro/internal/loyalty"
	"sweetspro/internal/metrics"
	"sweetspro/internal/middleware"
	"sweetspro/internal/models"
	"sweetspro/internal/pricing"
	"sweetspro/internal/repositories"
	"sweetspro/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// stores groups the repositories behind the services.
type stores struct {
	Products repositories.ProductRepository
	Users    repositories.UserRepository
	Orders   repositories.OrderRepository
	Coupons  repositories.CouponRepository
	Reviews  repositories.ReviewRepository
	Carts    repositories.CartRepository
	Checkout repositories.CheckoutTransactor
}

// gormStores backs every store but the cart with db.
func gormStores(db *gorm.DB, carts repositories.CartRepository) stores {
	return stores{
		Products: repositories.NewGORMProductRepository(db),
		Users:    repositories.NewGORMUserRepository(db),
		Orders:   repositories.NewGORMOrderRepository(db),
		Coupons:  repositories.NewGORMCouponRepository(db),
		Reviews:  repositories.NewGORMReviewRepository(db),
		Carts:    carts,
		Checkout: repositories.NewGORMCheckoutTransactor(db),
	}
}

// memoryStores keeps everything in process memory.
func memoryStores() stores {
	users := repositories.NewMockUserRepository()
	orders := repositories.NewMockOrderRepository()
	coupons := repositories.NewMockCouponRepository()
	return stores{
		Products: repositories.NewMockProductRepository(),
		Users:    users,
		Orders:   orders,
		Coupons:  coupons,
		Reviews:  repositories.NewMockReviewRepository(),
		Carts:    repositories.NewMockCartRepository(),
		Checkout: repositories.NewMemoryCheckoutTransactor(orders, coupons, users),
	}
}

// deps is the wired service graph served over HTTP.
type deps struct {
	Logger   *zap.Logger
	Gatherer prometheus.Gatherer
	Broker   string

	Products *services.ProductService
	Auth     *services.AuthService
	Carts    *services.CartService
	Orders   *services.OrderService
	Accounts *services.AccountService
	Coupons  *services.CouponService
	Reviews  *services.ReviewService
}

// buildDeps wires the services over st. publisher may be nil.
func buildDeps(cfg *config.Config, st stores, publisher services.OrderEventPublisher, reg *prometheus.Registry, logger *zap.Logger) *deps {
	m := metrics.New(reg)
	calculator := pricing.NewCalculator(cfg.FreeShippingThreshold, cfg.DeliveryFee)
	engine := loyalty.NewEngine(cfg.PointsUnit)
	locker := services.NewAccountLocker()

	coupons := services.NewCouponService(st.Coupons, st.Carts, calculator, logger.Named("coupons"))
	broker := "disabled"
	if publisher != nil {
		broker = "connected"
	}

	return &deps{
		Logger:   logger,
		Gatherer: reg,
		Broker:   broker,
		Products: services.NewProductService(st.Products),
		Auth:     services.NewAuthService(st.Users, cfg.JWTSecret, logger.Named("auth")),
		Carts:    services.NewCartService(st.Carts, st.Products, calculator, locker, logger.Named("cart")),
		Orders: services.NewOrderService(services.OrderServiceDeps{
			Orders:     st.Orders,
			Users:      st.Users,
			Carts:      st.Carts,
			Checkout:   st.Checkout,
			Coupons:    coupons,
			Calculator: calculator,
			Engine:     engine,
			Locker:     locker,
			Publisher:  publisher,
			Metrics:    m,
			Logger:     logger.Named("orders"),
		}),
		Accounts: services.NewAccountService(st.Users, st.Products, engine, locker, m, logger.Named("account")),
		Coupons:  coupons,
		Reviews:  services.NewReviewService(st.Reviews, st.Products, st.Users),
	}
}

// newApp builds the Fiber application and registers every route.
func newApp(d *deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "sweetspro",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"broker": d.Broker,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))

	apiV1 := app.Group("/api/v1")
	auth := middleware.AuthRequired(d.Auth, d.Logger.Named("http"))

	handlers.NewAuthHandler(d.Auth, d.Logger).RegisterRoutes(apiV1)
	handlers.NewProductHandler(d.Products, d.Reviews, d.Logger).RegisterRoutes(apiV1, auth)
	handlers.NewCartHandler(d.Carts, d.Logger).RegisterRoutes(apiV1, auth)
	handlers.NewOrderHandler(d.Orders, d.Logger).RegisterRoutes(apiV1, auth)
	handlers.NewAccountHandler(d.Accounts, d.Logger).RegisterRoutes(apiV1, auth)
	handlers.NewCouponHandler(d.Coupons, d.Logger).RegisterRoutes(apiV1, auth)

	return app
}

// openDatabase opens the configured GORM dialect.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseDSN)
	default:
		dialector = sqlite.Open(cfg.DatabaseDSN)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.DBDriver, err)
	}
	return db, nil
}

// migrate creates or updates the schema for every persisted model.
func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Product{},
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.Coupon{},
		&models.Review{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

// newCartRepository returns a Redis-backed cart store when REDIS_ADDR is
// set and an in-memory one otherwise. The returned func releases it.
func newCartRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.CartRepository, func() error, error) {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, carts are kept in memory")
		return repositories.NewMockCartRepository(), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
	}
	logger.Info("cart store connected", zap.String("redis_addr", cfg.RedisAddr))
	return repositories.NewRedisCartRepository(client), client.Close, nil
}
