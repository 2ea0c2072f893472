// internal/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	router "micro-ledger/internal/api"
	"micro-ledger/internal/api/handler"
	"micro-ledger/internal/config"
	"micro-ledger/internal/events"
	"micro-ledger/internal/lock"
	"micro-ledger/internal/repository"
	"micro-ledger/internal/repository/sqlstore"
	"micro-ledger/internal/service"
	"micro-ledger/internal/util"
	"micro-ledger/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *zap.Logger
	DB     *sqlx.DB

	Redis     *redis.Client
	Locker    lock.Locker
	Publisher events.Publisher

	// Repositories
	UserRepository        repository.UserRepository
	AccountRepository     repository.AccountRepository
	TransactionRepository repository.TransactionRepository

	// Services
	LedgerService service.LedgerService
	QueryService  service.QueryService
	UserService   service.UserService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{Logger: zap.NewNop()}
}

// Initialize loads configuration from the environment and initializes all components.
func (app *Application) Initialize(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	return app.InitializeWithConfig(ctx, cfg)
}

// InitializeWithConfig initializes all components from cfg.
func (app *Application) InitializeWithConfig(ctx context.Context, cfg *config.AppConfig) error {
	app.Config = cfg

	// 1. Initialize Logger
	logger, err := util.InitLogger(cfg.LogLevel, cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger = logger
	app.Logger.Info("Application configuration loaded successfully.",
		zap.String("env", cfg.Env),
		zap.String("db_driver", string(cfg.DB.Driver)),
		zap.String("lock_backend", cfg.Lock.Backend),
		zap.String("currency", cfg.Ledger.Currency),
	)

	// 2. Connect to Database
	database, err := db.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, app.DB, cfg.DB); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// 3. Locking and events
	if err := app.initLocker(ctx); err != nil {
		return err
	}
	app.initPublisher()

	// 4. Initialize Repositories
	dialect := db.DialectOf(app.DB)
	app.UserRepository = sqlstore.NewUserRepository()
	app.AccountRepository = sqlstore.NewAccountRepository(dialect)
	app.TransactionRepository = sqlstore.NewTransactionRepository()
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	uow := db.NewTransactionManager(app.DB, nil)
	app.LedgerService = service.NewLedgerService(
		app.DB,
		uow,
		app.AccountRepository,
		app.TransactionRepository,
		app.Locker,
		app.Publisher,
		cfg.Ledger,
		app.Logger.Named("ledger"),
	)
	app.QueryService = service.NewQueryService(app.DB, app.UserRepository, app.AccountRepository, app.TransactionRepository, cfg.Ledger)
	app.UserService = service.NewUserService(app.DB, uow, app.UserRepository, app.AccountRepository, cfg.Ledger, app.Logger.Named("users"))
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	httpLogger := app.Logger.Named("http")
	app.HTTPHandler = router.NewRouter(router.Handlers{
		Ledger: handler.NewLedgerHandler(app.LedgerService, cfg.Ledger.Scale, httpLogger),
		Query:  handler.NewQueryHandler(app.QueryService, cfg.Ledger.Scale, httpLogger),
		User:   handler.NewUserHandler(app.UserService, httpLogger),
	}, cfg.CORSAllowedOrigins, httpLogger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

func (app *Application) initLocker(ctx context.Context) error {
	if app.Config.Lock.Backend != config.LockBackendRedis {
		app.Locker = lock.NewMemoryLocker()
		app.Logger.Info("Using in-process account locks.")
		return nil
	}

	app.Redis = redis.NewClient(&redis.Options{
		Addr:     app.Config.Lock.RedisAddr,
		Password: app.Config.Lock.RedisPassword,
		DB:       app.Config.Lock.RedisDB,
	})
	if err := app.Redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", app.Config.Lock.RedisAddr, err)
	}
	app.Locker = lock.NewRedisLocker(app.Redis, app.Config.Lock.Redis, app.Logger.Named("lock"))
	app.Logger.Info("Using redis account locks.", zap.String("addr", app.Config.Lock.RedisAddr))
	return nil
}

func (app *Application) initPublisher() {
	if len(app.Config.Events.KafkaBrokers) == 0 {
		app.Publisher = events.NopPublisher{}
		app.Logger.Info("Transaction events disabled: no KAFKA_BROKERS configured.")
		return
	}
	app.Publisher = events.NewKafkaPublisher(app.Config.Events.KafkaBrokers, app.Config.Events.KafkaTopic)
	app.Logger.Info("Publishing transaction events.",
		zap.Strings("brokers", app.Config.Events.KafkaBrokers),
		zap.String("topic", app.Config.Events.KafkaTopic),
	)
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")

	var errs []error
	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			app.Logger.Error("Failed to close event publisher", zap.Error(err))
			errs = append(errs, fmt.Errorf("failed to close event publisher: %w", err))
		}
	}
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Failed to close redis client", zap.Error(err))
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", zap.Error(err))
			errs = append(errs, fmt.Errorf("failed to close database connection: %w", err))
		} else {
			app.Logger.Info("Database connection closed.")
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	app.Logger.Info("Application shut down gracefully.")
	_ = app.Logger.Sync()
	return nil
}
