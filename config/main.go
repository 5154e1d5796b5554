package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akeren/landing-api/config/router"
	"github.com/akeren/landing-api/internal/log"
	"github.com/akeren/landing-api/internal/models"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type ApplicationConfig struct {
	DB              *gorm.DB
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Config          *AppConfig
	TracingShutdown func(context.Context) error
}

// AppConfig holds the tunables read from the environment at startup.
type AppConfig struct {
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100" validate:"gt=0"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m" validate:"gt=0"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s" validate:"gt=0"`

	// ContactValidationMode selects how /api/contact validates submissions:
	// "strict" requires all six fields, "permissive" requires at least one.
	ContactValidationMode string `env:"CONTACT_VALIDATION_MODE" envDefault:"strict" validate:"oneof=strict permissive"`
	ContactCORSEnabled    bool   `env:"CONTACT_CORS_ENABLED" envDefault:"true"`
}

func NewAppConfig() (*AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse app config: %w", err)
	}

	cfg.ContactValidationMode = strings.ToLower(strings.TrimSpace(cfg.ContactValidationMode))

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid app config: %w", err)
	}

	return &cfg, nil
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.DB != nil {
		CloseDatabase(ac.DB, ac.Logger)
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.Cache != nil {
		_ = CloseCache(ac.Cache, ac.Logger)
	}

	ac.Logger.Info("Application cleanup completed")
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	appConfig, err := NewAppConfig()
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		appEnv := GetAppEnv()
		if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := NewDatabase(ctx, logger, NewDBConfigFromEnv())
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			CloseDatabase(db, logger)
			return nil, err
		}
	}

	cache := NewCacheConfig().NewCacheOrNil(logger)

	routerService := router.CreateRouterService(logger, cache, &router.RouterConfig{
		RateLimitRequests: appConfig.RateLimitRequests,
		RateLimitWindow:   appConfig.RateLimitWindow,
		RequestTimeout:    appConfig.RequestTimeout,
	})

	logger.Info("Application configuration loaded successfully",
		"contact_validation_mode", appConfig.ContactValidationMode,
		"contact_cors_enabled", appConfig.ContactCORSEnabled,
	)

	return &ApplicationConfig{
		DB:              db,
		RouterService:   routerService,
		Logger:          logger,
		Cache:           cache,
		Config:          appConfig,
		TracingShutdown: tracingShutdown,
	}, nil
}
