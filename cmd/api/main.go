package main

import (
	"context"
	"expvar"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"studyspots/internal/auth"
	"studyspots/internal/db"
	"studyspots/internal/domain/storage"
	"studyspots/internal/objectstore"
	"studyspots/internal/ratelimiter"
	"studyspots/internal/service"
)

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)

	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), zapcore.InfoLevel)

	return zap.New(core).Sugar(), nil
}

var version = "0.3.0"

//	@title			Study Spots API
//	@description	Discover, review and bookmark places to study.

//	@BasePath					/v1
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@securityDefinitions.basic	BasicAuth

func main() {
	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage
	var store *storage.Container
	switch cfg.StoreDriver {
	case driverMemory:
		store = storage.NewMemoryContainer()
		logger.Warn("using in-memory store; data is lost on restart")
	default:
		pool, err := db.New(cfg.DB.Addr, cfg.DB.MaxOpenConns, cfg.DB.MaxIdleTime)
		if err != nil {
			logger.Fatal(err)
		}
		defer pool.Close()
		logger.Info("database connection pool established")

		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal(err)
		}

		store = storage.NewContainer(pool)

		expvar.Publish("database", expvar.Func(func() any {
			stat := pool.Stat()
			return map[string]int64{
				"total_conns":    int64(stat.TotalConns()),
				"idle_conns":     int64(stat.IdleConns()),
				"acquired_conns": int64(stat.AcquiredConns()),
				"acquire_count":  stat.AcquireCount(),
			}
		}))
	}

	var opts []service.Option
	if cfg.CloudinaryURL != "" {
		cld, err := objectstore.NewCloudinary(cfg.CloudinaryURL)
		if err != nil {
			logger.Fatal(err)
		}
		opts = append(opts, service.WithObjectStore(objectstore.NewBreaker(cld, objectstore.DefaultBreakerConfig, logger)))
	} else if cfg.StoreDriver == driverMemory {
		opts = append(opts, service.WithObjectStore(objectstore.NewMemory("memory://"+cfg.Env)))
	} else {
		logger.Warn("CLOUDINARY_URL not set; photo uploads are disabled")
	}

	// Rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.RateLimiter.RequestsPerTimeFrame,
		cfg.RateLimiter.TimeFrame,
	)
	go rateLimiter.Run(ctx)

	// Authenticator
	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.Auth.Token.Secret,
		cfg.Auth.Token.RefreshSecret,
		cfg.Auth.Token.Iss,
		cfg.Auth.Token.Iss,
	)

	app := &application{
		config:        cfg,
		logger:        logger,
		store:         store,
		service:       service.New(store, logger, opts...),
		authenticator: jwtAuthenticator,
		rateLimiter:   rateLimiter,
	}

	if cfg.RatingRepairInterval > 0 {
		app.repairRatingsEvery(ctx, cfg.RatingRepairInterval)
	}

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
