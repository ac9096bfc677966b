package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/eyxpoliba/emotion-core/internal/config"
	"github.com/eyxpoliba/emotion-core/internal/database"
	"github.com/eyxpoliba/emotion-core/internal/middleware"
	"github.com/eyxpoliba/emotion-core/internal/pkg/blob"
	pkgcron "github.com/eyxpoliba/emotion-core/internal/pkg/cron"
	jwtpkg "github.com/eyxpoliba/emotion-core/internal/pkg/jwt"
	pkgredis "github.com/eyxpoliba/emotion-core/internal/pkg/redis"
	"github.com/eyxpoliba/emotion-core/internal/pkg/revocation"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	logger *zap.Logger
	cancel context.CancelFunc
	sched  *pkgcron.Scheduler
}

// New initializes the application: config → token codec → DB → Redis →
// blob store → routes → scheduler.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	// Secret and issuer are process-wide constants from here on.
	jwtpkg.SetSecret(cfg.Security.JWTSecret)
	jwtpkg.SetIssuer(cfg.Security.Issuer)
	jwtpkg.SetTTLs(cfg.Security.AccessTTL(), cfg.Security.RefreshTTL())

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rdb, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	blobStore, err := blob.New(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("blob storage: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(buildCORSConfig(cfg)))

	revocationStore := revocation.NewGormStore(db)
	router.Use(middleware.Auth(revocationStore, cfg.Security.Transport, logger))
	router.Use(middleware.RateLimit(rdb))
	router.Use(middleware.Idempotence(rdb))

	ctx, cancel := context.WithCancel(context.Background())
	sched := pkgcron.New()
	registerCronJobs(sched, revocationStore, logger)
	go sched.Start(ctx)

	app := &App{cfg: cfg, router: router, db: db, logger: logger, cancel: cancel, sched: sched}
	app.registerRoutes(revocationStore, blobStore)

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown cleans up background goroutines.
func (a *App) Shutdown() { a.cancel() }
