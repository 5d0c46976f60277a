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
	"github.com/hairbystephanie/site/backend/go-services/handlers"
	"github.com/hairbystephanie/site/backend/go-services/internal/config"
	"github.com/hairbystephanie/site/backend/go-services/internal/content"
	contenthandler "github.com/hairbystephanie/site/backend/go-services/internal/content/handler"
	"github.com/hairbystephanie/site/backend/go-services/internal/content/repository"
	contentservice "github.com/hairbystephanie/site/backend/go-services/internal/content/service"
	"github.com/hairbystephanie/site/backend/go-services/internal/database"
	"github.com/hairbystephanie/site/backend/go-services/internal/oidc"
	"github.com/hairbystephanie/site/backend/go-services/internal/sessions"
	"github.com/hairbystephanie/site/backend/go-services/internal/storage"
	"github.com/hairbystephanie/site/backend/go-services/internal/tokens"
	"github.com/hairbystephanie/site/backend/go-services/internal/users"
	"github.com/hairbystephanie/site/backend/go-services/pkg/logger"
	"github.com/hairbystephanie/site/backend/go-services/pkg/metrics"
	"github.com/hairbystephanie/site/backend/go-services/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: log_level=%s storage=%s redis=%v oidc=%v rate_limit=%v",
		logger.LevelString(), cfg.Storage.Backend, cfg.Redis.Host != "", cfg.OIDC.Issuer != "", cfg.RateLimit.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, storage.LoadMinIOConfig())
	if err != nil {
		logger.Fatalf("startup failed: %v", err)
	}
	defer a.close()

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	a.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      a.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("Starting content service on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

// app is the wired HTTP service.
type app struct {
	router  *gin.Engine
	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// stores bundles the repositories picked by STORAGE_BACKEND.
type stores struct {
	content repository.Repository
	users   users.UserRepository
	check   handlers.Check
}

func newApp(ctx context.Context, cfg *config.Config, minioCfg *storage.MinIOConfig) (*app, error) {
	a := &app{}
	health := handlers.NewHealthHandler()

	r := gin.New()
	r.Use(middleware.CORS(), middleware.RequestID(), middleware.AccessLog(), gin.Recovery())

	// Redis is optional: token revocation and the shared rate limiter use it.
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v; token revocation disabled", cfg.Redis.Host, cfg.Redis.Port, err)
			_ = rdb.Close()
			rdb = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
			sessions.SetBlacklistClient(rdb)
			a.closers = append(a.closers, func() {
				sessions.SetBlacklistClient(nil)
				_ = rdb.Close()
			})
			health.AddCheck("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		}
	}

	st := openStores(ctx, cfg, a)
	if st.check != nil {
		health.AddCheck("storage", st.check)
	}

	var opts []contentservice.Option
	if minioCfg.Enabled() {
		ms, err := storage.NewMinIOStorage(minioCfg)
		if err != nil {
			logger.Warnf("content snapshots disabled: %v", err)
		} else {
			logger.Infof("archiving content snapshots to bucket %s", minioCfg.Bucket)
			opts = append(opts, contentservice.WithArchiver(ms))
		}
	}
	contentSvc := contentservice.New(st.content, opts...)
	if _, err := contentSvc.Seed(ctx, content.Default()); err != nil {
		a.close()
		return nil, err
	}

	userSvc := users.NewService(st.users)
	if _, err := userSvc.SeedAdmins(ctx, cfg.Admins); err != nil {
		a.close()
		return nil, err
	}

	var oidcVerifier middleware.Verifier
	if cfg.OIDC.Issuer != "" && cfg.OIDC.ClientID != "" {
		v, err := oidc.NewVerifier(ctx, cfg.OIDC.Issuer, cfg.OIDC.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			oidcVerifier = v
		}
	}
	verifier := middleware.FirstOf(
		tokens.NewVerifier(cfg.JWT.Secret, st.users),
		tokens.RequireActiveUser(oidcVerifier, st.users),
	)
	auth := middleware.AuthMiddleware(verifier)

	var limiters []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
		if cfg.RateLimit.UseRedis && rdb != nil {
			limiters = append(limiters, middleware.RedisRateLimitMiddleware(rdb, "login", cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			limiters = append(limiters, middleware.RateLimitMiddleware("login", cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	health.Register(r)
	handlers.RegisterSwagger(r)
	handlers.NewAuthHandler(cfg, userSvc).Register(r, auth, limiters...)
	contenthandler.RegisterContentRoutes(r, contentSvc, auth)

	a.router = r
	return a, nil
}

// openStores connects the configured backend, falling back to memory when
// the database is unreachable.
func openStores(ctx context.Context, cfg *config.Config, a *app) stores {
	switch cfg.Storage.Backend {
	case config.BackendMongo:
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, database.DefaultRetryPolicy)
		if err != nil {
			logger.Warnf("could not connect to MongoDB: %v; using in-memory storage", err)
			break
		}
		a.closers = append(a.closers, func() { _ = client.Disconnect(context.Background()) })
		db := client.Database(cfg.MongoDB.Database)
		userRepo, err := users.NewMongoUserRepository(ctx, db.Collection("users"))
		if err != nil {
			logger.Warnf("mongo users index: %v; using in-memory storage", err)
			break
		}
		logger.Infof("using MongoDB storage (%s)", cfg.MongoDB.Database)
		return stores{
			content: repository.NewMongoRepo(db.Collection("content")),
			users:   userRepo,
			check:   func(ctx context.Context) error { return client.Ping(ctx, nil) },
		}
	case config.BackendPostgres:
		db, err := database.ConnectPostgresWithRetry(ctx, cfg.Postgres.DSN(), database.DefaultRetryPolicy)
		if err != nil {
			logger.Warnf("could not connect to Postgres: %v; using in-memory storage", err)
			break
		}
		sqlDB, _ := db.DB()
		a.closers = append(a.closers, func() { _ = sqlDB.Close() })
		if err := database.Migrate(db); err != nil {
			logger.Warnf("postgres migrate: %v; using in-memory storage", err)
			break
		}
		logger.Infof("using Postgres storage (%s@%s)", cfg.Postgres.Database, cfg.Postgres.Host)
		return stores{
			content: repository.NewGormRepo(db),
			users:   users.NewGormUserRepository(db),
			check:   func(ctx context.Context) error { return sqlDB.PingContext(ctx) },
		}
	}
	logger.Infof("using in-memory storage")
	return stores{content: repository.NewMemoryRepo(), users: users.NewMemoryRepo()}
}
