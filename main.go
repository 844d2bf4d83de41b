package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/varshinivarma16/booksbackend/handlers"
	"github.com/varshinivarma16/booksbackend/internal/config"
	"github.com/varshinivarma16/booksbackend/internal/contact"
	"github.com/varshinivarma16/booksbackend/internal/database"
	"github.com/varshinivarma16/booksbackend/internal/oidc"
	"github.com/varshinivarma16/booksbackend/internal/resource/repository"
	"github.com/varshinivarma16/booksbackend/internal/sessions"
	"github.com/varshinivarma16/booksbackend/internal/stocks"
	"github.com/varshinivarma16/booksbackend/internal/storage"
	"github.com/varshinivarma16/booksbackend/internal/tokens"
	"github.com/varshinivarma16/booksbackend/internal/users"
	"github.com/varshinivarma16/booksbackend/pkg/logger"
	"github.com/varshinivarma16/booksbackend/pkg/metrics"
	"github.com/varshinivarma16/booksbackend/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: keycloak=%v mongo=%v redis=%v minio=%v mail=%v",
		cfg.Keycloak.URL != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "", cfg.Mail.Host != "")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins, cfg.CORS.AllowCredentials))

	ctx := context.Background()

	// Redis first so the rate limiter and the token blacklist can use it
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		c := redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := c.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
		} else {
			rdb = c
			sessions.SetBlacklistClient(rdb)
			logger.Infof("connected to Redis %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// documents live in Mongo when reachable, otherwise in memory
	var backend repository.Backend = repository.NewMemoryBackend()
	var mongoClient *mongo.Client
	userRepo := users.UserRepository(users.NewMemoryUserRepository())
	var sessionRepo sessions.Repository = sessions.NewMemoryRepository()
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second)
		if err != nil {
			logger.Warnf("%v; falling back to in-memory stores", err)
		} else {
			mongoClient = client
			db := client.Database(cfg.MongoDB.Database)
			backend = repository.NewMongoBackend(db)
			if repo, err := users.NewMongoUserRepository(ctx, db.Collection("users")); err != nil {
				logger.Warnf("users repository: %v", err)
			} else {
				userRepo = repo
			}
			sessionRepo = sessions.NewMongoRepository(ctx, db.Collection("sessions"))
		}
	}
	if rdb != nil {
		sessionRepo = sessions.NewRedisRepository(rdb, "session:")
		logger.Infof("using Redis for session storage")
	}
	userSvc := users.NewService(userRepo)
	sessionsSvc := sessions.NewService(sessionRepo)

	if cfg.Seed {
		if err := stocks.Seed(ctx, backend); err != nil {
			logger.Warnf("seed stocks: %v", err)
		}
		if err := userSvc.Seed(ctx); err != nil {
			logger.Warnf("seed users: %v", err)
		}
	}

	// locally issued tokens, plus the Keycloak realm when configured
	issuer := tokens.NewIssuer(cfg.JWT)
	verifiers := middleware.ChainVerifier{issuer}
	oidcReady := true
	if cfg.Keycloak.URL != "" {
		ver, err := oidc.NewVerifier(ctx, cfg.Keycloak)
		if err != nil {
			oidcReady = false
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			verifiers = append(verifiers, ver)
		}
	}

	var store storage.ObjectStore
	if cfg.MinIO.Endpoint != "" {
		s, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("object storage unavailable: %v", err)
		} else {
			store = s
		}
	}

	var mailer contact.Mailer
	if m := contact.NewSMTPMailer(cfg.Mail); m != nil {
		mailer = m
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		deps := gin.H{
			"mongo":   cfg.MongoDB.URI == "" || mongoClient != nil,
			"redis":   cfg.Redis.Host == "" || rdb != nil,
			"storage": cfg.MinIO.Endpoint == "" || store != nil,
			"oidc":    oidcReady,
			"backend": backend.Name(),
		}
		ready := true
		for k, v := range deps {
			if ok, isBool := v.(bool); isBool && !ok {
				logger.Debugf("ready: %s unavailable", k)
				ready = false
			}
		}
		body := gin.H{"deps": deps, "uptime": time.Since(startTime).String()}
		if !ready {
			body["status"] = "not_ready"
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["status"] = "ready"
		c.JSON(http.StatusOK, body)
	})

	auth := handlers.NewAuthHandler(issuer, userSvc, sessionsSvc, verifiers)
	auth.SecureCookie = cfg.Server.Environment == "production"
	auth.Register(r.Group("/api/login"))

	handlers.RegisterVerticals(r, handlers.Verticals{
		Backend: backend,
		Store:   store,
		Mailer:  mailer,
		Mailbox: cfg.Mail.User,
	})
	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("listening on %s (store=%s)", srv.Addr, backend.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	if mongoClient != nil {
		_ = mongoClient.Disconnect(shutdownCtx)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
