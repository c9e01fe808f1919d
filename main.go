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

	"github.com/docdesk/docdesk/backend/go-services/handlers"
	"github.com/docdesk/docdesk/backend/go-services/internal/config"
	"github.com/docdesk/docdesk/backend/go-services/internal/dashboard"
	"github.com/docdesk/docdesk/backend/go-services/internal/database"
	docservice "github.com/docdesk/docdesk/backend/go-services/internal/document/service"
	"github.com/docdesk/docdesk/backend/go-services/internal/ingestion"
	"github.com/docdesk/docdesk/backend/go-services/internal/latency"
	"github.com/docdesk/docdesk/backend/go-services/internal/qa"
	"github.com/docdesk/docdesk/backend/go-services/internal/sessions"
	"github.com/docdesk/docdesk/backend/go-services/internal/store"
	"github.com/docdesk/docdesk/backend/go-services/internal/users"
	"github.com/docdesk/docdesk/backend/go-services/pkg/logger"
	"github.com/docdesk/docdesk/backend/go-services/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: session_store=%s mongo=%v redis=%v natural_completion=%v",
		cfg.Session.Store, cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Ingestion.NaturalCompletion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	// core services over one seeded store
	clock := clockwork.NewRealClock()
	st := store.NewSeeded()
	sim := latency.New(clock, cfg.Latency, nil)
	engine := ingestion.NewEngine(st, sim, clock, ingestion.OptionsFromConfig(cfg.Ingestion))
	if n := engine.Resume(); n > 0 {
		logger.Infof("resumed %d in-progress ingestions", n)
	}
	docs := docservice.NewService(st, engine, sim, clock)

	// Redis is optional: session storage, token blacklist and rate limiting use it
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		c := redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := c.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			_ = c.Close()
		} else {
			redisClient = c
			defer func() { _ = redisClient.Close() }()
			logger.Infof("connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	var mongoClient *mongo.Client
	if cfg.Session.Store == "mongo" {
		if cfg.MongoDB.URI == "" {
			logger.Warn("SESSION_STORE=mongo but MONGODB_URI is empty")
		} else if mongoClient, err = database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5); err != nil {
			logger.Warnf("%v", err)
		} else {
			defer func() { _ = mongoClient.Disconnect(context.Background()) }()
		}
	}

	provider := sessions.NewProvider(sessions.NewSeededRegistry(), sessionRepository(cfg, redisClient, mongoClient), cfg.Session.Key)
	if view, err := provider.Restore(ctx); err != nil {
		logger.Warnf("failed to restore session: %v", err)
	} else if view.IsAuthenticated {
		logger.Infof("restored session for %s", view.User.Email)
	}

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: the store is always there; external stores only count when selected
	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{"store": true}
		ready := true
		switch cfg.Session.Store {
		case "redis":
			deps["redis"] = redisClient != nil
			ready = ready && deps["redis"]
		case "mongo":
			deps["mongo"] = mongoClient != nil
			ready = ready && deps["mongo"]
		}
		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterRoutes(r, handlers.Deps{
		Config:    cfg,
		Documents: docs,
		Engine:    engine,
		Users:     users.NewService(st.Users, sim, clock),
		QA:        qa.NewService(st.Documents, sim),
		Dashboard: dashboard.NewService(docs, engine),
		Sessions:  provider,
		Blacklist: sessions.NewBlacklist(redisClient),
		Redis:     redisClient,
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting docdesk API on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	engine.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

// sessionRepository picks the persisted-session backend, falling back to the
// local file when the selected store is unavailable.
func sessionRepository(cfg *config.Config, rc *redis.Client, mc *mongo.Client) sessions.Repository {
	switch cfg.Session.Store {
	case "redis":
		if rc != nil {
			logger.Info("using Redis for session storage")
			return sessions.NewRedisRepository(rc, "session:", 0)
		}
		logger.Warn("SESSION_STORE=redis but Redis is unavailable; using the session file")
	case "mongo":
		if mc != nil {
			logger.Info("using MongoDB for session storage")
			return sessions.NewMongoRepository(mc.Database(cfg.MongoDB.Database).Collection("sessions"))
		}
		logger.Warn("SESSION_STORE=mongo but MongoDB is unavailable; using the session file")
	case "file", "":
	default:
		logger.Warnf("unknown SESSION_STORE %q; using the session file", cfg.Session.Store)
	}
	logger.Infof("using session file %s", cfg.Session.File)
	return sessions.NewFileRepository(cfg.Session.File)
}
