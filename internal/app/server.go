// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"

	"coopwise-client/internal/api"
	"coopwise-client/internal/auth"
	"coopwise-client/internal/config"
	notifyHandler "coopwise-client/internal/handlers/notification"
	"coopwise-client/internal/middleware"
	notifyService "coopwise-client/internal/service/notification"
	"coopwise-client/internal/socket"
	"coopwise-client/internal/storage"
	"coopwise-client/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	httpSrv   *http.Server
	connector *socket.Connector
	closer    func() error
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	s.logger = logger

	if s.cfg.UserID == "" {
		return fmt.Errorf("COOPWISE_USER_ID is required")
	}

	// ----- Durable storage -----
	var snap store.Snapshotter
	switch s.cfg.StorageDriver {
	case "redis":
		redisClient, err := storage.NewRedisClient(storage.RedisConfig{
			Addr:     s.cfg.RedisAddr,
			Password: s.cfg.RedisPass,
			DB:       s.cfg.RedisDB,
			PoolSize: 10,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		snap = storage.NewRedisStore(redisClient, s.cfg.UserID)
		s.closer = redisClient.Close
	default:
		sqliteStore, err := storage.NewSQLiteStore(s.cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		snap = sqliteStore
		s.closer = sqliteStore.Close
	}

	// ----- Store -----
	notifStore := store.New(snap, logger)
	if err := notifStore.Load(ctx); err != nil {
		// A broken snapshot is not fatal, the next page-1 fetch rebuilds it.
		logger.Warn("failed to load notification snapshot", zap.Error(err))
	}

	// ----- Auth token provider -----
	var tokens auth.TokenProvider
	switch s.cfg.TokenSource {
	case "env":
		tokens = auth.EnvProvider{Key: s.cfg.TokenEnvKey}
	default:
		tokens = auth.KeyringProvider{
			ServiceName: s.cfg.KeyringService,
			Key:         s.cfg.KeyringKey,
			FileDir:     s.cfg.KeyringFileDir,
		}
	}

	// ----- REST client & service -----
	apiClient := api.NewClient(s.cfg.APIBaseURL, tokens, logger)
	notifService := notifyService.NewService(notifStore, apiClient, logger)

	// ----- Push connector -----
	s.connector = socket.NewConnector(socket.Config{
		WSBase:        s.cfg.WSBaseURL,
		Tokens:        tokens,
		OnMessage:     notifService.HandlePush,
		ReconnectWait: s.cfg.ReconnectWait,
		Logger:        logger,
	})
	if err := s.connector.Connect(ctx, s.cfg.UserID); err != nil {
		// No token or an unreachable backend should not kill the daemon; the
		// UI can trigger a refresh once auth state changes.
		logger.Error("failed to connect notification socket", zap.Error(err))
	}

	// ----- Initial sync -----
	if err := notifService.FetchNotifications(ctx, 1, 20); err != nil {
		logger.Warn("initial notification fetch failed", zap.Error(err))
	}

	// ----- Handlers & router -----
	notifHandler := notifyHandler.NewNotificationHandler(notifStore, notifService)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	SetupRouter(s.engine, &Handlers{NotifHandler: notifHandler})

	logger.Info("notification daemon listening",
		zap.String("addr", s.cfg.HTTPAddr),
		zap.String("storage", s.cfg.StorageDriver),
	)

	s.httpSrv = &http.Server{Addr: s.cfg.HTTPAddr, Handler: s.engine}
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the socket (suppressing reconnection), the HTTP server, and
// the storage backend, in that order.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.connector != nil {
		if err := s.connector.Close(); err != nil {
			s.logger.Warn("failed to close notification socket", zap.Error(err))
		}
	}
	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			return err
		}
	}
	if s.closer != nil {
		return s.closer()
	}
	return nil
}
