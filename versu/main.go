package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"versu/versu/config"
	"versu/versu/controllers"
	"versu/versu/routes"
	"versu/versu/services/llm"
	"versu/versu/services/realtime"
	"versu/versu/sources/psql"
	"versu/versu/sources/psql/dao"
	"versu/versu/sources/storage"
	"versu/versu/utils/logging"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logging.InitLogger(cfg.LogDir)
	defer logging.Sync()

	// Long enough for every connection retry.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DBConnectDelay*time.Duration(cfg.DBConnectRetries+1)+30*time.Second)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.Fatal("database connection error", zap.Error(err))
	}
	defer db.Close()

	var avatars controllers.AvatarStore
	if cfg.StorageEnabled() {
		minioClient, err := storage.NewMinIOClient(ctx, cfg)
		if err != nil {
			db.Close()
			logging.Fatal("minio connection error", zap.Error(err))
		}
		avatars = minioClient
	} else {
		logging.AppLogger.Info("object storage not configured, avatar uploads disabled")
	}

	if cfg.LLMAPIKey == "" {
		logging.AppLogger.Warn("OPENAI_API_KEY is not set, replies will use the fallback message")
	}
	groq := llm.NewGroqClient(cfg)

	userDAO := dao.NewUserDAO(db.DB)
	promptDAO := dao.NewPromptDAO(db.DB)
	authCtrl := controllers.NewAuthController(userDAO, avatars, cfg)
	convCtrl := controllers.NewConversationController(dao.NewConversationDAO(db.DB), dao.NewMessageDAO(db.DB), promptDAO, groq, groq.Model())
	promptCtrl := controllers.NewPromptController(promptDAO)

	handler := routes.NewRouter(routes.Handlers{
		Auth:          authCtrl,
		Conversations: convCtrl,
		Prompts:       promptCtrl,
		Health:        controllers.NewHealthController(),
		Hub:           realtime.NewHub(),
		FrontendURL:   cfg.FrontendURL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server listen error", zap.Error(err))
		}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
