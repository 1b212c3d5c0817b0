package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/and161185/ordertrack/internal/auth"
	"github.com/and161185/ordertrack/internal/blob"
	"github.com/and161185/ordertrack/internal/config"
	"github.com/and161185/ordertrack/internal/deps"
	"github.com/and161185/ordertrack/internal/server"
	"github.com/and161185/ordertrack/internal/service"
	"github.com/and161185/ordertrack/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config := config.NewConfig()
	storage, err := storage.NewPostgresStorage(ctx, config.DatabaseURI)
	if err != nil {
		config.Logger.Fatal(err)
	}
	defer storage.Close()

	dependencies := deps.NewDependencies(config)
	blobs := blob.NewFileStore(config.UploadDir, config.BaseURL)

	authService := service.NewAuthService(storage, auth.NewPasswordHasher(), dependencies.TokenManager)
	orderService := service.NewOrderService(storage, blobs, dependencies.Logger)
	analyticsService := service.NewAnalyticsService(storage)

	srv := server.NewServer(authService, orderService, analyticsService, storage, config, dependencies)
	if err := srv.Run(ctx); err != nil {
		config.Logger.Fatal(err)
	}
}
