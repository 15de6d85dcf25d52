package main

import (
	"context"
	"net/http"
	"os"

	webAdapter "bookshop/internal/adapters/web"
	"bookshop/internal/app"
	"bookshop/internal/core"
	"bookshop/internal/db"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := newLogger()
	if err != nil {
		panic("logger: " + err.Error())
	}
	defer logger.Sync()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	billingService := core.NewBillingService(pool)
	catalogService := core.NewCatalogService(pool)
	customerService := core.NewCustomerService(pool)
	reportingService := core.NewReportingService(pool)

	svc := app.NewAppService(billingService, catalogService, customerService, reportingService)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, logger, allowedOrigins)

	logger.Info("server starting", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("ENV") == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
