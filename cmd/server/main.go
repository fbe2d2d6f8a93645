package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/nwalden/zonebreach-backend/internal/config"
	"github.com/nwalden/zonebreach-backend/internal/httpapi"
	"github.com/nwalden/zonebreach-backend/internal/hub"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	h := hub.NewHub(ctx, logger)

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(h, logger)

	logger.Info("listening", zap.String("addr", cfg.ListenAddr))
	if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
