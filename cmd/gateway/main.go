package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/example/retailshop/gateway"
	"github.com/example/retailshop/pkg/app"
	"github.com/example/retailshop/pkg/config"
	"github.com/example/retailshop/pkg/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the config file")
	flag.Parse()

	_ = godotenv.Load()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting API Gateway",
		zap.Int("port", cfg.Gateway.Port),
		zap.String("host", cfg.Gateway.Host))

	ctx, cancel := app.WithSignals(context.Background())
	defer cancel()

	shop, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialise services", zap.Error(err))
	}
	defer shop.Close()

	services := gateway.Services{
		Accounts: shop.Accounts,
		Tokens:   shop.Tokens,
		Catalog:  shop.Catalog,
		Shop:     shop.Sessions,
		Reports:  shop.Reports,
	}
	if shop.Audit != nil {
		services.Audit = shop.Audit
	}

	gw := gateway.NewGateway(cfg, log, services)
	gw.SetupRoutes()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(gw.Start)
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Received shutdown signal")
		sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer scancel()
		return gw.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Gateway error", zap.Error(err))
	}
	log.Info("Gateway stopped")
}
