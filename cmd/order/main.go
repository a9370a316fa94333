package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/example/retailshop/pkg/app"
	"github.com/example/retailshop/pkg/config"
	"github.com/example/retailshop/pkg/discovery"
	"github.com/example/retailshop/pkg/grpc"
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

	log.Info("Starting shop service",
		zap.String("name", cfg.Server.Name),
		zap.Int("port", cfg.Server.Port))

	ctx, cancel := app.WithSignals(context.Background())
	defer cancel()

	shop, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialise services", zap.Error(err))
	}
	defer shop.Close()

	server := grpc.NewShopServer(shop.Accounts, shop.Tokens, shop.Sessions, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(cfg.Server.Addr())
	})

	// Register in etcd when configured
	if len(cfg.Etcd.Endpoints) > 0 {
		sd, err := discovery.NewServiceDiscovery(&cfg.Etcd)
		if err != nil {
			log.Fatal("Failed to connect to etcd", zap.Error(err))
		}
		defer sd.Close()

		instance := &discovery.ServiceInstance{
			Name: grpc.ShopServiceDiscoveryName,
			Host: cfg.Server.Host,
			Port: cfg.Server.Port,
		}
		if err := sd.Register(gctx, instance); err != nil {
			log.Fatal("Failed to register service", zap.Error(err))
		}
		log.Info("Service registered in etcd", zap.String("address", instance.Addr()))

		defer func() {
			if err := sd.Deregister(context.Background(), instance); err != nil {
				log.Error("Failed to deregister service", zap.Error(err))
			}
		}()
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Received shutdown signal")
		server.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Server error", zap.Error(err))
	}
	log.Info("Service stopped")
}
