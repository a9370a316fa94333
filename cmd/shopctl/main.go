// Command shopctl is an interactive terminal client for the shop service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/example/retailshop/pkg/config"
	"github.com/example/retailshop/pkg/discovery"
	"github.com/example/retailshop/pkg/grpc"
	"github.com/example/retailshop/pkg/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the config file")
	username := flag.String("user", "", "username to log in with")
	password := flag.String("password", os.Getenv("SHOP_PASSWORD"), "password, defaults to $SHOP_PASSWORD")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// keep the menu readable: only warnings, and on stderr
	cfg.Log.Level = "warn"
	cfg.Log.Encoding = "console"
	cfg.Log.OutputPaths = []string{"stderr"}
	cfg.Log.File.Filename = ""
	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	var sd *discovery.ServiceDiscovery
	if len(cfg.Etcd.Endpoints) > 0 {
		sd, err = discovery.NewServiceDiscovery(&cfg.Etcd)
		if err != nil {
			log.Warn("Failed to connect to etcd, using configured address", zap.Error(err))
		} else {
			defer sd.Close()
		}
	}

	ctx := context.Background()
	manager := grpc.NewClientManager(cfg, log, sd)
	if err := manager.Connect(ctx); err != nil {
		log.Fatal("Failed to connect", zap.Error(err))
	}
	defer manager.Close()

	client := manager.Shop()
	if *username == "" {
		fmt.Fprint(os.Stdout, "username: ")
		fmt.Fscanln(os.Stdin, username)
	}
	if *password == "" {
		fmt.Fprint(os.Stdout, "password: ")
		fmt.Fscanln(os.Stdin, password)
	}
	login, err := client.Login(ctx, *username, *password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "Welcome, %s\n", login.Username)

	if err := run(ctx, os.Stdin, os.Stdout, client); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
