package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/example/retailshop/pkg/config"
	"github.com/example/retailshop/pkg/discovery"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const ShopServiceDiscoveryName = "shop-service"

// ClientManager manages the connection to the shop service
type ClientManager struct {
	config    *config.Config
	discovery *discovery.ServiceDiscovery
	logger    *zap.Logger

	conn *grpc.ClientConn
	shop *ShopClient
}

// NewClientManager creates a new gRPC client manager. disc may be nil.
func NewClientManager(cfg *config.Config, logger *zap.Logger, disc *discovery.ServiceDiscovery) *ClientManager {
	return &ClientManager{
		config:    cfg,
		discovery: disc,
		logger:    logger,
	}
}

// Connect resolves the shop service through etcd, falling back to the
// configured server address.
func (m *ClientManager) Connect(ctx context.Context) error {
	target := m.config.Server.Addr()

	if m.discovery != nil {
		dctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		instances, err := m.discovery.Discover(dctx, ShopServiceDiscoveryName)
		if err == nil && len(instances) > 0 {
			target = instances[0].Addr()
			m.logger.Info("Discovered shop service", zap.String("address", target))
		} else {
			m.logger.Info("Using default address for shop service", zap.String("address", target), zap.Error(err))
		}
	}

	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("failed to connect to shop service: %w", err)
	}

	m.conn = conn
	m.shop = NewShopClient(conn)
	m.logger.Info("Connected to shop service", zap.String("target", target))
	return nil
}

func (m *ClientManager) Shop() *ShopClient {
	return m.shop
}

func (m *ClientManager) Close() error {
	if m.conn == nil {
		return nil
	}
	if err := m.conn.Close(); err != nil {
		return fmt.Errorf("shop connection close error: %w", err)
	}
	return nil
}
