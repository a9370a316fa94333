package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/example/retailshop/pkg/account"
	"github.com/example/retailshop/pkg/billing"
	"github.com/example/retailshop/pkg/cart"
	"github.com/example/retailshop/pkg/config"
	"github.com/example/retailshop/pkg/repository/testdb"
	"github.com/example/retailshop/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClientManagerUsesConfiguredAddress(t *testing.T) {
	store := testdb.Open(t)
	logger := zap.NewNop()
	ctx := context.Background()

	accounts := account.NewService(store, logger)
	_, err := accounts.Register(ctx, "bob", "secret1", false)
	require.NoError(t, err)

	ledger := cart.NewLedger(store, logger)
	dispatcher := session.NewDispatcher(ledger, billing.NewEngine(store, ledger, logger), logger, session.Options{})
	t.Cleanup(dispatcher.Close)
	tokens := account.NewTokens(config.AuthConfig{JWTSecret: "test", Issuer: "retailshop", TTL: time.Hour})
	server := NewShopServer(accounts, tokens, dispatcher, logger)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	cfg := &config.Config{Server: config.ServerConfig{
		Host: "127.0.0.1",
		Port: lis.Addr().(*net.TCPAddr).Port,
	}}
	manager := NewClientManager(cfg, logger, nil)
	require.NoError(t, manager.Connect(ctx))
	t.Cleanup(func() { _ = manager.Close() })

	login, err := manager.Shop().Login(ctx, "bob", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "bob", login.Username)

	view, err := manager.Shop().ViewCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestClientManagerCloseWithoutConnect(t *testing.T) {
	manager := NewClientManager(&config.Config{}, zap.NewNop(), nil)
	assert.NoError(t, manager.Close())
	assert.Nil(t, manager.Shop())
}
