package app

import (
	"context"
	"testing"

	"github.com/example/retailshop/pkg/config"
	"github.com/example/retailshop/pkg/repository/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWithStoreCreatesAdminOnce(t *testing.T) {
	store := testdb.Open(t)
	ctx := context.Background()
	cfg := &config.Config{Auth: config.AuthConfig{
		JWTSecret: "k", Issuer: "retailshop", AdminUsername: "root", AdminPassword: "rootpass",
	}}

	a, err := NewWithStore(ctx, cfg, zap.NewNop(), store)
	require.NoError(t, err)
	a.Close()

	// a second start finds the existing admin
	a, err = NewWithStore(ctx, cfg, zap.NewNop(), store)
	require.NoError(t, err)
	defer a.Close()

	user, err := a.Accounts.Authenticate(ctx, "root", "rootpass")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)

	token, err := a.Tokens.Issue(user)
	require.NoError(t, err)
	claims, err := a.Tokens.Parse(token)
	require.NoError(t, err)
	assert.True(t, claims.Admin)
}

func TestNewWithStoreRejectsWeakAdminPassword(t *testing.T) {
	cfg := &config.Config{Auth: config.AuthConfig{JWTSecret: "k", AdminUsername: "root", AdminPassword: "x"}}

	_, err := NewWithStore(context.Background(), cfg, zap.NewNop(), testdb.Open(t))
	assert.Error(t, err)
}

func TestConnectAuditWarnsWhenMongoIsDown(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	a := &App{
		Config: &config.Config{
			Server: config.ServerConfig{Name: "shop-service"},
			MongoDB: config.MongoDBConfig{
				URI:        "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200&connectTimeoutMS=200",
				Database:   "retailshop",
				Collection: "audit_logs",
			},
		},
		Logger: zap.New(core),
	}

	require.NoError(t, a.connectAudit(context.Background()))
	defer a.Close()

	assert.NotNil(t, a.Audit)
	assert.Equal(t, 1, logs.FilterMessage("MongoDB connection failed").Len())
	assert.Zero(t, logs.FilterMessage("MongoDB connected successfully").Len())
}
