package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/example/retailshop/pkg/account"
	"github.com/example/retailshop/pkg/apperr"
	"github.com/example/retailshop/pkg/billing"
	"github.com/example/retailshop/pkg/cart"
	"github.com/example/retailshop/pkg/config"
	"github.com/example/retailshop/pkg/models"
	"github.com/example/retailshop/pkg/repository/testdb"
	"github.com/example/retailshop/pkg/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	reflectionpb "google.golang.org/grpc/reflection/grpc_reflection_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

func startServer(t *testing.T) *grpc.ClientConn {
	t.Helper()
	store := testdb.Open(t)
	ctx := context.Background()
	logger := zap.NewNop()

	accounts := account.NewService(store, logger)
	_, err := accounts.Register(ctx, "alice", "secret1", false)
	require.NoError(t, err)

	category := &models.Category{Name: "Electronics"}
	require.NoError(t, store.CreateCategory(ctx, category))
	for name, price := range map[string]int64{"Phone": 6000, "Headphones": 5000} {
		require.NoError(t, store.CreateProduct(ctx, &models.Product{
			Name: name, Price: decimal.NewFromInt(price), CategoryID: category.ID,
		}))
	}

	ledger := cart.NewLedger(store, logger)
	engine := billing.NewEngine(store, ledger, logger)
	dispatcher := session.NewDispatcher(ledger, engine, logger, session.Options{})
	t.Cleanup(dispatcher.Close)

	tokens := account.NewTokens(config.AuthConfig{JWTSecret: "test", Issuer: "retailshop", TTL: time.Hour})
	server := NewShopServer(accounts, tokens, dispatcher, logger)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestShopServiceFlow(t *testing.T) {
	client := NewShopClient(startServer(t))
	ctx := context.Background()

	_, err := client.Login(ctx, "alice", "wrong-pass")
	assert.True(t, apperr.Is(err, apperr.KindAuthFailure))

	login, err := client.Login(ctx, "Alice", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "alice", login.Username)

	for _, p := range []string{"Phone", "Headphones", "phone"} {
		_, err := client.AddToCart(ctx, p)
		require.NoError(t, err)
	}
	_, err = client.AddToCart(ctx, "Tablet")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	view, err := client.ViewCart(ctx)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 2)
	assert.True(t, view.Total.Equal(decimal.NewFromInt(11000)))

	summary, err := client.Summarize(ctx)
	require.NoError(t, err)
	assert.True(t, summary.Discount.Equal(decimal.NewFromInt(500)))

	bill, err := client.Checkout(ctx, summary.OrderID)
	require.NoError(t, err)
	assert.True(t, bill.SubTotal.Equal(decimal.NewFromInt(10500)))

	_, err = client.Checkout(ctx, summary.OrderID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	_, err = client.Summarize(ctx)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	err = client.RemoveFromCart(ctx, "Phone")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestShopServiceRequiresToken(t *testing.T) {
	conn := startServer(t)

	out := new(structpb.Struct)
	err := conn.Invoke(context.Background(), methodPath("ViewCart"), &structpb.Struct{}, out)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	client := NewShopClient(conn)
	client.token = "garbage"
	_, err = client.ViewCart(context.Background())
	assert.True(t, apperr.Is(err, apperr.KindAuthFailure))
}

func TestCheckoutRequiresOrderID(t *testing.T) {
	client := NewShopClient(startServer(t))
	ctx := context.Background()

	_, err := client.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	_, err = client.Checkout(ctx, "")
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
}

func TestReflectionListsShopService(t *testing.T) {
	conn := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := reflectionpb.NewServerReflectionClient(conn).ServerReflectionInfo(ctx)
	require.NoError(t, err)
	require.NoError(t, stream.Send(&reflectionpb.ServerReflectionRequest{
		MessageRequest: &reflectionpb.ServerReflectionRequest_ListServices{},
	}))
	resp, err := stream.Recv()
	require.NoError(t, err)

	var names []string
	for _, svc := range resp.GetListServicesResponse().GetService() {
		names = append(names, svc.GetName())
	}
	assert.Contains(t, names, ShopServiceName)
	assert.Empty(t, ShopServiceDesc.Metadata, "no file descriptor is registered for the service")
}
