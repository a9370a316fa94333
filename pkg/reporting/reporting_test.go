package reporting

import (
	"context"
	"testing"

	"github.com/example/retailshop/pkg/billing"
	"github.com/example/retailshop/pkg/cart"
	"github.com/example/retailshop/pkg/models"
	"github.com/example/retailshop/pkg/repository/testdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReports(t *testing.T) {
	store := testdb.Open(t)
	ctx := context.Background()

	users := map[string]string{}
	for _, name := range []string{"zoe", "Adam", "bob"} {
		u := &models.User{Username: name, PasswordHash: "x"}
		require.NoError(t, store.CreateUser(ctx, u))
		users[name] = u.ID
	}
	category := &models.Category{Name: "Books"}
	require.NoError(t, store.CreateCategory(ctx, category))
	for name, price := range map[string]string{"Novel": "300", "Atlas": "12000"} {
		require.NoError(t, store.CreateProduct(ctx, &models.Product{
			Name: name, Price: decimal.RequireFromString(price), CategoryID: category.ID,
		}))
	}

	ledger := cart.NewLedger(store, zap.NewNop())
	engine := billing.NewEngine(store, ledger, zap.NewNop())
	add := func(user string, products ...string) {
		for _, p := range products {
			_, err := ledger.Add(ctx, users[user], p)
			require.NoError(t, err)
		}
	}

	// zoe and Adam check out, bob only summarizes
	add("zoe", "Atlas")
	add("Adam", "Novel")
	add("bob", "Novel", "Atlas")
	for _, name := range []string{"zoe", "Adam"} {
		s, err := engine.Summarize(ctx, users[name])
		require.NoError(t, err)
		_, err = engine.Checkout(ctx, users[name], s.OrderID)
		require.NoError(t, err)
	}
	_, err := engine.Summarize(ctx, users["bob"])
	require.NoError(t, err)
	add("zoe", "Novel")

	svc := NewService(store)

	carts, err := svc.Carts(ctx)
	require.NoError(t, err)
	require.Len(t, carts, 2)
	assert.Equal(t, "bob", carts[0].Username)
	require.Len(t, carts[0].Items, 2)
	assert.Equal(t, "Novel", carts[0].Items[0].ProductName)
	assert.True(t, carts[0].Total.Equal(decimal.NewFromInt(12300)))
	assert.Equal(t, "zoe", carts[1].Username)

	bills, err := svc.Bills(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 2)
	assert.Equal(t, "Adam", bills[0].Username)
	assert.True(t, bills[0].SubTotal.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, "zoe", bills[1].Username)
	assert.True(t, bills[1].Discount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, models.OrderStatusConfirmed, bills[1].Status)
	assert.NotNil(t, bills[1].FinalizedAt)
}

func TestReportsEmpty(t *testing.T) {
	svc := NewService(testdb.Open(t))

	carts, err := svc.Carts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, carts)

	bills, err := svc.Bills(context.Background())
	require.NoError(t, err)
	assert.Empty(t, bills)
}
