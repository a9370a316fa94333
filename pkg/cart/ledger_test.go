package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/example/retailshop/pkg/apperr"
	"github.com/example/retailshop/pkg/models"
	"github.com/example/retailshop/pkg/repository"
	"github.com/example/retailshop/pkg/repository/testdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*Ledger, *repository.Store, string) {
	t.Helper()
	store := testdb.Open(t)
	ctx := context.Background()

	user := &models.User{Username: "alice", PasswordHash: "x"}
	require.NoError(t, store.CreateUser(ctx, user))
	category := &models.Category{Name: "Electronics"}
	require.NoError(t, store.CreateCategory(ctx, category))
	for name, price := range map[string]string{"Phone": "6000", "Headphones": "5000", "Cable": "19.99"} {
		require.NoError(t, store.CreateProduct(ctx, &models.Product{
			Name: name, Price: decimal.RequireFromString(price), CategoryID: category.ID,
		}))
	}
	return NewLedger(store, zap.NewNop()), store, user.ID
}

func TestAddIsIdempotent(t *testing.T) {
	ledger, _, userID := setup(t)
	ctx := context.Background()

	added, err := ledger.Add(ctx, userID, "Phone")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = ledger.Add(ctx, userID, "phone")
	require.NoError(t, err)
	assert.False(t, added)

	lines, err := ledger.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestAddUnknownProduct(t *testing.T) {
	ledger, _, userID := setup(t)

	_, err := ledger.Add(context.Background(), userID, "Tablet")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestListKeepsInsertionOrder(t *testing.T) {
	ledger, _, userID := setup(t)
	ctx := context.Background()

	for _, name := range []string{"Headphones", "Cable", "Phone"} {
		_, err := ledger.Add(ctx, userID, name)
		require.NoError(t, err)
	}

	lines, err := ledger.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "Headphones", lines[0].Name)
	assert.Equal(t, "Cable", lines[1].Name)
	assert.Equal(t, "Phone", lines[2].Name)
	assert.True(t, Total(lines).Equal(decimal.RequireFromString("11019.99")))
}

func TestRemove(t *testing.T) {
	ledger, _, userID := setup(t)
	ctx := context.Background()

	_, err := ledger.Add(ctx, userID, "Phone")
	require.NoError(t, err)
	_, err = ledger.Add(ctx, userID, "Cable")
	require.NoError(t, err)

	err = ledger.Remove(ctx, userID, "Headphones")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	err = ledger.Remove(ctx, userID, "Tablet")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	lines, err := ledger.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	require.NoError(t, ledger.Remove(ctx, userID, "PHONE"))
	lines, err = ledger.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Cable", lines[0].Name)
}

func TestCartsAreSeparatePerUser(t *testing.T) {
	ledger, store, alice := setup(t)
	ctx := context.Background()

	bob := &models.User{Username: "bob", PasswordHash: "x"}
	require.NoError(t, store.CreateUser(ctx, bob))

	_, err := ledger.Add(ctx, alice, "Phone")
	require.NoError(t, err)
	_, err = ledger.Add(ctx, bob.ID, "Phone")
	require.NoError(t, err)

	require.NoError(t, ledger.Clear(ctx, alice))
	require.NoError(t, ledger.Clear(ctx, alice))

	lines, err := ledger.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, lines)
	lines, err = ledger.List(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestTotalOfEmptyCart(t *testing.T) {
	assert.True(t, Total(nil).IsZero())
}

func TestAddAndRemoveRollBackWithEnclosingTransaction(t *testing.T) {
	ledger, store, userID := setup(t)
	ctx := context.Background()
	abort := errors.New("abort")

	err := store.Transaction(ctx, func(q *repository.Store) error {
		added, err := ledger.Within(q).Add(ctx, userID, "Phone")
		require.NoError(t, err)
		assert.True(t, added)
		return abort
	})
	assert.ErrorIs(t, err, abort)

	lines, err := ledger.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = ledger.Add(ctx, userID, "Phone")
	require.NoError(t, err)
	err = store.Transaction(ctx, func(q *repository.Store) error {
		require.NoError(t, ledger.Within(q).Remove(ctx, userID, "Phone"))
		return abort
	})
	assert.ErrorIs(t, err, abort)

	lines, err = ledger.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}
