package catalog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/example/retailshop/pkg/apperr"
	"github.com/example/retailshop/pkg/repository"
	"github.com/example/retailshop/pkg/repository/testdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memCache map[string][]byte

func (m memCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	m[key] = data
	return err
}

func (m memCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	data, ok := m[key]
	if !ok {
		return repository.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func newService(t *testing.T, cache Cache) *Service {
	return NewService(testdb.Open(t), zap.NewNop(), cache)
}

func TestAddCategoryAndProduct(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	_, err := svc.AddCategory(ctx, "Electronics")
	require.NoError(t, err)
	_, err = svc.AddCategory(ctx, "Books")
	require.NoError(t, err)

	_, err = svc.AddProduct(ctx, ProductInput{Name: "Phone", Price: decimal.NewFromInt(6000), Category: "electronics"})
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, ProductInput{Name: "Headphones", Price: decimal.NewFromInt(5000), Category: "ELECTRONICS"})
	require.NoError(t, err)

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Books", categories[0].Name)

	products, err := svc.ProductsInCategory(ctx, "Electronics")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Headphones", products[0].Name)
	assert.Equal(t, "Phone", products[1].Name)

	books, err := svc.ProductsInCategory(ctx, "books")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestAddRejectsDuplicatesAndBadInput(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	_, err := svc.AddCategory(ctx, "Books")
	require.NoError(t, err)
	_, err = svc.AddCategory(ctx, "books")
	assert.True(t, apperr.Is(err, apperr.KindDuplicate))
	_, err = svc.AddCategory(ctx, "  ")
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))

	_, err = svc.AddProduct(ctx, ProductInput{Name: "Novel", Price: decimal.NewFromInt(300), Category: "Books"})
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, ProductInput{Name: "NOVEL", Price: decimal.NewFromInt(300), Category: "Books"})
	assert.True(t, apperr.Is(err, apperr.KindDuplicate))
	_, err = svc.AddProduct(ctx, ProductInput{Name: "Atlas", Price: decimal.NewFromInt(-1), Category: "Books"})
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
	_, err = svc.AddProduct(ctx, ProductInput{Name: "Atlas", Price: decimal.NewFromInt(1), Category: "Maps"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestFindProductUsesCache(t *testing.T) {
	cache := memCache{}
	svc := newService(t, cache)
	ctx := context.Background()

	_, err := svc.AddCategory(ctx, "Books")
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, ProductInput{Name: "Novel", Description: "paperback", Price: decimal.RequireFromString("299.99"), Category: "Books"})
	require.NoError(t, err)

	p, err := svc.FindProduct(ctx, "novel")
	require.NoError(t, err)
	assert.Contains(t, cache, repository.ProductKey("novel"))

	cached, err := svc.FindProduct(ctx, "Novel")
	require.NoError(t, err)
	assert.Equal(t, p.ID, cached.ID)
	assert.True(t, cached.Price.Equal(decimal.RequireFromString("299.99")))

	_, err = svc.FindProduct(ctx, "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
