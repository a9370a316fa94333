package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/example/retailshop/pkg/apperr"
	"github.com/example/retailshop/pkg/models"
	"github.com/example/retailshop/pkg/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Cache is the optional product lookup cache.
type Cache interface {
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
}

type Service struct {
	store  *repository.Store
	cache  Cache
	logger *zap.Logger
}

// NewService returns a catalog service. cache may be nil.
func NewService(store *repository.Store, logger *zap.Logger, cache Cache) *Service {
	return &Service{store: store, cache: cache, logger: logger.Named("catalog")}
}

type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
}

func (s *Service) AddCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.InvalidArgument("category name is required")
	}

	_, err := s.store.FindCategoryByName(ctx, name)
	switch {
	case err == nil:
		return nil, apperr.Duplicate("category %q already exists", name)
	case !apperr.Is(err, apperr.KindNotFound):
		return nil, err
	}

	category := &models.Category{Name: name}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	s.logger.Info("Category added", zap.String("category", name))
	return category, nil
}

func (s *Service) AddProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, apperr.InvalidArgument("product name is required")
	}
	if in.Price.IsNegative() {
		return nil, apperr.InvalidArgument("price must not be negative")
	}

	category, err := s.store.FindCategoryByName(ctx, in.Category)
	if err != nil {
		return nil, err
	}

	_, err = s.store.FindProductByName(ctx, in.Name)
	switch {
	case err == nil:
		return nil, apperr.Duplicate("product %q already exists", in.Name)
	case !apperr.Is(err, apperr.KindNotFound):
		return nil, err
	}

	product := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price.Round(2),
		CategoryID:  category.ID,
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("Product added",
		zap.String("product", product.Name),
		zap.String("category", category.Name),
		zap.String("price", product.Price.StringFixed(2)))
	return product, nil
}

// FindProduct looks a product up by case-insensitive name.
func (s *Service) FindProduct(ctx context.Context, name string) (*models.Product, error) {
	key := repository.ProductKey(models.NameKey(name))
	if s.cache != nil {
		var cached models.Product
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	product, err := s.store.FindProductByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, product, 0); err != nil {
			s.logger.Warn("Failed to cache product", zap.String("product", product.Name), zap.Error(err))
		}
	}
	return product, nil
}

func (s *Service) FindCategory(ctx context.Context, name string) (*models.Category, error) {
	return s.store.FindCategoryByName(ctx, name)
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *Service) ProductsInCategory(ctx context.Context, categoryName string) ([]models.Product, error) {
	category, err := s.store.FindCategoryByName(ctx, categoryName)
	if err != nil {
		return nil, err
	}
	return s.store.ProductsInCategory(ctx, category.ID)
}
