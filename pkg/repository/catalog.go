package repository

import (
	"context"

	"github.com/example/retailshop/pkg/apperr"
	"github.com/example/retailshop/pkg/models"
)

func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := s.conn(ctx).Create(category).Error; err != nil {
		if isDuplicate(err) {
			return apperr.Duplicate("category %q already exists", category.Name)
		}
		return apperr.Persistence(err, "failed to create category")
	}
	return nil
}

func (s *Store) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := s.conn(ctx).Where("name_key = ?", models.NameKey(name)).First(&category).Error
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.NotFound("category %q not found", name)
		}
		return nil, apperr.Persistence(err, "failed to get category")
	}
	return &category, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.conn(ctx).Order("name_key").Find(&categories).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to list categories")
	}
	return categories, nil
}

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.conn(ctx).Create(product).Error; err != nil {
		if isDuplicate(err) {
			return apperr.Duplicate("product %q already exists", product.Name)
		}
		return apperr.Persistence(err, "failed to create product")
	}
	return nil
}

func (s *Store) FindProductByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	err := s.conn(ctx).Where("name_key = ?", models.NameKey(name)).First(&product).Error
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.NotFound("product %q not found", name)
		}
		return nil, apperr.Persistence(err, "failed to get product")
	}
	return &product, nil
}

func (s *Store) ProductsInCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	var products []models.Product
	err := s.conn(ctx).Where("category_id = ?", categoryID).Order("name_key").Find(&products).Error
	if err != nil {
		return nil, apperr.Persistence(err, "failed to list products")
	}
	return products, nil
}
