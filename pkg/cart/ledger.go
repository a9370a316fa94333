package cart

import (
	"context"

	"github.com/example/retailshop/pkg/apperr"
	"github.com/example/retailshop/pkg/models"
	"github.com/example/retailshop/pkg/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Line is one product in a cart.
type Line struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

// Ledger keeps the set of products each user has selected.
type Ledger struct {
	store  *repository.Store
	logger *zap.Logger
}

func NewLedger(store *repository.Store, logger *zap.Logger) *Ledger {
	return &Ledger{store: store, logger: logger.Named("cart")}
}

// Within returns a ledger whose operations run on q, typically a transaction.
func (l *Ledger) Within(q *repository.Store) *Ledger {
	return &Ledger{store: q, logger: l.logger}
}

// Add puts the named product in the user's cart. Adding a product that is
// already there changes nothing and reports added=false.
func (l *Ledger) Add(ctx context.Context, userID, productName string) (bool, error) {
	var (
		added   bool
		product *models.Product
	)
	err := l.store.Transaction(ctx, func(q *repository.Store) error {
		p, err := q.FindProductByName(ctx, productName)
		if err != nil {
			return err
		}
		product = p

		exists, err := q.HasCartItem(ctx, userID, p.ID)
		if err != nil || exists {
			return err
		}
		added, err = q.CreateCartItem(ctx, &models.CartItem{UserID: userID, ProductID: p.ID})
		return err
	})
	if err != nil {
		return false, err
	}
	if added {
		l.logger.Debug("Product added to cart", zap.String("user_id", userID), zap.String("product", product.Name))
	}
	return added, nil
}

func (l *Ledger) Remove(ctx context.Context, userID, productName string) error {
	var product *models.Product
	err := l.store.Transaction(ctx, func(q *repository.Store) error {
		p, err := q.FindProductByName(ctx, productName)
		if err != nil {
			return err
		}
		product = p

		n, err := q.DeleteCartItem(ctx, userID, p.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.NotFound("product %q is not in the cart", p.Name)
		}
		return nil
	})
	if err != nil {
		return err
	}
	l.logger.Debug("Product removed from cart", zap.String("user_id", userID), zap.String("product", product.Name))
	return nil
}

// List returns the cart in the order products were added.
func (l *Ledger) List(ctx context.Context, userID string) ([]Line, error) {
	items, err := l.store.ListCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, Line{ProductID: item.ProductID, Name: item.Product.Name, Price: item.Product.Price})
	}
	return lines, nil
}

func (l *Ledger) Clear(ctx context.Context, userID string) error {
	return l.store.ClearCart(ctx, userID)
}

func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Price)
	}
	return total
}
