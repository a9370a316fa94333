package billing

import (
	"context"
	"time"

	"github.com/example/retailshop/pkg/apperr"
	"github.com/example/retailshop/pkg/cart"
	"github.com/example/retailshop/pkg/events"
	"github.com/example/retailshop/pkg/models"
	"github.com/example/retailshop/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const sideChannelTimeout = 3 * time.Second

// Engine turns carts into orders and orders into bills. It keeps no per-user
// state and is safe for concurrent use.
type Engine struct {
	store  *repository.Store
	ledger *cart.Ledger
	logger *zap.Logger

	cache  Cache
	audit  AuditLog
	events Publisher
	now    func() time.Time
}

type Option func(*Engine)

func WithCache(c Cache) Option { return func(e *Engine) { e.cache = c } }

func WithAuditLog(a AuditLog) Option { return func(e *Engine) { e.audit = a } }

func WithPublisher(p Publisher) Option { return func(e *Engine) { e.events = p } }

func NewEngine(store *repository.Store, ledger *cart.Ledger, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		ledger: ledger,
		logger: logger.Named("billing"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) ViewCart(ctx context.Context, userID string) (*CartView, error) {
	lines, err := e.ledger.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CartView{Lines: lines, Total: cart.Total(lines)}, nil
}

// Summarize prices the user's cart and records it as an InProgress order.
func (e *Engine) Summarize(ctx context.Context, userID string) (*OrderSummary, error) {
	var order *models.Order
	err := e.store.Transaction(ctx, func(q *repository.Store) error {
		lines, err := e.ledger.Within(q).List(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return apperr.InvalidState("cart is empty")
		}

		value := cart.Total(lines)
		discount, subTotal := ApplyDiscount(value)
		order = &models.Order{
			UserID:    userID,
			Status:    models.OrderStatusInProgress,
			CartValue: value,
			Discount:  discount,
			SubTotal:  subTotal,
			Lines:     make([]models.OrderLine, 0, len(lines)),
		}
		for i, l := range lines {
			order.Lines = append(order.Lines, models.OrderLine{
				Position: i, ProductID: l.ProductID, Name: l.Name, Price: l.Price,
			})
		}
		return q.CreateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	summary := summaryOf(order)
	e.logger.Info("Order summarized",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.String("cart_value", summary.CartValue.StringFixed(2)),
		zap.String("sub_total", summary.SubTotal.StringFixed(2)))

	e.afterSummarize(ctx, summary)
	return summary, nil
}

// Summary returns a summary previously produced by Summarize for this user.
func (e *Engine) Summary(ctx context.Context, userID, orderID string) (*OrderSummary, error) {
	if e.cache != nil {
		var cached OrderSummary
		err := e.cache.GetJSON(ctx, repository.OrderSummaryKey(orderID), &cached)
		if err == nil && cached.UserID == userID {
			return &cached, nil
		}
	}

	order, err := e.store.FindOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperr.NotFound("order %s not found", orderID)
	}
	return summaryOf(order), nil
}

// Checkout confirms the order, clears the cart and issues the bill in one
// transaction, using the figures recorded at summarize time.
func (e *Engine) Checkout(ctx context.Context, userID, orderID string) (*Bill, error) {
	var (
		order *models.Order
		bill  *models.Bill
	)
	err := e.store.Transaction(ctx, func(q *repository.Store) error {
		o, err := q.FindOrder(ctx, orderID)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return apperr.InvalidState("order %s cannot be checked out", orderID)
			}
			return err
		}
		if o.UserID != userID || o.Status != models.OrderStatusInProgress {
			return apperr.InvalidState("order %s cannot be checked out", orderID)
		}

		if err := e.ledger.Within(q).Clear(ctx, userID); err != nil {
			return err
		}

		n, err := q.ConfirmOrder(ctx, orderID, userID, e.now())
		if err != nil {
			return err
		}
		if n != 1 {
			return apperr.InvalidState("order %s cannot be checked out", orderID)
		}

		b := &models.Bill{
			OrderID:   o.ID,
			CartValue: o.CartValue,
			Discount:  o.Discount,
			SubTotal:  o.SubTotal,
		}
		if err := q.CreateBill(ctx, b); err != nil {
			return err
		}
		order, bill = o, b
		return nil
	})
	if err != nil {
		e.logger.Warn("Checkout failed",
			zap.String("order_id", orderID),
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, err
	}

	result := &Bill{
		BillID:    bill.ID,
		OrderID:   order.ID,
		UserID:    userID,
		Lines:     linesOf(order),
		CartValue: bill.CartValue,
		Discount:  bill.Discount,
		SubTotal:  bill.SubTotal,
		CreatedAt: bill.CreatedAt,
	}
	e.logger.Info("Bill issued",
		zap.String("bill_id", result.BillID),
		zap.String("order_id", result.OrderID),
		zap.String("sub_total", result.SubTotal.StringFixed(2)))

	e.afterCheckout(ctx, result)
	return result, nil
}

func (e *Engine) afterSummarize(ctx context.Context, s *OrderSummary) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideChannelTimeout)
	defer cancel()

	if e.cache != nil {
		if err := e.cache.SetJSON(ctx, repository.OrderSummaryKey(s.OrderID), s, 0); err != nil {
			e.logger.Warn("Failed to cache order summary", zap.String("order_id", s.OrderID), zap.Error(err))
		}
	}
	e.record(ctx, "summarize", s.UserID, s.OrderID, bson.M{
		"lines":      len(s.Lines),
		"cart_value": s.CartValue.StringFixed(2),
		"discount":   s.Discount.StringFixed(2),
		"sub_total":  s.SubTotal.StringFixed(2),
	})
	e.publish(ctx, events.RouteOrderSummarized, events.OrderSummarized{
		OrderID:   s.OrderID,
		UserID:    s.UserID,
		Lines:     len(s.Lines),
		CartValue: s.CartValue.StringFixed(2),
		Discount:  s.Discount.StringFixed(2),
		SubTotal:  s.SubTotal.StringFixed(2),
		At:        s.CreatedAt,
	})
}

func (e *Engine) afterCheckout(ctx context.Context, b *Bill) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideChannelTimeout)
	defer cancel()

	if e.cache != nil {
		if err := e.cache.Del(ctx, repository.OrderSummaryKey(b.OrderID)); err != nil {
			e.logger.Warn("Failed to evict order summary", zap.String("order_id", b.OrderID), zap.Error(err))
		}
	}
	e.record(ctx, "checkout", b.UserID, b.OrderID, bson.M{
		"bill_id":   b.BillID,
		"sub_total": b.SubTotal.StringFixed(2),
	})
	e.publish(ctx, events.RouteBillIssued, events.BillIssued{
		BillID:    b.BillID,
		OrderID:   b.OrderID,
		UserID:    b.UserID,
		CartValue: b.CartValue.StringFixed(2),
		Discount:  b.Discount.StringFixed(2),
		SubTotal:  b.SubTotal.StringFixed(2),
		At:        b.CreatedAt,
	})
}

func (e *Engine) record(ctx context.Context, action, userID, orderID string, data bson.M) {
	if e.audit == nil {
		return
	}
	err := e.audit.Record(ctx, &repository.AuditEntry{
		Action:   action,
		UserID:   userID,
		EntityID: orderID,
		Data:     data,
	})
	if err != nil {
		e.logger.Warn("Failed to write audit entry",
			zap.String("action", action),
			zap.String("order_id", orderID),
			zap.Error(err))
	}
}

func (e *Engine) publish(ctx context.Context, route string, msg any) {
	if e.events == nil {
		return
	}
	if err := e.events.Publish(ctx, route, msg); err != nil {
		e.logger.Warn("Failed to publish event", zap.String("route", route), zap.Error(err))
	}
}
