package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/retailshop/pkg/billing"
	"github.com/example/retailshop/pkg/cart"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

const replyGrace = 250 * time.Millisecond

// Shop is the customer-facing set of cart and order operations.
type Shop interface {
	AddToCart(ctx context.Context, userID, product string) (bool, error)
	RemoveFromCart(ctx context.Context, userID, product string) error
	ViewCart(ctx context.Context, userID string) (*billing.CartView, error)
	Summarize(ctx context.Context, userID string) (*billing.OrderSummary, error)
	Summary(ctx context.Context, userID, orderID string) (*billing.OrderSummary, error)
	Checkout(ctx context.Context, userID, orderID string) (*billing.Bill, error)
}

type Options struct {
	// RequestTimeout bounds how long a caller waits for its actor.
	RequestTimeout time.Duration
	// IdleTimeout stops an actor that received nothing for this long. Zero keeps actors forever.
	IdleTimeout time.Duration
}

// Dispatcher routes every user's commands through a dedicated actor so that
// commands of the same user never run concurrently.
type Dispatcher struct {
	system *actor.ActorSystem
	ledger *cart.Ledger
	engine *billing.Engine
	logger *zap.Logger
	opts   Options

	mu   sync.Mutex
	pids map[string]*actor.PID
}

var _ Shop = (*Dispatcher)(nil)

func NewDispatcher(ledger *cart.Ledger, engine *billing.Engine, logger *zap.Logger, opts Options) *Dispatcher {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 5 * time.Second
	}
	return &Dispatcher{
		system: actor.NewActorSystem(actor.WithLoggerFactory(func(system *actor.ActorSystem) *slog.Logger {
			handler := zapslog.NewHandler(logger.Core(), zapslog.WithName("actor"))
			return slog.New(handler).With("lib", "Proto.Actor", "system", system.ID)
		})),
		ledger: ledger,
		engine: engine,
		logger: logger.Named("session"),
		opts:   opts,
		pids:   make(map[string]*actor.PID),
	}
}

func (d *Dispatcher) pid(userID string) *actor.PID {
	d.mu.Lock()
	defer d.mu.Unlock()

	if pid, ok := d.pids[userID]; ok {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return &userActor{
			userID:      userID,
			ledger:      d.ledger,
			engine:      d.engine,
			logger:      d.logger,
			idleTimeout: d.opts.IdleTimeout,
			onIdle:      func(pid *actor.PID) { d.forget(userID, pid) },
		}
	})
	pid := d.system.Root.SpawnPrefix(props, "session-")
	d.pids[userID] = pid
	return pid
}

func (d *Dispatcher) forget(userID string, pid *actor.PID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if cur, ok := d.pids[userID]; ok && cur.Equal(pid) {
		delete(d.pids, userID)
	}
}

// request sends the message built by msg to the user's actor and waits for the
// reply. The context handed to msg expires when the wait budget runs out, so a
// command still running at that point fails and rolls back. The future gets
// replyGrace on top to collect that failure.
func (d *Dispatcher) request(ctx context.Context, userID string, msg func(context.Context) interface{}) (interface{}, error) {
	timeout := d.opts.RequestTimeout
	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			return nil, ctx.Err()
		}
		if left < timeout {
			timeout = left
		}
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	m := msg(ctx)

	for attempt := 0; ; attempt++ {
		pid := d.pid(userID)
		res, err := d.system.Root.RequestFuture(pid, m, timeout+replyGrace).Result()
		if errors.Is(err, actor.ErrDeadLetter) && attempt == 0 {
			// the actor stopped while idle; a fresh one takes over
			d.forget(userID, pid)
			continue
		}
		if err != nil {
			d.logger.Error("Session request failed", zap.String("user_id", userID), zap.Error(err))
			return nil, fmt.Errorf("session %s: %w", userID, err)
		}
		r, ok := res.(*reply)
		if !ok {
			return nil, fmt.Errorf("session %s: unexpected reply %T", userID, res)
		}
		return r.Value, r.Err
	}
}

func (d *Dispatcher) AddToCart(ctx context.Context, userID, product string) (bool, error) {
	v, err := d.request(ctx, userID, func(ctx context.Context) interface{} {
		return &addItem{Ctx: ctx, Product: product}
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (d *Dispatcher) RemoveFromCart(ctx context.Context, userID, product string) error {
	_, err := d.request(ctx, userID, func(ctx context.Context) interface{} {
		return &removeItem{Ctx: ctx, Product: product}
	})
	return err
}

func (d *Dispatcher) ViewCart(ctx context.Context, userID string) (*billing.CartView, error) {
	v, err := d.request(ctx, userID, func(ctx context.Context) interface{} {
		return &viewCart{Ctx: ctx}
	})
	if err != nil {
		return nil, err
	}
	return v.(*billing.CartView), nil
}

func (d *Dispatcher) Summarize(ctx context.Context, userID string) (*billing.OrderSummary, error) {
	v, err := d.request(ctx, userID, func(ctx context.Context) interface{} {
		return &summarize{Ctx: ctx}
	})
	if err != nil {
		return nil, err
	}
	return v.(*billing.OrderSummary), nil
}

// Summary only reads and bypasses the actor.
func (d *Dispatcher) Summary(ctx context.Context, userID, orderID string) (*billing.OrderSummary, error) {
	return d.engine.Summary(ctx, userID, orderID)
}

func (d *Dispatcher) Checkout(ctx context.Context, userID, orderID string) (*billing.Bill, error) {
	v, err := d.request(ctx, userID, func(ctx context.Context) interface{} {
		return &checkout{Ctx: ctx, OrderID: orderID}
	})
	if err != nil {
		return nil, err
	}
	return v.(*billing.Bill), nil
}

// Close stops every session actor.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	pids := make([]*actor.PID, 0, len(d.pids))
	for _, pid := range d.pids {
		pids = append(pids, pid)
	}
	d.pids = make(map[string]*actor.PID)
	d.mu.Unlock()

	for _, pid := range pids {
		if err := d.system.Root.StopFuture(pid).Wait(); err != nil {
			d.logger.Warn("Failed to stop session actor", zap.String("pid", pid.Id), zap.Error(err))
		}
	}
	d.logger.Info("Session actors stopped", zap.Int("count", len(pids)))
}
