package session

import (
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/retailshop/pkg/billing"
	"github.com/example/retailshop/pkg/cart"
	"go.uber.org/zap"
)

// userActor executes the cart and order commands of one user, one at a time.
type userActor struct {
	userID      string
	ledger      *cart.Ledger
	engine      *billing.Engine
	logger      *zap.Logger
	idleTimeout time.Duration
	onIdle      func(*actor.PID)
}

func (a *userActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		a.logger.Debug("Session actor started", zap.String("user_id", a.userID))
		if a.idleTimeout > 0 {
			ctx.SetReceiveTimeout(a.idleTimeout)
		}

	case *actor.ReceiveTimeout:
		a.logger.Debug("Session actor idle", zap.String("user_id", a.userID))
		a.onIdle(ctx.Self())
		ctx.Stop(ctx.Self())

	case *addItem:
		added, err := a.ledger.Add(msg.Ctx, a.userID, msg.Product)
		ctx.Respond(&reply{Value: added, Err: err})

	case *removeItem:
		err := a.ledger.Remove(msg.Ctx, a.userID, msg.Product)
		ctx.Respond(&reply{Err: err})

	case *viewCart:
		view, err := a.engine.ViewCart(msg.Ctx, a.userID)
		ctx.Respond(&reply{Value: view, Err: err})

	case *summarize:
		summary, err := a.engine.Summarize(msg.Ctx, a.userID)
		ctx.Respond(&reply{Value: summary, Err: err})

	case *checkout:
		bill, err := a.engine.Checkout(msg.Ctx, a.userID, msg.OrderID)
		ctx.Respond(&reply{Value: bill, Err: err})

	case *actor.Stopped:
		a.logger.Debug("Session actor stopped", zap.String("user_id", a.userID))
	}
}
