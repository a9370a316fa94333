package session

import "context"

// Messages handled by a user actor. Ctx carries the caller's deadline.
type (
	addItem struct {
		Ctx     context.Context
		Product string
	}
	removeItem struct {
		Ctx     context.Context
		Product string
	}
	viewCart struct {
		Ctx context.Context
	}
	summarize struct {
		Ctx context.Context
	}
	checkout struct {
		Ctx     context.Context
		OrderID string
	}
)

type reply struct {
	Value interface{}
	Err   error
}
