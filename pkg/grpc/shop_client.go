package grpc

import (
	"context"

	"github.com/example/retailshop/pkg/apperr"
	"github.com/example/retailshop/pkg/billing"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

type LoginResult struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
}

// ShopClient calls ShopService. After Login it sends the session token with
// every call. Errors are returned as *apperr.Error.
type ShopClient struct {
	conn  grpc.ClientConnInterface
	token string
}

func NewShopClient(conn grpc.ClientConnInterface) *ShopClient {
	return &ShopClient{conn: conn}
}

func (c *ShopClient) invoke(ctx context.Context, method string, in map[string]interface{}, dest interface{}) error {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return apperr.InvalidArgument("invalid request: %v", err)
	}
	if c.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.token)
	}

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, methodPath(method), req, out); err != nil {
		return apperr.FromGRPC(err)
	}
	if dest == nil {
		return nil
	}
	return fromStruct(out, dest)
}

func (c *ShopClient) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var res LoginResult
	err := c.invoke(ctx, "Login", map[string]interface{}{"username": username, "password": password}, &res)
	if err != nil {
		return nil, err
	}
	c.token = res.Token
	return &res, nil
}

func (c *ShopClient) ViewCart(ctx context.Context) (*billing.CartView, error) {
	var view billing.CartView
	if err := c.invoke(ctx, "ViewCart", nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *ShopClient) AddToCart(ctx context.Context, product string) (bool, error) {
	var res struct {
		Added bool `json:"added"`
	}
	if err := c.invoke(ctx, "AddToCart", map[string]interface{}{"product": product}, &res); err != nil {
		return false, err
	}
	return res.Added, nil
}

func (c *ShopClient) RemoveFromCart(ctx context.Context, product string) error {
	return c.invoke(ctx, "RemoveFromCart", map[string]interface{}{"product": product}, nil)
}

func (c *ShopClient) Summarize(ctx context.Context) (*billing.OrderSummary, error) {
	var summary billing.OrderSummary
	if err := c.invoke(ctx, "Summarize", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *ShopClient) Checkout(ctx context.Context, orderID string) (*billing.Bill, error) {
	var bill billing.Bill
	if err := c.invoke(ctx, "Checkout", map[string]interface{}{"order_id": orderID}, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}
