package grpc

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/example/retailshop/pkg/account"
	"github.com/example/retailshop/pkg/apperr"
	"github.com/example/retailshop/pkg/session"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"
	"google.golang.org/protobuf/types/known/structpb"
)

type claimsKey struct{}

type ShopServer struct {
	accounts *account.Service
	tokens   *account.Tokens
	shop     session.Shop
	logger   *zap.Logger
	srv      *grpc.Server
}

var _ ShopServiceServer = (*ShopServer)(nil)

func NewShopServer(accounts *account.Service, tokens *account.Tokens, shop session.Shop, logger *zap.Logger) *ShopServer {
	s := &ShopServer{
		accounts: accounts,
		tokens:   tokens,
		shop:     shop,
		logger:   logger.Named("grpc"),
	}
	s.srv = grpc.NewServer(grpc.ChainUnaryInterceptor(s.logInterceptor, s.authInterceptor))
	RegisterShopServiceServer(s.srv, s)
	reflection.Register(s.srv)
	return s
}

func (s *ShopServer) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.logger.Info("Shop service started", zap.String("address", addr))
	return s.Serve(lis)
}

func (s *ShopServer) Serve(lis net.Listener) error {
	return s.srv.Serve(lis)
}

func (s *ShopServer) Stop() {
	s.srv.GracefulStop()
}

func (s *ShopServer) logInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	fields := []zap.Field{
		zap.String("method", info.FullMethod),
		zap.Duration("latency", time.Since(start)),
	}
	if err != nil {
		s.logger.Info("RPC failed", append(fields, zap.Error(err))...)
	} else {
		s.logger.Debug("RPC served", fields...)
	}
	return resp, err
}

// authInterceptor requires a bearer token on every method except Login.
func (s *ShopServer) authInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if info.FullMethod == methodPath("Login") {
		return handler(ctx, req)
	}

	md, _ := metadata.FromIncomingContext(ctx)
	values := md.Get("authorization")
	if len(values) == 0 || !strings.HasPrefix(values[0], "Bearer ") {
		return nil, apperr.GRPCStatus(apperr.AuthFailure("missing bearer token"))
	}
	claims, err := s.tokens.Parse(strings.TrimPrefix(values[0], "Bearer "))
	if err != nil {
		return nil, apperr.GRPCStatus(err)
	}
	return handler(context.WithValue(ctx, claimsKey{}, claims), req)
}

func userID(ctx context.Context) string {
	if c, ok := ctx.Value(claimsKey{}).(*account.Claims); ok {
		return c.UserID
	}
	return ""
}

func field(in *structpb.Struct, name string) (string, error) {
	v := strings.TrimSpace(in.GetFields()[name].GetStringValue())
	if v == "" {
		return "", apperr.InvalidArgument("%s is required", name)
	}
	return v, nil
}

func respond(v interface{}, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, apperr.GRPCStatus(err)
	}
	out, err := toStruct(v)
	if err != nil {
		return nil, apperr.GRPCStatus(err)
	}
	return out, nil
}

func (s *ShopServer) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	username := in.GetFields()["username"].GetStringValue()
	password := in.GetFields()["password"].GetStringValue()

	user, err := s.accounts.Authenticate(ctx, username, password)
	if err != nil {
		return respond(nil, err)
	}
	token, err := s.tokens.Issue(user)
	return respond(map[string]interface{}{
		"token":    token,
		"user_id":  user.ID,
		"username": user.Username,
		"admin":    user.IsAdmin,
	}, err)
}

func (s *ShopServer) ViewCart(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return respond(s.shop.ViewCart(ctx, userID(ctx)))
}

func (s *ShopServer) AddToCart(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	product, err := field(in, "product")
	if err != nil {
		return respond(nil, err)
	}
	added, err := s.shop.AddToCart(ctx, userID(ctx), product)
	return respond(map[string]interface{}{"added": added}, err)
}

func (s *ShopServer) RemoveFromCart(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	product, err := field(in, "product")
	if err != nil {
		return respond(nil, err)
	}
	err = s.shop.RemoveFromCart(ctx, userID(ctx), product)
	return respond(map[string]interface{}{"removed": err == nil}, err)
}

func (s *ShopServer) Summarize(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return respond(s.shop.Summarize(ctx, userID(ctx)))
}

func (s *ShopServer) Checkout(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	orderID, err := field(in, "order_id")
	if err != nil {
		return respond(nil, err)
	}
	return respond(s.shop.Checkout(ctx, userID(ctx), orderID))
}
