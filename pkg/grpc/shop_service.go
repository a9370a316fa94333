package grpc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const ShopServiceName = "retailshop.v1.ShopService"

// ShopServiceServer is implemented by the shop RPC service. Bodies are
// google.protobuf.Struct documents and money is carried as decimal strings.
type ShopServiceServer interface {
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ViewCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddToCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveFromCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Summarize(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Checkout(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type shopMethod func(ShopServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call shopMethod) grpc.MethodDesc {
	fullMethod := "/" + ShopServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ShopServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(ShopServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ShopServiceDesc = grpc.ServiceDesc{
	ServiceName: ShopServiceName,
	HandlerType: (*ShopServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("Login", ShopServiceServer.Login),
		unaryHandler("ViewCart", ShopServiceServer.ViewCart),
		unaryHandler("AddToCart", ShopServiceServer.AddToCart),
		unaryHandler("RemoveFromCart", ShopServiceServer.RemoveFromCart),
		unaryHandler("Summarize", ShopServiceServer.Summarize),
		unaryHandler("Checkout", ShopServiceServer.Checkout),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterShopServiceServer(s grpc.ServiceRegistrar, srv ShopServiceServer) {
	s.RegisterService(&ShopServiceDesc, srv)
}

func methodPath(name string) string {
	return "/" + ShopServiceName + "/" + name
}

// toStruct converts v to a Struct through its JSON form.
func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return out, nil
}

func fromStruct(s *structpb.Struct, dest interface{}) error {
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
