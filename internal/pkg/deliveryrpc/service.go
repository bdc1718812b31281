package deliveryrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName   = "storefront.delivery.v1.OrderDelivery"
	DeliverMethod = "/" + ServiceName + "/Deliver"
)

type OrderDeliveryClient interface {
	Deliver(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type orderDeliveryClient struct {
	cc grpc.ClientConnInterface
}

func NewOrderDeliveryClient(cc grpc.ClientConnInterface) OrderDeliveryClient {
	return &orderDeliveryClient{cc: cc}
}

func (c *orderDeliveryClient) Deliver(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, DeliverMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type OrderDeliveryServer interface {
	Deliver(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedOrderDeliveryServer can be embedded for forward compatibility.
type UnimplementedOrderDeliveryServer struct{}

func (UnimplementedOrderDeliveryServer) Deliver(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Deliver not implemented")
}

func RegisterOrderDeliveryServer(s grpc.ServiceRegistrar, srv OrderDeliveryServer) {
	s.RegisterService(&orderDeliveryServiceDesc, srv)
}

func deliverHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderDeliveryServer).Deliver(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: DeliverMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(OrderDeliveryServer).Deliver(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var orderDeliveryServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OrderDeliveryServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Deliver",
			Handler:    deliverHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront/delivery/v1/delivery.proto",
}
