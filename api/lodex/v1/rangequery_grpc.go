package lodexv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	RangeQuery_Forward_FullMethodName = "/lodex.v1.RangeQuery/Forward"
	RangeQuery_Reverse_FullMethodName = "/lodex.v1.RangeQuery/Reverse"
	RangeQuery_Count_FullMethodName   = "/lodex.v1.RangeQuery/Count"
	RangeQuery_Health_FullMethodName  = "/lodex.v1.RangeQuery/Health"
	RangeQuery_Watch_FullMethodName   = "/lodex.v1.RangeQuery/Watch"
)

// RangeQueryClient is the client API for the RangeQuery service.
type RangeQueryClient interface {
	Forward(ctx context.Context, in *ForwardRequest, opts ...grpc.CallOption) (*ItemsResponse, error)
	Reverse(ctx context.Context, in *ReverseRequest, opts ...grpc.CallOption) (*ItemsResponse, error)
	Count(ctx context.Context, in *CountRequest, opts ...grpc.CallOption) (*CountResponse, error)
	Health(ctx context.Context, in *HealthCheckRequest, opts ...grpc.CallOption) (*HealthCheckResponse, error)
	Watch(ctx context.Context, in *WatchRequest, opts ...grpc.CallOption) (RangeQuery_WatchClient, error)
}

type rangeQueryClient struct {
	cc grpc.ClientConnInterface
}

func NewRangeQueryClient(cc grpc.ClientConnInterface) RangeQueryClient {
	return &rangeQueryClient{cc}
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func (c *rangeQueryClient) Forward(ctx context.Context, in *ForwardRequest, opts ...grpc.CallOption) (*ItemsResponse, error) {
	out := new(ItemsResponse)
	if err := c.cc.Invoke(ctx, RangeQuery_Forward_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rangeQueryClient) Reverse(ctx context.Context, in *ReverseRequest, opts ...grpc.CallOption) (*ItemsResponse, error) {
	out := new(ItemsResponse)
	if err := c.cc.Invoke(ctx, RangeQuery_Reverse_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rangeQueryClient) Count(ctx context.Context, in *CountRequest, opts ...grpc.CallOption) (*CountResponse, error) {
	out := new(CountResponse)
	if err := c.cc.Invoke(ctx, RangeQuery_Count_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rangeQueryClient) Health(ctx context.Context, in *HealthCheckRequest, opts ...grpc.CallOption) (*HealthCheckResponse, error) {
	out := new(HealthCheckResponse)
	if err := c.cc.Invoke(ctx, RangeQuery_Health_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rangeQueryClient) Watch(ctx context.Context, in *WatchRequest, opts ...grpc.CallOption) (RangeQuery_WatchClient, error) {
	stream, err := c.cc.NewStream(ctx, &RangeQuery_ServiceDesc.Streams[0], RangeQuery_Watch_FullMethodName, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	x := &rangeQueryWatchClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type RangeQuery_WatchClient interface {
	Recv() (*WatchEvent, error)
	grpc.ClientStream
}

type rangeQueryWatchClient struct {
	grpc.ClientStream
}

func (x *rangeQueryWatchClient) Recv() (*WatchEvent, error) {
	m := new(WatchEvent)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// RangeQueryServer is the server API for the RangeQuery service.
type RangeQueryServer interface {
	Forward(context.Context, *ForwardRequest) (*ItemsResponse, error)
	Reverse(context.Context, *ReverseRequest) (*ItemsResponse, error)
	Count(context.Context, *CountRequest) (*CountResponse, error)
	Health(context.Context, *HealthCheckRequest) (*HealthCheckResponse, error)
	Watch(*WatchRequest, RangeQuery_WatchServer) error
	mustEmbedUnimplementedRangeQueryServer()
}

// UnimplementedRangeQueryServer must be embedded by implementations.
type UnimplementedRangeQueryServer struct{}

func (UnimplementedRangeQueryServer) Forward(context.Context, *ForwardRequest) (*ItemsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Forward not implemented")
}
func (UnimplementedRangeQueryServer) Reverse(context.Context, *ReverseRequest) (*ItemsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Reverse not implemented")
}
func (UnimplementedRangeQueryServer) Count(context.Context, *CountRequest) (*CountResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Count not implemented")
}
func (UnimplementedRangeQueryServer) Health(context.Context, *HealthCheckRequest) (*HealthCheckResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Health not implemented")
}
func (UnimplementedRangeQueryServer) Watch(*WatchRequest, RangeQuery_WatchServer) error {
	return status.Errorf(codes.Unimplemented, "method Watch not implemented")
}
func (UnimplementedRangeQueryServer) mustEmbedUnimplementedRangeQueryServer() {}

func RegisterRangeQueryServer(s grpc.ServiceRegistrar, srv RangeQueryServer) {
	s.RegisterService(&RangeQuery_ServiceDesc, srv)
}

func _RangeQuery_Forward_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ForwardRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RangeQueryServer).Forward(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RangeQuery_Forward_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RangeQueryServer).Forward(ctx, req.(*ForwardRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _RangeQuery_Reverse_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ReverseRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RangeQueryServer).Reverse(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RangeQuery_Reverse_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RangeQueryServer).Reverse(ctx, req.(*ReverseRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _RangeQuery_Count_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CountRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RangeQueryServer).Count(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RangeQuery_Count_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RangeQueryServer).Count(ctx, req.(*CountRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _RangeQuery_Health_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(HealthCheckRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RangeQueryServer).Health(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RangeQuery_Health_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RangeQueryServer).Health(ctx, req.(*HealthCheckRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _RangeQuery_Watch_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(WatchRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(RangeQueryServer).Watch(m, &rangeQueryWatchServer{stream})
}

type RangeQuery_WatchServer interface {
	Send(*WatchEvent) error
	grpc.ServerStream
}

type rangeQueryWatchServer struct {
	grpc.ServerStream
}

func (x *rangeQueryWatchServer) Send(m *WatchEvent) error {
	return x.ServerStream.SendMsg(m)
}

// RangeQuery_ServiceDesc is the grpc.ServiceDesc for the RangeQuery service.
var RangeQuery_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "lodex.v1.RangeQuery",
	HandlerType: (*RangeQueryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Forward", Handler: _RangeQuery_Forward_Handler},
		{MethodName: "Reverse", Handler: _RangeQuery_Reverse_Handler},
		{MethodName: "Count", Handler: _RangeQuery_Count_Handler},
		{MethodName: "Health", Handler: _RangeQuery_Health_Handler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Watch", Handler: _RangeQuery_Watch_Handler, ServerStreams: true},
	},
	Metadata: "lodex/v1/rangequery.proto",
}
