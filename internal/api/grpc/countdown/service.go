package countdown

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "countdown.v1.TimerService"

// Full method names used by clients.
const (
	ListTimersMethod  = "/" + ServiceName + "/ListTimers"
	AddTimerMethod    = "/" + ServiceName + "/AddTimer"
	RemoveTimerMethod = "/" + ServiceName + "/RemoveTimer"
)

// TimerServiceServer is the server API for the timer service.
type TimerServiceServer interface {
	// ListTimers returns every timer in insertion order.
	ListTimers(ctx context.Context, req *emptypb.Empty) (*structpb.ListValue, error)
	// AddTimer creates a timer from {"label", "target"} and returns it.
	AddTimer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	// RemoveTimer deletes the timer with the given ID.
	RemoveTimer(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error)
}

// RegisterTimerServiceServer registers srv on s.
func RegisterTimerServiceServer(s grpc.ServiceRegistrar, srv TimerServiceServer) {
	s.RegisterService(&timerServiceDesc, srv)
}

//nolint:gochecknoglobals // Service descriptors are static registration data.
var timerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TimerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListTimers",
			Handler:    listTimersHandler,
		},
		{
			MethodName: "AddTimer",
			Handler:    addTimerHandler,
		},
		{
			MethodName: "RemoveTimer",
			Handler:    removeTimerHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "countdown/v1/timer_service.proto",
}

func listTimersHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(TimerServiceServer).ListTimers(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ListTimersMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TimerServiceServer).ListTimers(ctx, req.(*emptypb.Empty))
	}

	return interceptor(ctx, in, info, handler)
}

func addTimerHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(TimerServiceServer).AddTimer(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AddTimerMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TimerServiceServer).AddTimer(ctx, req.(*structpb.Struct))
	}

	return interceptor(ctx, in, info, handler)
}

func removeTimerHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(TimerServiceServer).RemoveTimer(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: RemoveTimerMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TimerServiceServer).RemoveTimer(ctx, req.(*wrapperspb.StringValue))
	}

	return interceptor(ctx, in, info, handler)
}
