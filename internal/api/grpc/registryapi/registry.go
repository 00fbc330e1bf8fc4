// Package registryapi describes the gRPC services of the user registry. The
// messages are protobuf well-known types: lookups take a StringValue and every
// other payload is a Struct.
package registryapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	RegistryServiceName = "userregistry.v1.Registry"
	AdminServiceName    = "userregistry.v1.Admin"

	Registry_Start_FullMethodName        = "/userregistry.v1.Registry/Start"
	Registry_GetState_FullMethodName     = "/userregistry.v1.Registry/GetState"
	Registry_GetUserInfo_FullMethodName  = "/userregistry.v1.Registry/GetUserInfo"
	Registry_GetEmailInfo_FullMethodName = "/userregistry.v1.Registry/GetEmailInfo"
	Registry_GetHistory_FullMethodName   = "/userregistry.v1.Registry/GetHistory"
	Admin_Resume_FullMethodName          = "/userregistry.v1.Admin/Resume"
)

// RegistryServer is the server API for the Registry service.
type RegistryServer interface {
	Start(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetState(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetUserInfo(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetEmailInfo(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetHistory(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// UnimplementedRegistryServer can be embedded to have forward compatible implementations.
type UnimplementedRegistryServer struct{}

func (UnimplementedRegistryServer) Start(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Start not implemented")
}
func (UnimplementedRegistryServer) GetState(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetState not implemented")
}
func (UnimplementedRegistryServer) GetUserInfo(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetUserInfo not implemented")
}
func (UnimplementedRegistryServer) GetEmailInfo(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetEmailInfo not implemented")
}
func (UnimplementedRegistryServer) GetHistory(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetHistory not implemented")
}

// RegisterRegistryServer registers srv on s.
func RegisterRegistryServer(s grpc.ServiceRegistrar, srv RegistryServer) {
	s.RegisterService(&Registry_ServiceDesc, srv)
}

func _Registry_Start_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RegistryServer).Start(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Registry_Start_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RegistryServer).Start(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// lookupHandler builds the handler of a method taking a StringValue.
func lookupHandler(fullMethod string, call func(RegistryServer, context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(wrapperspb.StringValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RegistryServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(RegistryServer), ctx, req.(*wrapperspb.StringValue))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Registry_ServiceDesc is the grpc.ServiceDesc for the Registry service.
var Registry_ServiceDesc = grpc.ServiceDesc{
	ServiceName: RegistryServiceName,
	HandlerType: (*RegistryServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Start",
			Handler:    _Registry_Start_Handler,
		},
		{
			MethodName: "GetState",
			Handler:    lookupHandler(Registry_GetState_FullMethodName, RegistryServer.GetState),
		},
		{
			MethodName: "GetUserInfo",
			Handler:    lookupHandler(Registry_GetUserInfo_FullMethodName, RegistryServer.GetUserInfo),
		},
		{
			MethodName: "GetEmailInfo",
			Handler:    lookupHandler(Registry_GetEmailInfo_FullMethodName, RegistryServer.GetEmailInfo),
		},
		{
			MethodName: "GetHistory",
			Handler:    lookupHandler(Registry_GetHistory_FullMethodName, RegistryServer.GetHistory),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "userregistry/v1/registry.proto",
}

// AdminServer is the server API for the Admin service.
type AdminServer interface {
	Resume(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// UnimplementedAdminServer can be embedded to have forward compatible implementations.
type UnimplementedAdminServer struct{}

func (UnimplementedAdminServer) Resume(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Resume not implemented")
}

// RegisterAdminServer registers srv on s.
func RegisterAdminServer(s grpc.ServiceRegistrar, srv AdminServer) {
	s.RegisterService(&Admin_ServiceDesc, srv)
}

func _Admin_Resume_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServer).Resume(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Admin_Resume_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdminServer).Resume(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Admin_ServiceDesc is the grpc.ServiceDesc for the Admin service.
var Admin_ServiceDesc = grpc.ServiceDesc{
	ServiceName: AdminServiceName,
	HandlerType: (*AdminServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Resume",
			Handler:    _Admin_Resume_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "userregistry/v1/registry.proto",
}
