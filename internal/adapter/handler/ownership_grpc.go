package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// OwnershipServer is the server API for the ownership gRPC service.
//
// Requests and replies are protobuf Struct values carrying the same fields as
// the HTTP API, so no generated code is needed.
type OwnershipServer interface {
	ResolveOwnership(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Metadata(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedOwnershipServer can be embedded to have forward compatible implementations.
type UnimplementedOwnershipServer struct{}

func (UnimplementedOwnershipServer) ResolveOwnership(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ResolveOwnership not implemented")
}
func (UnimplementedOwnershipServer) Metadata(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Metadata not implemented")
}

func RegisterOwnershipServer(s grpc.ServiceRegistrar, srv OwnershipServer) {
	s.RegisterService(&Ownership_ServiceDesc, srv)
}

// OwnershipClient is the client API for the ownership gRPC service.
type OwnershipClient interface {
	ResolveOwnership(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Metadata(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type ownershipClient struct{ cc grpc.ClientConnInterface }

func NewOwnershipClient(cc grpc.ClientConnInterface) OwnershipClient {
	return &ownershipClient{cc: cc}
}

func (c *ownershipClient) ResolveOwnership(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, "/ownership.v1.Ownership/ResolveOwnership", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ownershipClient) Metadata(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, "/ownership.v1.Ownership/Metadata", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func _Ownership_ResolveOwnership_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OwnershipServer).ResolveOwnership(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/ownership.v1.Ownership/ResolveOwnership"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(OwnershipServer).ResolveOwnership(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _Ownership_Metadata_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OwnershipServer).Metadata(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/ownership.v1.Ownership/Metadata"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(OwnershipServer).Metadata(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Ownership_ServiceDesc is the grpc.ServiceDesc for the Ownership service.
var Ownership_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "ownership.v1.Ownership",
	HandlerType: (*OwnershipServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ResolveOwnership", Handler: _Ownership_ResolveOwnership_Handler},
		{MethodName: "Metadata", Handler: _Ownership_Metadata_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ownership.proto",
}
