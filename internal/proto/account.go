// Package proto describes the notekeeper account gRPC service. Messages are
// google.protobuf.Struct values, so the service needs no generated types;
// the descriptor, server interface and client below follow the layout of
// protoc-gen-go-grpc output.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "notekeeper.account.AccountService"

// Method names.
const (
	MethodPing                = "Ping"
	MethodKeyParams           = "KeyParams"
	MethodProfile             = "Profile"
	MethodCreateItem          = "CreateItem"
	MethodDataSize            = "DataSize"
	MethodItemsBySize         = "ItemsBySize"
	MethodDataSignature       = "DataSignature"
	MethodDownloadBackup      = "DownloadBackup"
	MethodDisableMFA          = "DisableMFA"
	MethodDisableEmailBackups = "DisableEmailBackups"
)

// FullMethod returns the "/service/method" path of a method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// AccountServiceServer is the server API for the account service.
type AccountServiceServer interface {
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
	KeyParams(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Profile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DataSize(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ItemsBySize(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DataSignature(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DownloadBackup(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DisableMFA(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DisableEmailBackups(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedAccountServiceServer can be embedded to have forward
// compatible implementations.
type UnimplementedAccountServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedAccountServiceServer) Ping(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodPing)
}
func (UnimplementedAccountServiceServer) KeyParams(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodKeyParams)
}
func (UnimplementedAccountServiceServer) Profile(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodProfile)
}
func (UnimplementedAccountServiceServer) CreateItem(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodCreateItem)
}
func (UnimplementedAccountServiceServer) DataSize(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodDataSize)
}
func (UnimplementedAccountServiceServer) ItemsBySize(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodItemsBySize)
}
func (UnimplementedAccountServiceServer) DataSignature(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodDataSignature)
}
func (UnimplementedAccountServiceServer) DownloadBackup(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodDownloadBackup)
}
func (UnimplementedAccountServiceServer) DisableMFA(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodDisableMFA)
}
func (UnimplementedAccountServiceServer) DisableEmailBackups(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodDisableEmailBackups)
}

type unaryMethod func(AccountServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AccountServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AccountServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var methods = []struct {
	name string
	call unaryMethod
}{
	{MethodPing, AccountServiceServer.Ping},
	{MethodKeyParams, AccountServiceServer.KeyParams},
	{MethodProfile, AccountServiceServer.Profile},
	{MethodCreateItem, AccountServiceServer.CreateItem},
	{MethodDataSize, AccountServiceServer.DataSize},
	{MethodItemsBySize, AccountServiceServer.ItemsBySize},
	{MethodDataSignature, AccountServiceServer.DataSignature},
	{MethodDownloadBackup, AccountServiceServer.DownloadBackup},
	{MethodDisableMFA, AccountServiceServer.DisableMFA},
	{MethodDisableEmailBackups, AccountServiceServer.DisableEmailBackups},
}

func methodDescs() []grpc.MethodDesc {
	out := make([]grpc.MethodDesc, 0, len(methods))
	for _, m := range methods {
		out = append(out, grpc.MethodDesc{MethodName: m.name, Handler: unaryHandler(m.name, m.call)})
	}
	return out
}

// AccountService_ServiceDesc is the grpc.ServiceDesc for the account service.
var AccountService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountServiceServer)(nil),
	Methods:     methodDescs(),
	Streams:     []grpc.StreamDesc{},
}

func RegisterAccountServiceServer(s grpc.ServiceRegistrar, srv AccountServiceServer) {
	s.RegisterService(&AccountService_ServiceDesc, srv)
}
