// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// ControllerServer is the business-logic port the controller package
// implements; RegisterControllerServer wires it into a *grpc.Server
// without any generated stub code.
type ControllerServer interface {
	AddSetup(ctx context.Context, req *AddSetupRequest) (*Empty, error)
	GetAllSetupNames(ctx context.Context, req *GetAllSetupNamesRequest) (*GetAllSetupNamesResponse, error)
	GetSetupDirTar(ctx context.Context, req *GetSetupDirTarRequest) (*GetSetupDirTarResponse, error)
	GetSingleAvailableTask(ctx context.Context, req *GetSingleAvailableTaskRequest) (*GetSingleAvailableTaskResponse, error)
	SetTaskCompleted(ctx context.Context, req *SetTaskCompletedRequest) (*Empty, error)
	SetTaskFailed(ctx context.Context, req *SetTaskFailedRequest) (*Empty, error)
	AddNewTask(ctx context.Context, req *AddNewTaskRequest) (*Empty, error)
	GetAllCompletedTasks(ctx context.Context, req *GetAllCompletedTasksRequest) (*GetAllCompletedTasksResponse, error)
	SetTaskProcessed(ctx context.Context, req *SetTaskProcessedRequest) (*Empty, error)
}

// serviceName is the gRPC full-method prefix, standing in for a
// package.Service name a .proto file would otherwise declare.
const serviceName = "mackenzie.Controller"

func unaryHandler[Req any, Resp any](call func(ControllerServer, context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := new(Req)
		if err := dec(req); err != nil {
			return nil, err
		}
		impl := srv.(ControllerServer)
		if interceptor == nil {
			return call(impl, ctx, req)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(impl, ctx, req.(*Req))
		}
		return interceptor(ctx, req, info, handler)
	}
}

// ServiceDesc is the hand-authored stand-in for what `protoc
// --go-grpc_out` would otherwise generate from a .proto file.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ControllerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AddSetup", Handler: methodHandler(unaryHandler(ControllerServer.AddSetup))},
		{MethodName: "GetAllSetupNames", Handler: methodHandler(unaryHandler(ControllerServer.GetAllSetupNames))},
		{MethodName: "GetSetupDirTar", Handler: methodHandler(unaryHandler(ControllerServer.GetSetupDirTar))},
		{MethodName: "GetSingleAvailableTask", Handler: methodHandler(unaryHandler(ControllerServer.GetSingleAvailableTask))},
		{MethodName: "SetTaskCompleted", Handler: methodHandler(unaryHandler(ControllerServer.SetTaskCompleted))},
		{MethodName: "SetTaskFailed", Handler: methodHandler(unaryHandler(ControllerServer.SetTaskFailed))},
		{MethodName: "AddNewTask", Handler: methodHandler(unaryHandler(ControllerServer.AddNewTask))},
		{MethodName: "GetAllCompletedTasks", Handler: methodHandler(unaryHandler(ControllerServer.GetAllCompletedTasks))},
		{MethodName: "SetTaskProcessed", Handler: methodHandler(unaryHandler(ControllerServer.SetTaskProcessed))},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mackenzie/controller.proto",
}

// methodHandler adapts the generic unaryHandler shape to grpc.MethodHandler.
func methodHandler(h func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		return h(srv, ctx, dec, interceptor)
	}
}

// RegisterControllerServer registers impl against s the way generated
// code would via a _grpc.pb.go RegisterXServer function.
func RegisterControllerServer(s grpc.ServiceRegistrar, impl ControllerServer) {
	s.RegisterService(&ServiceDesc, impl)
}
