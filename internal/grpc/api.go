package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name. Requests and
// responses are google.protobuf.Struct documents shaped like the JSON
// checklist and aggregate types.
const ServiceName = "portaudit.scoring.v1.ChecklistScoring"

const (
	methodScoreChecklist      = "ScoreChecklist"
	methodGetProjectScore     = "GetProjectScore"
	methodGetProjectBreakdown = "GetProjectBreakdown"
	methodGetProjectProgress  = "GetProjectProgress"
	methodRecordResponse      = "RecordResponse"
	methodUpdateNCStatus      = "UpdateNCStatus"
)

// ChecklistScoringServer is the server API for the checklist scoring service.
type ChecklistScoringServer interface {
	ScoreChecklist(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProjectScore(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProjectBreakdown(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProjectProgress(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordResponse(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateNCStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(ChecklistScoringServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ChecklistScoringServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ChecklistScoringServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// ChecklistScoringServiceDesc describes the service for grpc.Server.
var ChecklistScoringServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChecklistScoringServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: methodScoreChecklist, Handler: unaryHandler(methodScoreChecklist, ChecklistScoringServer.ScoreChecklist)},
		{MethodName: methodGetProjectScore, Handler: unaryHandler(methodGetProjectScore, ChecklistScoringServer.GetProjectScore)},
		{MethodName: methodGetProjectBreakdown, Handler: unaryHandler(methodGetProjectBreakdown, ChecklistScoringServer.GetProjectBreakdown)},
		{MethodName: methodGetProjectProgress, Handler: unaryHandler(methodGetProjectProgress, ChecklistScoringServer.GetProjectProgress)},
		{MethodName: methodRecordResponse, Handler: unaryHandler(methodRecordResponse, ChecklistScoringServer.RecordResponse)},
		{MethodName: methodUpdateNCStatus, Handler: unaryHandler(methodUpdateNCStatus, ChecklistScoringServer.UpdateNCStatus)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "portaudit/scoring/v1/scoring.proto",
}

func RegisterChecklistScoringServer(s grpc.ServiceRegistrar, srv ChecklistScoringServer) {
	s.RegisterService(&ChecklistScoringServiceDesc, srv)
}

// ChecklistScoringClient calls the service over a client connection.
type ChecklistScoringClient struct {
	cc grpc.ClientConnInterface
}

func NewChecklistScoringClient(cc grpc.ClientConnInterface) *ChecklistScoringClient {
	return &ChecklistScoringClient{cc: cc}
}

func (c *ChecklistScoringClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ChecklistScoringClient) ScoreChecklist(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodScoreChecklist, in, opts...)
}

func (c *ChecklistScoringClient) GetProjectScore(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodGetProjectScore, in, opts...)
}

func (c *ChecklistScoringClient) GetProjectBreakdown(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodGetProjectBreakdown, in, opts...)
}

func (c *ChecklistScoringClient) GetProjectProgress(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodGetProjectProgress, in, opts...)
}

func (c *ChecklistScoringClient) RecordResponse(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodRecordResponse, in, opts...)
}

func (c *ChecklistScoringClient) UpdateNCStatus(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodUpdateNCStatus, in, opts...)
}
