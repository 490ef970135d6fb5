package grpc

// Hand-maintained service descriptor for riskd.v1.RiskService. Messages are
// plain Go structs carried by the JSON codec in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName = "riskd.v1.RiskService"

	MethodAnalyzeProject = "/riskd.v1.RiskService/AnalyzeProject"
	MethodAnalyzeBatch   = "/riskd.v1.RiskService/AnalyzeBatch"
	MethodGetAssessment  = "/riskd.v1.RiskService/GetAssessment"
	MethodGetModelInfo   = "/riskd.v1.RiskService/GetModelInfo"
)

// RiskServiceServer is the server API for RiskService.
type RiskServiceServer interface {
	AnalyzeProject(context.Context, *AnalyzeProjectRequest) (*AnalyzeProjectResponse, error)
	AnalyzeBatch(context.Context, *AnalyzeBatchRequest) (*AnalyzeBatchResponse, error)
	GetAssessment(context.Context, *GetAssessmentRequest) (*GetAssessmentResponse, error)
	GetModelInfo(context.Context, *GetModelInfoRequest) (*GetModelInfoResponse, error)
	mustEmbedUnimplementedRiskServiceServer()
}

// UnimplementedRiskServiceServer provides forward-compatible default implementations.
type UnimplementedRiskServiceServer struct{}

func (UnimplementedRiskServiceServer) AnalyzeProject(context.Context, *AnalyzeProjectRequest) (*AnalyzeProjectResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AnalyzeProject not implemented")
}
func (UnimplementedRiskServiceServer) AnalyzeBatch(context.Context, *AnalyzeBatchRequest) (*AnalyzeBatchResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AnalyzeBatch not implemented")
}
func (UnimplementedRiskServiceServer) GetAssessment(context.Context, *GetAssessmentRequest) (*GetAssessmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetAssessment not implemented")
}
func (UnimplementedRiskServiceServer) GetModelInfo(context.Context, *GetModelInfoRequest) (*GetModelInfoResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetModelInfo not implemented")
}
func (UnimplementedRiskServiceServer) mustEmbedUnimplementedRiskServiceServer() {}

// RegisterRiskServiceServer registers the RiskServiceServer with the gRPC server.
func RegisterRiskServiceServer(s grpclib.ServiceRegistrar, srv RiskServiceServer) {
	s.RegisterService(&riskServiceDesc, srv)
}

var riskServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "AnalyzeProject", Handler: unaryHandler(MethodAnalyzeProject, RiskServiceServer.AnalyzeProject)},
		{MethodName: "AnalyzeBatch", Handler: unaryHandler(MethodAnalyzeBatch, RiskServiceServer.AnalyzeBatch)},
		{MethodName: "GetAssessment", Handler: unaryHandler(MethodGetAssessment, RiskServiceServer.GetAssessment)},
		{MethodName: "GetModelInfo", Handler: unaryHandler(MethodGetModelInfo, RiskServiceServer.GetModelInfo)},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "riskd/v1/risk.proto",
}

// unaryHandler adapts a typed method to grpc's method handler signature,
// running the server's interceptor chain when one is installed.
func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(RiskServiceServer, context.Context, *Req) (*Resp, error),
) grpclib.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		req := new(Req)
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RiskServiceServer), ctx, req)
		}
		info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(RiskServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, req, info, handler)
	}
}
