// Package v1 describes the diagnostic.v1.DiagnosticService gRPC surface.
// Requests and responses travel as google.protobuf.Struct values whose JSON
// form matches the service DTOs; ToStruct and FromStruct convert between
// the two.
package v1

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "diagnostic.v1.DiagnosticService"

const (
	MethodCalculateResults    = "CalculateResults"
	MethodSubmitDiagnostic    = "SubmitDiagnostic"
	MethodGetDiagnostic       = "GetDiagnostic"
	MethodListDiagnostics     = "ListDiagnostics"
	MethodListQuestions       = "ListQuestions"
	MethodImportQuestionnaire = "ImportQuestionnaire"
	MethodRecordFollowUp      = "RecordFollowUp"
	MethodGetFollowUpSummary  = "GetFollowUpSummary"
	MethodGetSettings         = "GetSettings"
	MethodUpdateSettings      = "UpdateSettings"
)

// DiagnosticServiceServer is the server API for DiagnosticService.
type DiagnosticServiceServer interface {
	CalculateResults(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitDiagnostic(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDiagnostic(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListDiagnostics(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListQuestions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ImportQuestionnaire(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordFollowUp(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetFollowUpSummary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSettings(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateSettings(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedDiagnosticServiceServer can be embedded to keep servers
// compiling when methods are added.
type UnimplementedDiagnosticServiceServer struct{}

func (UnimplementedDiagnosticServiceServer) CalculateResults(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodCalculateResults)
}
func (UnimplementedDiagnosticServiceServer) SubmitDiagnostic(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodSubmitDiagnostic)
}
func (UnimplementedDiagnosticServiceServer) GetDiagnostic(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetDiagnostic)
}
func (UnimplementedDiagnosticServiceServer) ListDiagnostics(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodListDiagnostics)
}
func (UnimplementedDiagnosticServiceServer) ListQuestions(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodListQuestions)
}
func (UnimplementedDiagnosticServiceServer) ImportQuestionnaire(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodImportQuestionnaire)
}
func (UnimplementedDiagnosticServiceServer) RecordFollowUp(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodRecordFollowUp)
}
func (UnimplementedDiagnosticServiceServer) GetFollowUpSummary(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetFollowUpSummary)
}
func (UnimplementedDiagnosticServiceServer) GetSettings(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetSettings)
}
func (UnimplementedDiagnosticServiceServer) UpdateSettings(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodUpdateSettings)
}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

type unaryCall func(DiagnosticServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := FullMethod(method)
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DiagnosticServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DiagnosticServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc is the grpc.ServiceDesc for DiagnosticService, as declared in
// api/proto/diagnostic/v1/diagnostic.proto.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DiagnosticServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodCalculateResults, Handler: unaryHandler(MethodCalculateResults, DiagnosticServiceServer.CalculateResults)},
		{MethodName: MethodSubmitDiagnostic, Handler: unaryHandler(MethodSubmitDiagnostic, DiagnosticServiceServer.SubmitDiagnostic)},
		{MethodName: MethodGetDiagnostic, Handler: unaryHandler(MethodGetDiagnostic, DiagnosticServiceServer.GetDiagnostic)},
		{MethodName: MethodListDiagnostics, Handler: unaryHandler(MethodListDiagnostics, DiagnosticServiceServer.ListDiagnostics)},
		{MethodName: MethodListQuestions, Handler: unaryHandler(MethodListQuestions, DiagnosticServiceServer.ListQuestions)},
		{MethodName: MethodImportQuestionnaire, Handler: unaryHandler(MethodImportQuestionnaire, DiagnosticServiceServer.ImportQuestionnaire)},
		{MethodName: MethodRecordFollowUp, Handler: unaryHandler(MethodRecordFollowUp, DiagnosticServiceServer.RecordFollowUp)},
		{MethodName: MethodGetFollowUpSummary, Handler: unaryHandler(MethodGetFollowUpSummary, DiagnosticServiceServer.GetFollowUpSummary)},
		{MethodName: MethodGetSettings, Handler: unaryHandler(MethodGetSettings, DiagnosticServiceServer.GetSettings)},
		{MethodName: MethodUpdateSettings, Handler: unaryHandler(MethodUpdateSettings, DiagnosticServiceServer.UpdateSettings)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "diagnostic/v1/diagnostic.proto",
}

// FullMethod returns the "/service/method" path of method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// DiagnosticServiceClient calls DiagnosticService methods by name.
type DiagnosticServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewDiagnosticServiceClient(cc grpc.ClientConnInterface) *DiagnosticServiceClient {
	return &DiagnosticServiceClient{cc: cc}
}

// Call encodes req, invokes method and decodes the response into resp.
// resp may be nil when the caller ignores the reply.
func (c *DiagnosticServiceClient) Call(ctx context.Context, method string, req, resp any, opts ...grpc.CallOption) error {
	in, err := ToStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	return FromStruct(out, resp)
}

// ToStruct converts v, which must encode to a JSON object, into a Struct.
// A nil v yields an empty Struct.
func ToStruct(v any) (*structpb.Struct, error) {
	out := &structpb.Struct{Fields: map[string]*structpb.Value{}}
	if v == nil {
		return out, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("convert %T to struct: %w", v, err)
	}
	return out, nil
}

// FromStruct decodes s into dest through its JSON form.
func FromStruct(s *structpb.Struct, dest any) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("convert struct: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode into %T: %w", dest, err)
	}
	return nil
}
