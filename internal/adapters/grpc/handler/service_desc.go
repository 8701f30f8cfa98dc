package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// 各サービスのメッセージは google.protobuf.Struct で表現します。
const (
	AttendanceServiceName = "workcards.v1.AttendanceService"
	EmployeeServiceName   = "workcards.v1.EmployeeService"
	BusinessServiceName   = "workcards.v1.BusinessService"
)

// AttendanceServiceServer は AttendanceService のサーバー実装が満たすインターフェースです。
type AttendanceServiceServer interface {
	GetMonthlyMatrix(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RecordHours(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ClearHours(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SetWorkCardStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// EmployeeServiceServer は EmployeeService のサーバー実装が満たすインターフェースです。
type EmployeeServiceServer interface {
	CreateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListEmployees(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// BusinessServiceServer は BusinessService のサーバー実装が満たすインターフェースです。
type BusinessServiceServer interface {
	CreateBusiness(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetBusiness(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListBusinesses(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateBusiness(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CreateSite(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListSites(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var attendanceServiceDesc = grpc.ServiceDesc{
	ServiceName: AttendanceServiceName,
	HandlerType: (*AttendanceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(AttendanceServiceName, "GetMonthlyMatrix", AttendanceServiceServer.GetMonthlyMatrix),
		unaryMethod(AttendanceServiceName, "RecordHours", AttendanceServiceServer.RecordHours),
		unaryMethod(AttendanceServiceName, "ClearHours", AttendanceServiceServer.ClearHours),
		unaryMethod(AttendanceServiceName, "SetWorkCardStatus", AttendanceServiceServer.SetWorkCardStatus),
	},
	Metadata: "workcards/v1/attendance.proto",
}

var employeeServiceDesc = grpc.ServiceDesc{
	ServiceName: EmployeeServiceName,
	HandlerType: (*EmployeeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(EmployeeServiceName, "CreateEmployee", EmployeeServiceServer.CreateEmployee),
		unaryMethod(EmployeeServiceName, "GetEmployee", EmployeeServiceServer.GetEmployee),
		unaryMethod(EmployeeServiceName, "ListEmployees", EmployeeServiceServer.ListEmployees),
		unaryMethod(EmployeeServiceName, "UpdateEmployee", EmployeeServiceServer.UpdateEmployee),
		unaryMethod(EmployeeServiceName, "DeleteEmployee", EmployeeServiceServer.DeleteEmployee),
	},
	Metadata: "workcards/v1/employee.proto",
}

var businessServiceDesc = grpc.ServiceDesc{
	ServiceName: BusinessServiceName,
	HandlerType: (*BusinessServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(BusinessServiceName, "CreateBusiness", BusinessServiceServer.CreateBusiness),
		unaryMethod(BusinessServiceName, "GetBusiness", BusinessServiceServer.GetBusiness),
		unaryMethod(BusinessServiceName, "ListBusinesses", BusinessServiceServer.ListBusinesses),
		unaryMethod(BusinessServiceName, "UpdateBusiness", BusinessServiceServer.UpdateBusiness),
		unaryMethod(BusinessServiceName, "CreateSite", BusinessServiceServer.CreateSite),
		unaryMethod(BusinessServiceName, "ListSites", BusinessServiceServer.ListSites),
	},
	Metadata: "workcards/v1/business.proto",
}

// RegisterAttendanceServiceServer は AttendanceService を登録します。
func RegisterAttendanceServiceServer(s grpc.ServiceRegistrar, srv AttendanceServiceServer) {
	s.RegisterService(&attendanceServiceDesc, srv)
}

// RegisterEmployeeServiceServer は EmployeeService を登録します。
func RegisterEmployeeServiceServer(s grpc.ServiceRegistrar, srv EmployeeServiceServer) {
	s.RegisterService(&employeeServiceDesc, srv)
}

// RegisterBusinessServiceServer は BusinessService を登録します。
func RegisterBusinessServiceServer(s grpc.ServiceRegistrar, srv BusinessServiceServer) {
	s.RegisterService(&businessServiceDesc, srv)
}

// FullMethod は Invoke に渡すメソッド名を返します。
func FullMethod(service, method string) string {
	return "/" + service + "/" + method
}

func unaryMethod[S any](service, name string, call func(S, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	fullMethod := FullMethod(service, name)
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
