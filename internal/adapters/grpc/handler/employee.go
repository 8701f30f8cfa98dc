package handler

import (
	"context"

	"github.com/ogurasousui/workcard-admin/internal/core/employee"
	"google.golang.org/protobuf/types/known/structpb"
)

// EmployeeGrpcHandler は EmployeeService の gRPC 実装です。
type EmployeeGrpcHandler struct {
	svc employee.UseCase
}

// NewEmployeeGrpcHandler は EmployeeGrpcHandler を生成します。
func NewEmployeeGrpcHandler(svc employee.UseCase) *EmployeeGrpcHandler {
	return &EmployeeGrpcHandler{svc: svc}
}

// CreateEmployee は社員を作成します。
func (h *EmployeeGrpcHandler) CreateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}
	siteID, err := stringField(req, "site_id")
	if err != nil {
		return nil, err
	}
	code, err := stringField(req, "employee_code")
	if err != nil {
		return nil, err
	}
	name, err := stringField(req, "name")
	if err != nil {
		return nil, err
	}
	rawStatus, err := optionalStringField(req, "status")
	if err != nil {
		return nil, err
	}
	hiredAt, err := dateField(req, "hired_at")
	if err != nil {
		return nil, err
	}

	created, err := h.svc.CreateEmployee(ctx, employee.CreateEmployeeInput{
		SiteID:       siteID,
		EmployeeCode: code,
		Name:         name,
		Status:       toEmployeeStatus(rawStatus),
		HiredAt:      hiredAt,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return newStruct(map[string]any{"employee": employeeFields(created)})
}

// GetEmployee は社員を取得します。
func (h *EmployeeGrpcHandler) GetEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}
	id, err := stringField(req, "id")
	if err != nil {
		return nil, err
	}

	found, err := h.svc.GetEmployee(ctx, employee.GetEmployeeInput{ID: id})
	if err != nil {
		return nil, toStatusError(err)
	}
	return newStruct(map[string]any{"employee": employeeFields(found)})
}

// ListEmployees は拠点の社員一覧を返します。
func (h *EmployeeGrpcHandler) ListEmployees(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}
	siteID, err := stringField(req, "site_id")
	if err != nil {
		return nil, err
	}
	pageSize, err := intField(req, "page_size")
	if err != nil {
		return nil, err
	}
	pageToken, err := stringField(req, "page_token")
	if err != nil {
		return nil, err
	}
	rawStatus, err := optionalStringField(req, "status")
	if err != nil {
		return nil, err
	}

	result, err := h.svc.ListEmployees(ctx, employee.ListEmployeesInput{
		SiteID:    siteID,
		PageSize:  pageSize,
		PageToken: pageToken,
		Status:    toEmployeeStatus(rawStatus),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	items := make([]any, 0, len(result.Employees))
	for _, e := range result.Employees {
		items = append(items, employeeFields(e))
	}
	return newStruct(map[string]any{
		"employees":       items,
		"next_page_token": result.NextPageToken,
	})
}

// UpdateEmployee は社員を部分更新します。hired_at に null を渡すと入社日を消去します。
func (h *EmployeeGrpcHandler) UpdateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}
	id, err := stringField(req, "id")
	if err != nil {
		return nil, err
	}
	siteID, err := optionalStringField(req, "site_id")
	if err != nil {
		return nil, err
	}
	code, err := optionalStringField(req, "employee_code")
	if err != nil {
		return nil, err
	}
	name, err := optionalStringField(req, "name")
	if err != nil {
		return nil, err
	}
	rawStatus, err := optionalStringField(req, "status")
	if err != nil {
		return nil, err
	}
	hiredAt, err := dateField(req, "hired_at")
	if err != nil {
		return nil, err
	}
	_, hiredAtSet := req.GetFields()["hired_at"]

	updated, err := h.svc.UpdateEmployee(ctx, employee.UpdateEmployeeInput{
		ID:           id,
		SiteID:       siteID,
		EmployeeCode: code,
		Name:         name,
		Status:       toEmployeeStatus(rawStatus),
		HiredAt:      hiredAt,
		HiredAtSet:   hiredAtSet,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return newStruct(map[string]any{"employee": employeeFields(updated)})
}

// DeleteEmployee は社員を削除します。
func (h *EmployeeGrpcHandler) DeleteEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}
	id, err := stringField(req, "id")
	if err != nil {
		return nil, err
	}

	if err := h.svc.DeleteEmployee(ctx, employee.DeleteEmployeeInput{ID: id}); err != nil {
		return nil, toStatusError(err)
	}
	return &structpb.Struct{}, nil
}

func toEmployeeStatus(raw *string) *employee.Status {
	if raw == nil {
		return nil
	}
	st := employee.Status(*raw)
	return &st
}

func employeeFields(e *employee.Employee) map[string]any {
	return map[string]any{
		"id":            e.ID,
		"site_id":       e.SiteID,
		"employee_code": e.EmployeeCode,
		"name":          e.Name,
		"status":        string(e.Status),
		"hired_at":      formatDate(e.HiredAt),
		"created_at":    formatTimestamp(e.CreatedAt),
		"updated_at":    formatTimestamp(e.UpdatedAt),
	}
}
