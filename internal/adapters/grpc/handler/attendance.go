package handler

import (
	"context"

	"github.com/ogurasousui/workcard-admin/internal/core/attendance"
	"github.com/ogurasousui/workcard-admin/internal/core/calendar"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// AttendanceGrpcHandler は AttendanceService の gRPC 実装です。
type AttendanceGrpcHandler struct {
	svc           attendance.UseCase
	defaultLocale string
}

// NewAttendanceGrpcHandler は AttendanceGrpcHandler を生成します。
// リクエストに locale が無い場合は defaultLocale で曜日を表示します。
func NewAttendanceGrpcHandler(svc attendance.UseCase, defaultLocale string) *AttendanceGrpcHandler {
	return &AttendanceGrpcHandler{svc: svc, defaultLocale: defaultLocale}
}

// GetMonthlyMatrix は拠点・月の勤怠マトリクスを返します。
func (h *AttendanceGrpcHandler) GetMonthlyMatrix(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}
	siteID, err := stringField(req, "site_id")
	if err != nil {
		return nil, err
	}
	yearMonth, err := stringField(req, "year_month")
	if err != nil {
		return nil, err
	}
	includeInactive, err := boolField(req, "include_inactive")
	if err != nil {
		return nil, err
	}
	locale, err := stringField(req, "locale")
	if err != nil {
		return nil, err
	}
	if locale == "" {
		locale = h.defaultLocale
	}

	matrix, err := h.svc.GetMonthlyMatrix(ctx, attendance.GetMonthlyMatrixInput{
		SiteID:          siteID,
		YearMonth:       yearMonth,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	fields, err := matrixFields(matrix, locale)
	if err != nil {
		return nil, toStatusError(err)
	}
	return newStruct(fields)
}

// RecordHours は 1 日分の勤務時間を登録します。
func (h *AttendanceGrpcHandler) RecordHours(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}
	employeeID, err := stringField(req, "employee_id")
	if err != nil {
		return nil, err
	}
	date, err := stringField(req, "date")
	if err != nil {
		return nil, err
	}
	hours, ok, err := numberField(req, "hours")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "hours is required")
	}

	saved, err := h.svc.RecordHours(ctx, attendance.RecordHoursInput{
		EmployeeID: employeeID,
		Date:       date,
		Hours:      hours,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newStruct(map[string]any{
		"employee_id": saved.EmployeeID,
		"date":        saved.Date.Format(dateLayout),
		"hours":       saved.Hours,
		"updated_at":  formatTimestamp(saved.UpdatedAt),
	})
}

// ClearHours は勤務時間を削除し、その日を未入力に戻します。
func (h *AttendanceGrpcHandler) ClearHours(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}
	employeeID, err := stringField(req, "employee_id")
	if err != nil {
		return nil, err
	}
	date, err := stringField(req, "date")
	if err != nil {
		return nil, err
	}

	if err := h.svc.ClearHours(ctx, attendance.ClearHoursInput{EmployeeID: employeeID, Date: date}); err != nil {
		return nil, toStatusError(err)
	}
	return &structpb.Struct{}, nil
}

// SetWorkCardStatus はワークカードのレビュー結果を登録します。
func (h *AttendanceGrpcHandler) SetWorkCardStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}
	employeeID, err := stringField(req, "employee_id")
	if err != nil {
		return nil, err
	}
	yearMonth, err := stringField(req, "year_month")
	if err != nil {
		return nil, err
	}
	reviewStatus, err := stringField(req, "status")
	if err != nil {
		return nil, err
	}

	card, err := h.svc.SetWorkCardStatus(ctx, attendance.SetWorkCardStatusInput{
		EmployeeID: employeeID,
		YearMonth:  yearMonth,
		Status:     reviewStatus,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newStruct(map[string]any{
		"employee_id": card.EmployeeID,
		"year_month":  card.YearMonth.String(),
		"status":      string(card.Status),
		"updated_at":  formatTimestamp(card.UpdatedAt),
	})
}

// matrixFields はマトリクスをレスポンス用のフィールドに変換します。
// 未入力のセルは null、明示的な 0 は 0 として出力します。
func matrixFields(m *attendance.Matrix, locale string) (map[string]any, error) {
	ym := m.YearMonth()

	days := make([]any, 0, len(m.Days()))
	for _, day := range m.Days() {
		label, err := calendar.WeekdayLabel(ym, day, locale)
		if err != nil {
			return nil, err
		}
		days = append(days, map[string]any{"day": day, "weekday": label})
	}

	rows := make([]any, 0, len(m.Employees()))
	for _, row := range m.Rows() {
		cells := make([]any, len(row.Cells))
		for i, cell := range row.Cells {
			if cell.Present {
				cells[i] = cell.Hours
			}
		}
		style := attendance.StyleFor(row.Status)
		rows = append(rows, map[string]any{
			"employee_id":  row.Employee.ID,
			"name":         row.Employee.Name,
			"active":       row.Employee.Active,
			"status":       string(row.Status),
			"status_label": style.Label,
			"background":   style.Background,
			"foreground":   style.Foreground,
			"cells":        cells,
			"total":        row.Total,
		})
	}

	columnTotals := make([]any, 0, len(m.Days()))
	for _, total := range m.ColumnTotals() {
		columnTotals = append(columnTotals, total)
	}

	return map[string]any{
		"year_month":    ym.String(),
		"days":          days,
		"rows":          rows,
		"column_totals": columnTotals,
		"grand_total":   m.GrandTotal(),
	}, nil
}
