package handler

import (
	"errors"

	"github.com/ogurasousui/workcard-admin/internal/core/attendance"
	"github.com/ogurasousui/workcard-admin/internal/core/business"
	"github.com/ogurasousui/workcard-admin/internal/core/calendar"
	"github.com/ogurasousui/workcard-admin/internal/core/employee"
	"github.com/ogurasousui/workcard-admin/internal/core/paging"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	// 保存済みデータの不整合は入力エラーより優先して判定する。
	case errors.Is(err, attendance.ErrCorruptData):
		return status.Error(codes.DataLoss, err.Error())
	case errors.Is(err, calendar.ErrInvalidMonth),
		errors.Is(err, calendar.ErrDayOutOfRange),
		errors.Is(err, paging.ErrInvalidPageSize),
		errors.Is(err, paging.ErrInvalidPageToken),
		errors.Is(err, attendance.ErrInvalidEntryDay),
		errors.Is(err, attendance.ErrInvalidHours),
		errors.Is(err, attendance.ErrInvalidStatus),
		errors.Is(err, attendance.ErrInvalidSiteID),
		errors.Is(err, attendance.ErrInvalidEmployeeID),
		errors.Is(err, attendance.ErrInvalidDate),
		errors.Is(err, business.ErrInvalidID),
		errors.Is(err, business.ErrInvalidName),
		errors.Is(err, business.ErrInvalidCode),
		errors.Is(err, business.ErrInvalidStatus),
		errors.Is(err, business.ErrInvalidSiteName),
		errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidSiteID),
		errors.Is(err, employee.ErrInvalidEmployeeCode),
		errors.Is(err, employee.ErrInvalidName),
		errors.Is(err, employee.ErrInvalidStatus):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, business.ErrCodeAlreadyExists),
		errors.Is(err, business.ErrSiteNameAlreadyExists),
		errors.Is(err, employee.ErrEmployeeCodeAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, attendance.ErrEmployeeNotFound),
		errors.Is(err, attendance.ErrHoursNotFound),
		errors.Is(err, business.ErrBusinessNotFound),
		errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, employee.ErrSiteNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
