package business

import (
	"errors"

	"github.com/ogurasousui/workcard-admin/internal/core/paging"
)

var (
	// ErrBusinessNotFound は事業者が存在しない場合に返却されます。
	ErrBusinessNotFound = errors.New("business: not found")
	// ErrCodeAlreadyExists は事業者コード重複時に返却されます。
	ErrCodeAlreadyExists = errors.New("business: code already exists")
	ErrInvalidID         = errors.New("business: invalid id")
	ErrInvalidName       = errors.New("business: invalid name")
	ErrInvalidCode       = errors.New("business: invalid code")
	ErrInvalidStatus     = errors.New("business: invalid status")
	ErrInvalidSiteName   = errors.New("business: invalid site name")
	// ErrSiteNameAlreadyExists は同じ事業者内で拠点名が重複した場合に返却されます。
	ErrSiteNameAlreadyExists = errors.New("business: site name already exists")

	ErrInvalidPageSize  = paging.ErrInvalidPageSize
	ErrInvalidPageToken = paging.ErrInvalidPageToken
)
