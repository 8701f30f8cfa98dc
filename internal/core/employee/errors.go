package employee

import (
	"errors"

	"github.com/ogurasousui/workcard-admin/internal/core/paging"
)

var (
	ErrInvalidID                 = errors.New("employee: invalid id")
	ErrInvalidSiteID             = errors.New("employee: invalid site id")
	ErrInvalidEmployeeCode       = errors.New("employee: invalid employee code")
	ErrInvalidName               = errors.New("employee: invalid name")
	ErrInvalidStatus             = errors.New("employee: invalid status")
	ErrEmployeeNotFound          = errors.New("employee: not found")
	ErrSiteNotFound              = errors.New("employee: site not found")
	ErrEmployeeCodeAlreadyExists = errors.New("employee: employee code already exists")

	ErrInvalidPageSize  = paging.ErrInvalidPageSize
	ErrInvalidPageToken = paging.ErrInvalidPageToken
)
