package employee

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/workcard-admin/internal/core/paging"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

var employeeCodePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error)
	DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error
}

// Service は社員に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
	newID func() string
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx, newID: uuid.NewString}
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	SiteID       string
	EmployeeCode string
	Name         string
	Status       *Status
	HiredAt      *time.Time
}

// UpdateEmployeeInput は社員更新時の入力です。HiredAtSet が true の場合のみ HiredAt を反映します。
type UpdateEmployeeInput struct {
	ID           string
	SiteID       *string
	EmployeeCode *string
	Name         *string
	Status       *Status
	HiredAt      *time.Time
	HiredAtSet   bool
}

// DeleteEmployeeInput は社員削除時の入力です。
type DeleteEmployeeInput struct {
	ID string
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	ID string
}

// ListEmployeesInput は一覧取得時の入力です。
type ListEmployeesInput struct {
	SiteID    string
	PageSize  int
	PageToken string
	Status    *Status
}

// ListEmployeesResult は一覧取得結果を表します。
type ListEmployeesResult struct {
	Employees     []*Employee
	NextPageToken string
}

// CreateEmployee は新しい社員を作成します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	siteID, err := normalizeUUID(in.SiteID, ErrInvalidSiteID)
	if err != nil {
		return nil, err
	}
	code, err := normalizeEmployeeCode(in.EmployeeCode)
	if err != nil {
		return nil, err
	}
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	status := StatusActive
	if in.Status != nil {
		if !isValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		status = *in.Status
	}

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureCodeAvailable(txCtx, siteID, code); err != nil {
			return err
		}

		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Employee{
			ID:           s.newID(),
			SiteID:       siteID,
			EmployeeCode: code,
			Name:         name,
			Status:       status,
			HiredAt:      normalizeDate(in.HiredAt),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateEmployee は社員情報を更新します。拠点を移動する場合もコードの重複を確認します。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error) {
	id, err := normalizeUUID(in.ID, ErrInvalidID)
	if err != nil {
		return nil, err
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		siteID, code := existing.SiteID, existing.EmployeeCode
		if in.SiteID != nil {
			if siteID, err = normalizeUUID(*in.SiteID, ErrInvalidSiteID); err != nil {
				return err
			}
		}
		if in.EmployeeCode != nil {
			if code, err = normalizeEmployeeCode(*in.EmployeeCode); err != nil {
				return err
			}
		}
		if siteID != existing.SiteID || code != existing.EmployeeCode {
			if err := s.ensureCodeAvailable(txCtx, siteID, code); err != nil {
				return err
			}
			existing.SiteID = siteID
			existing.EmployeeCode = code
		}

		if in.Name != nil {
			name, err := normalizeName(*in.Name)
			if err != nil {
				return err
			}
			existing.Name = name
		}

		if in.Status != nil {
			if !isValidStatus(*in.Status) {
				return ErrInvalidStatus
			}
			existing.Status = *in.Status
		}

		if in.HiredAtSet {
			existing.HiredAt = normalizeDate(in.HiredAt)
		}

		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteEmployee は社員を削除します。
func (s *Service) DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error {
	id, err := normalizeUUID(in.ID, ErrInvalidID)
	if err != nil {
		return err
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
}

// GetEmployee は社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	id, err := normalizeUUID(in.ID, ErrInvalidID)
	if err != nil {
		return nil, err
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListEmployees は拠点の社員一覧を取得します。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error) {
	siteID, err := normalizeUUID(in.SiteID, ErrInvalidSiteID)
	if err != nil {
		return nil, err
	}

	page, err := paging.Parse(in.PageSize, in.PageToken)
	if err != nil {
		return nil, err
	}

	if in.Status != nil && !isValidStatus(*in.Status) {
		return nil, ErrInvalidStatus
	}

	result := &ListEmployeesResult{}
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		employees, next, err := s.repo.List(txCtx, ListEmployeesFilter{
			SiteID: siteID,
			Status: in.Status,
			Limit:  page.Limit,
			Offset: page.Offset,
		})
		if err != nil {
			return err
		}
		result.Employees = employees
		result.NextPageToken = next
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) ensureCodeAvailable(ctx context.Context, siteID, code string) error {
	emp, err := s.repo.FindBySiteAndCode(ctx, siteID, code)
	if err != nil && !errors.Is(err, ErrEmployeeNotFound) {
		return err
	}
	if emp != nil {
		return ErrEmployeeCodeAlreadyExists
	}
	return nil
}

func normalizeUUID(raw string, invalid error) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %q", invalid, raw)
	}
	return id.String(), nil
}

func normalizeEmployeeCode(raw string) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if !employeeCodePattern.MatchString(lower) {
		return "", ErrInvalidEmployeeCode
	}
	return lower, nil
}

func normalizeName(raw string) (string, error) {
	trimmed := strings.Join(strings.Fields(raw), " ")
	if trimmed == "" {
		return "", ErrInvalidName
	}
	return trimmed, nil
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	normalized := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &normalized
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusActive, StatusInactive:
		return true
	default:
		return false
	}
}
