package business

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

var codePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// UseCase は事業者ユースケースの公開インターフェースです。
type UseCase interface {
	CreateBusiness(ctx context.Context, in CreateBusinessInput) (*Business, error)
	GetBusiness(ctx context.Context, id string) (*Business, error)
	ListBusinesses(ctx context.Context, in ListBusinessesInput) (*ListBusinessesResult, error)
	UpdateBusiness(ctx context.Context, in UpdateBusinessInput) (*Business, error)
	CreateSite(ctx context.Context, in CreateSiteInput) (*Site, error)
	ListSites(ctx context.Context, businessID string) ([]*Site, error)
}

// Service は事業者と拠点に関するユースケースをまとめます。
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

// CreateBusinessInput は事業者作成時の入力です。
type CreateBusinessInput struct {
	Name string
	Code string
}

// UpdateBusinessInput は事業者更新時の入力です。nil のフィールドは変更しません。
type UpdateBusinessInput struct {
	ID     string
	Name   *string
	Code   *string
	Status *Status
}

// ListBusinessesInput は一覧取得時の入力です。
type ListBusinessesInput struct {
	PageSize  int
	PageToken string
	Status    *Status
}

// ListBusinessesResult は一覧取得結果です。
type ListBusinessesResult struct {
	Businesses    []*Business
	NextPageToken string
}

// CreateSiteInput は拠点作成時の入力です。
type CreateSiteInput struct {
	BusinessID string
	Name       string
}

// CreateBusiness は事業者を作成します。
func (s *Service) CreateBusiness(ctx context.Context, in CreateBusinessInput) (*Business, error) {
	name, err := normalizeText(in.Name, ErrInvalidName)
	if err != nil {
		return nil, err
	}
	code, err := normalizeCode(in.Code)
	if err != nil {
		return nil, err
	}

	var created *Business
	err = s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureCodeAvailable(txCtx, code); err != nil {
			return err
		}

		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Business{
			ID:        s.newID(),
			Name:      name,
			Code:      code,
			Status:    StatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		created = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetBusiness は ID で事業者を取得します。
func (s *Service) GetBusiness(ctx context.Context, id string) (*Business, error) {
	normalized, err := normalizeID(id)
	if err != nil {
		return nil, err
	}

	var found *Business
	err = s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByID(txCtx, normalized)
		if err != nil {
			return err
		}
		found = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// ListBusinesses は事業者の一覧を取得します。
func (s *Service) ListBusinesses(ctx context.Context, in ListBusinessesInput) (*ListBusinessesResult, error) {
	page, err := paging.Parse(in.PageSize, in.PageToken)
	if err != nil {
		return nil, err
	}
	if in.Status != nil && !isValidStatus(*in.Status) {
		return nil, ErrInvalidStatus
	}

	result := &ListBusinessesResult{}
	err = s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		items, next, err := s.repo.List(txCtx, ListBusinessesFilter{
			Status: in.Status,
			Limit:  page.Limit,
			Offset: page.Offset,
		})
		if err != nil {
			return err
		}
		result.Businesses = items
		result.NextPageToken = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateBusiness は事業者情報を更新します。
func (s *Service) UpdateBusiness(ctx context.Context, in UpdateBusinessInput) (*Business, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	var updated *Business
	err = s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		if in.Name != nil {
			name, err := normalizeText(*in.Name, ErrInvalidName)
			if err != nil {
				return err
			}
			existing.Name = name
		}

		if in.Code != nil {
			code, err := normalizeCode(*in.Code)
			if err != nil {
				return err
			}
			if code != existing.Code {
				if err := s.ensureCodeAvailable(txCtx, code); err != nil {
					return err
				}
				existing.Code = code
			}
		}

		if in.Status != nil {
			if !isValidStatus(*in.Status) {
				return ErrInvalidStatus
			}
			existing.Status = *in.Status
		}

		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}
		updated = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CreateSite は事業者に拠点を追加します。
func (s *Service) CreateSite(ctx context.Context, in CreateSiteInput) (*Site, error) {
	businessID, err := normalizeID(in.BusinessID)
	if err != nil {
		return nil, err
	}
	name, err := normalizeText(in.Name, ErrInvalidSiteName)
	if err != nil {
		return nil, err
	}

	var created *Site
	err = s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.FindByID(txCtx, businessID); err != nil {
			return err
		}

		now := s.clock.Now()
		result, err := s.repo.CreateSite(txCtx, &Site{
			ID:         s.newID(),
			BusinessID: businessID,
			Name:       name,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return err
		}
		created = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListSites は事業者の拠点を名前順で返します。
func (s *Service) ListSites(ctx context.Context, businessID string) ([]*Site, error) {
	id, err := normalizeID(businessID)
	if err != nil {
		return nil, err
	}

	var sites []*Site
	err = s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.FindByID(txCtx, id); err != nil {
			return err
		}
		result, err := s.repo.ListSites(txCtx, id)
		if err != nil {
			return err
		}
		sites = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sites, nil
}

func (s *Service) ensureCodeAvailable(ctx context.Context, code string) error {
	existing, err := s.repo.FindByCode(ctx, code)
	switch {
	case errors.Is(err, ErrBusinessNotFound):
		return nil
	case err != nil:
		return err
	case existing != nil:
		return ErrCodeAlreadyExists
	}
	return nil
}

func normalizeID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("id: %w", ErrInvalidID)
	}
	return id.String(), nil
}

func normalizeText(raw string, invalid error) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", invalid
	}
	return trimmed, nil
}

func normalizeCode(raw string) (string, error) {
	code := strings.ToLower(strings.TrimSpace(raw))
	if !codePattern.MatchString(code) {
		return "", ErrInvalidCode
	}
	return code, nil
}

func isValidStatus(status Status) bool {
	return status == StatusActive || status == StatusInactive
}
