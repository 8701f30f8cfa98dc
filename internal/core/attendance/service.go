package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/workcard-admin/internal/core/calendar"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	dateLayout    = "2006-01-02"
	maxDailyHours = 24
)

// ErrCorruptData は保存済みデータが整合性チェックに失敗したことを示します。
// 元のエラー (ErrInvalidEntryDay など) と併せてラップされます。
var ErrCorruptData = errors.New("attendance: stored data failed integrity check")

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

// UseCase は勤怠ユースケースの公開インターフェースです。
type UseCase interface {
	GetMonthlyMatrix(ctx context.Context, in GetMonthlyMatrixInput) (*Matrix, error)
	RecordHours(ctx context.Context, in RecordHoursInput) (*HoursRecord, error)
	ClearHours(ctx context.Context, in ClearHoursInput) error
	SetWorkCardStatus(ctx context.Context, in SetWorkCardStatusInput) (*WorkCard, error)
}

// Service は勤怠に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// GetMonthlyMatrixInput は月次マトリクス取得時の入力です。
type GetMonthlyMatrixInput struct {
	SiteID          string
	YearMonth       string
	IncludeInactive bool
}

// RecordHoursInput は勤務時間登録時の入力です。
type RecordHoursInput struct {
	EmployeeID string
	Date       string
	Hours      float64
}

// ClearHoursInput は勤務時間削除時の入力です。
type ClearHoursInput struct {
	EmployeeID string
	Date       string
}

// SetWorkCardStatusInput はワークカードのレビュー結果登録時の入力です。
type SetWorkCardStatusInput struct {
	EmployeeID string
	YearMonth  string
	Status     string
}

// GetMonthlyMatrix は拠点・月の勤怠データを並行に取得し、マトリクスを組み立てます。
// 取得または集計のいずれかが失敗した場合、部分的な結果は返しません。
func (s *Service) GetMonthlyMatrix(ctx context.Context, in GetMonthlyMatrixInput) (*Matrix, error) {
	siteID, err := normalizeUUID(in.SiteID, ErrInvalidSiteID)
	if err != nil {
		return nil, err
	}

	ym, err := calendar.ParseYearMonth(strings.TrimSpace(in.YearMonth))
	if err != nil {
		return nil, err
	}

	var (
		employees []Employee
		entries   []HoursEntry
		statuses  StatusMap
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = s.repo.ListSiteEmployees(gctx, siteID)
		if err != nil {
			return fmt.Errorf("list employees: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		entries, err = s.repo.ListHours(gctx, siteID, ym)
		if err != nil {
			return fmt.Errorf("list hours: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		statuses, err = s.repo.ListStatuses(gctx, siteID, ym)
		if err != nil {
			return fmt.Errorf("list statuses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matrix, err := BuildMatrix(employees, entries, statuses, ym, in.IncludeInactive)
	if err != nil {
		if errors.Is(err, ErrInvalidEntryDay) || errors.Is(err, ErrInvalidHours) {
			zerolog.Ctx(ctx).Warn().
				Err(err).
				Str("site_id", siteID).
				Str("year_month", ym.String()).
				Msg("attendance data failed integrity check")
			return nil, fmt.Errorf("%w: %w", ErrCorruptData, err)
		}
		return nil, err
	}

	return matrix, nil
}

// RecordHours は社員の 1 日分の勤務時間を登録または上書きします。
func (s *Service) RecordHours(ctx context.Context, in RecordHoursInput) (*HoursRecord, error) {
	employeeID, err := normalizeUUID(in.EmployeeID, ErrInvalidEmployeeID)
	if err != nil {
		return nil, err
	}

	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}

	if err := ValidateHours(in.Hours); err != nil {
		return nil, err
	}
	if in.Hours > maxDailyHours {
		return nil, fmt.Errorf("%w: %v exceeds %d hours per day", ErrInvalidHours, in.Hours, maxDailyHours)
	}

	var saved *HoursRecord
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.UpsertHours(txCtx, &HoursRecord{
			EmployeeID: employeeID,
			Date:       date,
			Hours:      in.Hours,
			UpdatedAt:  s.clock.Now(),
		})
		if err != nil {
			return err
		}
		saved = result
		return nil
	}); err != nil {
		return nil, err
	}

	return saved, nil
}

// ClearHours は勤務時間を削除し、その日を未入力に戻します。
func (s *Service) ClearHours(ctx context.Context, in ClearHoursInput) error {
	employeeID, err := normalizeUUID(in.EmployeeID, ErrInvalidEmployeeID)
	if err != nil {
		return err
	}

	date, err := parseDate(in.Date)
	if err != nil {
		return err
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.DeleteHours(txCtx, employeeID, date)
	})
}

// SetWorkCardStatus はワークカードのレビュー結果を保存します。
func (s *Service) SetWorkCardStatus(ctx context.Context, in SetWorkCardStatusInput) (*WorkCard, error) {
	employeeID, err := normalizeUUID(in.EmployeeID, ErrInvalidEmployeeID)
	if err != nil {
		return nil, err
	}

	ym, err := calendar.ParseYearMonth(strings.TrimSpace(in.YearMonth))
	if err != nil {
		return nil, err
	}

	status, err := ParseReviewStatus(in.Status)
	if err != nil {
		return nil, err
	}

	var saved *WorkCard
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.UpsertWorkCard(txCtx, &WorkCard{
			EmployeeID: employeeID,
			YearMonth:  ym,
			Status:     status,
			UpdatedAt:  s.clock.Now(),
		})
		if err != nil {
			return err
		}
		saved = result
		return nil
	}); err != nil {
		return nil, err
	}

	return saved, nil
}

func normalizeUUID(raw string, invalid error) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", invalid
	}
	return id.String(), nil
}

func parseDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	t, err := time.ParseInLocation(dateLayout, trimmed, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: expected YYYY-MM-DD, got %q", ErrInvalidDate, trimmed)
	}
	if err := calendar.CurrentMonth(t).Validate(); err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, trimmed)
	}
	return t, nil
}
