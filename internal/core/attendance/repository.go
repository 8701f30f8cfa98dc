package attendance

import (
	"context"
	"time"

	"github.com/ogurasousui/workcard-admin/internal/core/calendar"
)

// Repository は勤怠データの取得・保存の抽象です。
type Repository interface {
	ListSiteEmployees(ctx context.Context, siteID string) ([]Employee, error)
	ListHours(ctx context.Context, siteID string, ym calendar.YearMonth) ([]HoursEntry, error)
	ListStatuses(ctx context.Context, siteID string, ym calendar.YearMonth) (StatusMap, error)
	UpsertHours(ctx context.Context, record *HoursRecord) (*HoursRecord, error)
	DeleteHours(ctx context.Context, employeeID string, date time.Time) error
	UpsertWorkCard(ctx context.Context, card *WorkCard) (*WorkCard, error)
}

// HoursRecord は 1 日分の勤務時間の保存単位です。
type HoursRecord struct {
	EmployeeID string
	Date       time.Time
	Hours      float64
	UpdatedAt  time.Time
}

// WorkCard は社員・月ごとのワークカードのレビュー状態です。
type WorkCard struct {
	EmployeeID string
	YearMonth  calendar.YearMonth
	Status     Category
	UpdatedAt  time.Time
}
