package business

import "time"

// Status は事業者の状態を表します。
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Business は事業者エンティティです。
type Business struct {
	ID        string
	Name      string
	Code      string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Site は事業者に属する拠点です。勤怠マトリクスは拠点単位で集計されます。
type Site struct {
	ID         string
	BusinessID string
	Name       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
