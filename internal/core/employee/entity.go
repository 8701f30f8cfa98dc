package employee

import "time"

// Status は社員の在籍状態を表します。
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Employee は社員エンティティです。
type Employee struct {
	ID           string
	SiteID       string
	EmployeeCode string
	Name         string
	Status       Status
	HiredAt      *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Active は在籍中かどうかを返します。
func (e *Employee) Active() bool {
	return e.Status == StatusActive
}
