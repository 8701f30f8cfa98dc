package business

import "context"

// Repository は事業者・拠点の永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, b *Business) (*Business, error)
	Update(ctx context.Context, b *Business) (*Business, error)
	FindByID(ctx context.Context, id string) (*Business, error)
	FindByCode(ctx context.Context, code string) (*Business, error)
	List(ctx context.Context, filter ListBusinessesFilter) ([]*Business, string, error)
	CreateSite(ctx context.Context, site *Site) (*Site, error)
	ListSites(ctx context.Context, businessID string) ([]*Site, error)
}

// ListBusinessesFilter は一覧取得時の検索条件です。
type ListBusinessesFilter struct {
	Status *Status
	Limit  int
	Offset int
}
