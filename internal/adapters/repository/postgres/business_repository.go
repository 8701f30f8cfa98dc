package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/workcard-admin/internal/core/business"
	"github.com/ogurasousui/workcard-admin/internal/core/paging"
	pgdb "github.com/ogurasousui/workcard-admin/internal/platform/db/postgres"
)

const businessColumns = `id, name, code, status, created_at, updated_at`

// BusinessRepository は事業者と拠点の PostgreSQL 実装です。
type BusinessRepository struct {
	pool pgdb.Queryer
}

// NewBusinessRepository は BusinessRepository を生成します。
func NewBusinessRepository(pool pgdb.Queryer) *BusinessRepository {
	return &BusinessRepository{pool: pool}
}

// Create は事業者を登録します。
func (r *BusinessRepository) Create(ctx context.Context, b *business.Business) (*business.Business, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO businesses (id, name, code, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+businessColumns,
		b.ID, b.Name, b.Code, string(b.Status), b.CreatedAt, b.UpdatedAt,
	)

	created, err := scanBusiness(row)
	if err != nil {
		return nil, translateBusinessPgError(err)
	}
	return created, nil
}

// Update は事業者を更新します。
func (r *BusinessRepository) Update(ctx context.Context, b *business.Business) (*business.Business, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE businesses
           SET name = $1,
               code = $2,
               status = $3,
               updated_at = $4
         WHERE id = $5
        RETURNING `+businessColumns,
		b.Name, b.Code, string(b.Status), b.UpdatedAt, b.ID,
	)

	updated, err := scanBusiness(row)
	if err != nil {
		return nil, translateBusinessPgError(err)
	}
	return updated, nil
}

// FindByID は ID で事業者を取得します。
func (r *BusinessRepository) FindByID(ctx context.Context, id string) (*business.Business, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+businessColumns+` FROM businesses WHERE id = $1`, id)

	found, err := scanBusiness(row)
	if err != nil {
		return nil, translateBusinessPgError(err)
	}
	return found, nil
}

// FindByCode は事業者コードで事業者を取得します。
func (r *BusinessRepository) FindByCode(ctx context.Context, code string) (*business.Business, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+businessColumns+` FROM businesses WHERE code = $1`, code)

	found, err := scanBusiness(row)
	if err != nil {
		return nil, translateBusinessPgError(err)
	}
	return found, nil
}

// List は事業者を名前順で取得します。
func (r *BusinessRepository) List(ctx context.Context, filter business.ListBusinessesFilter) ([]*business.Business, string, error) {
	if filter.Limit <= 0 {
		return nil, "", business.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", business.ErrInvalidPageToken
	}

	args := make([]any, 0, 3)
	where := ""
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = " WHERE status = $1"
	}
	limitPlaceholder := "$" + strconv.Itoa(len(args)+1)
	offsetPlaceholder := "$" + strconv.Itoa(len(args)+2)
	args = append(args, filter.Limit+1, filter.Offset)

	query := `SELECT ` + businessColumns + ` FROM businesses` + where +
		` ORDER BY name, id LIMIT ` + limitPlaceholder + ` OFFSET ` + offsetPlaceholder

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateBusinessPgError(err)
	}
	defer rows.Close()

	items := make([]*business.Business, 0, filter.Limit+1)
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, "", translateBusinessPgError(err)
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, "", translateBusinessPgError(err)
	}

	items, next := paging.Trim(items, paging.Page{Limit: filter.Limit, Offset: filter.Offset})
	return items, next, nil
}

// CreateSite は事業者に拠点を追加します。
func (r *BusinessRepository) CreateSite(ctx context.Context, site *business.Site) (*business.Site, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO sites (id, business_id, name, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, business_id, name, created_at, updated_at
    `, site.ID, site.BusinessID, site.Name, site.CreatedAt, site.UpdatedAt)

	created, err := scanSite(row)
	if err != nil {
		return nil, translateBusinessPgError(err)
	}
	return created, nil
}

// ListSites は事業者の拠点を名前順で返します。
func (r *BusinessRepository) ListSites(ctx context.Context, businessID string) ([]*business.Site, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, business_id, name, created_at, updated_at
          FROM sites
         WHERE business_id = $1
         ORDER BY name, id
    `, businessID)
	if err != nil {
		return nil, translateBusinessPgError(err)
	}
	defer rows.Close()

	var sites []*business.Site
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	if err := rows.Err(); err != nil {
		return nil, translateBusinessPgError(err)
	}
	return sites, nil
}

func scanBusiness(row pgx.Row) (*business.Business, error) {
	var (
		b      business.Business
		status string
	)
	if err := row.Scan(&b.ID, &b.Name, &b.Code, &status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Status = business.Status(status)
	return &b, nil
}

func scanSite(row pgx.Row) (*business.Site, error) {
	var (
		site      business.Site
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&site.ID, &site.BusinessID, &site.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	site.CreatedAt = createdAt.UTC()
	site.UpdatedAt = updatedAt.UTC()
	return &site, nil
}

func translateBusinessPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return business.ErrBusinessNotFound
	}
	if pgErr, ok := pgError(err); ok {
		switch pgErr.Code {
		case uniqueViolationCode:
			if pgErr.ConstraintName == "sites_business_id_name_key" {
				return business.ErrSiteNameAlreadyExists
			}
			return business.ErrCodeAlreadyExists
		case foreignKeyViolationCode:
			return business.ErrBusinessNotFound
		case checkViolationCode:
			return business.ErrInvalidStatus
		}
	}
	return err
}
