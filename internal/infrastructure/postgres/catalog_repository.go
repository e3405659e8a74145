package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

const catalogColumns = `id, customer_name, title, public_token, expires_at, global_discount, visible_fields, items,
	status, created_by, created_at, updated_at`

// CatalogRepo persistencia de catálogos compartidos. Campos visibles e ítems viajan como JSONB.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

func scanCatalog(row pgx.Row) (*entity.Catalog, error) {
	var c entity.Catalog
	var fields, items []byte
	if err := row.Scan(&c.ID, &c.CustomerName, &c.Title, &c.PublicToken, &c.ExpiresAt, &c.GlobalDiscount,
		&fields, &items, &c.Status, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(fields, &c.VisibleFields); err != nil {
		return nil, fmt.Errorf("decode visible_fields: %w", err)
	}
	if err := json.Unmarshal(items, &c.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return &c, nil
}

func encodeCatalog(c *entity.Catalog) (fields, items []byte, err error) {
	fields, err = json.Marshal(c.VisibleFields)
	if err != nil {
		return nil, nil, fmt.Errorf("encode visible_fields: %w", err)
	}
	list := c.Items
	if list == nil {
		list = []entity.CatalogItem{}
	}
	items, err = json.Marshal(list)
	if err != nil {
		return nil, nil, fmt.Errorf("encode items: %w", err)
	}
	return fields, items, nil
}

// Create inserta el catálogo. El token público debe venir generado.
func (r *CatalogRepo) Create(ctx context.Context, c *entity.Catalog) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	fields, items, err := encodeCatalog(c)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO catalogs (id, customer_name, title, public_token, expires_at, global_discount, visible_fields,
			items, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.CustomerName, c.Title, c.PublicToken, c.ExpiresAt, c.GlobalDiscount, fields,
		items, c.Status, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert catalog: %w", err)
	}
	return nil
}

func (r *CatalogRepo) getOne(ctx context.Context, where string, arg any) (*entity.Catalog, error) {
	c, err := scanCatalog(r.q.QueryRow(ctx, `SELECT `+catalogColumns+` FROM catalogs WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalog: %w", err)
	}
	return c, nil
}

// GetByID incluye eliminados; el caso de uso decide qué mostrar.
func (r *CatalogRepo) GetByID(ctx context.Context, id string) (*entity.Catalog, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.getOne(ctx, "id = $1", id)
}

// GetByToken busca por el token del enlace público.
func (r *CatalogRepo) GetByToken(ctx context.Context, token string) (*entity.Catalog, error) {
	return r.getOne(ctx, "public_token = $1", token)
}

// Update reescribe el catálogo completo.
func (r *CatalogRepo) Update(ctx context.Context, c *entity.Catalog) error {
	fields, items, err := encodeCatalog(c)
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE catalogs SET customer_name = $2, title = $3, expires_at = $4, global_discount = $5,
			visible_fields = $6, items = $7, status = $8, updated_at = $9
		WHERE id = $1`,
		c.ID, c.CustomerName, c.Title, c.ExpiresAt, c.GlobalDiscount, fields, items, c.Status, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update catalog: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List catálogos más recientes primero. Sin IncludeExpired solo devuelve los vigentes.
func (r *CatalogRepo) List(ctx context.Context, f repository.CatalogFilter) ([]*entity.Catalog, int, error) {
	where := sq.And{sq.NotEq{"status": entity.CatalogStatusDeleted}}
	if !f.IncludeExpired {
		where = append(where, sq.Eq{"status": entity.CatalogStatusActive}, sq.Gt{"expires_at": f.Now})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("catalogs").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count catalogs: %w", err)
	}

	qb := psql.Select(catalogColumns).From("catalogs").Where(where).OrderBy("created_at DESC")
	if f.Limit > 0 {
		qb = qb.Limit(uint64(f.Limit)).Offset(uint64(max(f.Offset, 0)))
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build catalogs query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list catalogs: %w", err)
	}
	defer rows.Close()
	var list []*entity.Catalog
	for rows.Next() {
		c, err := scanCatalog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan catalog: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}
