package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

var supplierColumns = []string{
	"id", "name", "tax_id", "contact", "phone", "email", "address", "payment_terms", "notes", "active", "created_at", "updated_at",
}

// SupplierRepo persistencia de proveedores.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	var taxID *string
	if err := row.Scan(&s.ID, &s.Name, &taxID, &s.Contact, &s.Phone, &s.Email, &s.Address,
		&s.PaymentTerms, &s.Notes, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.TaxID = derefString(taxID)
	return &s, nil
}

// Create persiste un proveedor. CUIT duplicado -> domain.ErrDuplicate.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO suppliers (id, name, tax_id, contact, phone, email, address, payment_terms, notes, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, s.Name, nullIfEmpty(s.TaxID), s.Contact, s.Phone, s.Email, s.Address,
		s.PaymentTerms, s.Notes, s.Active, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	query, args, _ := psql.Select(supplierColumns...).From("suppliers").Where(sq.Eq{"id": id}).ToSql()
	s, err := scanSupplier(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

// Update actualiza todos los datos del proveedor.
func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE suppliers SET name = $2, tax_id = $3, contact = $4, phone = $5, email = $6, address = $7,
			payment_terms = $8, notes = $9, active = $10, updated_at = $11
		WHERE id = $1`,
		s.ID, s.Name, nullIfEmpty(s.TaxID), s.Contact, s.Phone, s.Email, s.Address,
		s.PaymentTerms, s.Notes, s.Active, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update supplier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista proveedores por nombre con búsqueda y filtro de activos.
func (r *SupplierRepo) List(ctx context.Context, f repository.SupplierFilter) ([]*entity.Supplier, int, error) {
	where := sq.And{}
	if f.Query != "" {
		p := likePattern(f.Query)
		where = append(where, sq.Or{
			sq.Expr("name ILIKE ?", p),
			sq.Expr("tax_id ILIKE ?", p),
			sq.Expr("contact ILIKE ?", p),
		})
	}
	if f.Active != nil {
		where = append(where, sq.Eq{"active": *f.Active})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("suppliers").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count suppliers: %w", err)
	}

	b := psql.Select(supplierColumns...).From("suppliers").Where(where).OrderBy("name ASC")
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit)).Offset(uint64(max(f.Offset, 0)))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build suppliers query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}
