package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleHeaderColumns = `s.id, s.number, s.customer_name, s.sale_type, s.payment_method, s.subtotal,
	s.global_discount_pct, s.global_discount, s.global_discount_reason, s.total, s.notes, s.created_by, s.created_at`

// SaleRepo persistencia de tickets de venta (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSaleHeader(row pgx.Row, s *entity.Sale, extra ...any) error {
	dest := []any{
		&s.ID, &s.Number, &s.CustomerName, &s.SaleType, &s.PaymentMethod, &s.Subtotal,
		&s.GlobalDiscountPct, &s.GlobalDiscount, &s.GlobalDiscountReason, &s.Total, &s.Notes, &s.CreatedBy, &s.CreatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

// Create inserta cabecera e ítems; Number lo asigna la secuencia.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO sales (id, customer_name, sale_type, payment_method, subtotal, global_discount_pct,
			global_discount, global_discount_reason, total, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING number`,
		s.ID, s.CustomerName, s.SaleType, s.PaymentMethod, s.Subtotal, s.GlobalDiscountPct,
		s.GlobalDiscount, s.GlobalDiscountReason, s.Total, s.Notes, s.CreatedBy, s.CreatedAt,
	).Scan(&s.Number)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	for i := range s.Items {
		it := &s.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.SaleID = s.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, product_code, product_name, quantity, price_type,
				list_price, unit_price, unit_cost, line_discount_pct, line_discount, subtotal, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			it.ID, it.SaleID, it.ProductID, it.ProductCode, it.ProductName, it.Quantity, it.PriceType,
			it.ListPrice, it.UnitPrice, it.UnitCost, it.LineDiscountPct, it.LineDiscount, it.Subtotal, i,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el ticket con sus ítems.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var s entity.Sale
	err := scanSaleHeader(r.q.QueryRow(ctx, `SELECT `+saleHeaderColumns+` FROM sales s WHERE s.id = $1`, id), &s)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	items, err := r.itemsFor(ctx, []string{s.ID})
	if err != nil {
		return nil, err
	}
	s.Items = items[s.ID]
	return &s, nil
}

func (r *SaleRepo) itemsFor(ctx context.Context, saleIDs []string) (map[string][]entity.SaleItem, error) {
	out := make(map[string][]entity.SaleItem, len(saleIDs))
	if len(saleIDs) == 0 {
		return out, nil
	}
	query, args, err := psql.Select(
		"id", "sale_id", "product_id", "product_code", "product_name", "quantity", "price_type",
		"list_price", "unit_price", "unit_cost", "line_discount_pct", "line_discount", "subtotal",
	).From("sale_items").Where(sq.Eq{"sale_id": saleIDs}).OrderBy("sale_id", "position").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sale items query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductCode, &it.ProductName, &it.Quantity,
			&it.PriceType, &it.ListPrice, &it.UnitPrice, &it.UnitCost, &it.LineDiscountPct, &it.LineDiscount,
			&it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		out[it.SaleID] = append(out[it.SaleID], it)
	}
	return out, rows.Err()
}

func saleWhere(f repository.SaleFilter) sq.And {
	where := sq.And{}
	if f.SaleType != "" {
		where = append(where, sq.Eq{"s.sale_type": f.SaleType})
	}
	if f.Query != "" {
		where = append(where, sq.Expr("s.customer_name ILIKE ?", likePattern(f.Query)))
	}
	if f.From != nil {
		where = append(where, sq.GtOrEq{"s.created_at": *f.From})
	}
	if f.To != nil {
		where = append(where, sq.LtOrEq{"s.created_at": *f.To})
	}
	return where
}

// List lista tickets (sin ítems) con su cantidad de líneas, más reciente primero.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]repository.SaleSummary, int, error) {
	where := saleWhere(f)
	countSQL, countArgs, err := psql.Select("COUNT(*)").From("sales s").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	query, args, err := psql.Select(saleHeaderColumns, "(SELECT COUNT(*) FROM sale_items i WHERE i.sale_id = s.id)").
		From("sales s").Where(where).
		OrderBy("s.created_at DESC").
		Limit(uint64(f.Limit)).Offset(uint64(max(f.Offset, 0))).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build sales query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []repository.SaleSummary
	for rows.Next() {
		var sum repository.SaleSummary
		if err := scanSaleHeader(rows, &sum.Sale, &sum.ItemCount); err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, sum)
	}
	return list, total, rows.Err()
}

// ListSince tickets completos desde la fecha indicada (backup).
func (r *SaleRepo) ListSince(ctx context.Context, from time.Time) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `SELECT `+saleHeaderColumns+` FROM sales s WHERE s.created_at >= $1 ORDER BY s.created_at DESC`, from)
	if err != nil {
		return nil, fmt.Errorf("list sales since: %w", err)
	}
	var list []*entity.Sale
	var ids []string
	for rows.Next() {
		var s entity.Sale
		if err := scanSaleHeader(rows, &s); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
		ids = append(ids, s.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		s.Items = items[s.ID]
	}
	return list, nil
}

// Delete elimina el ticket (los ítems caen por ON DELETE CASCADE).
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Stats totales del período separados por mayorista y minorista.
func (r *SaleRepo) Stats(ctx context.Context, from, to *time.Time) (*repository.SaleStats, error) {
	query, args, err := psql.Select(
		"COUNT(*)",
		"COALESCE(SUM(s.total), 0)",
		"COUNT(*) FILTER (WHERE s.sale_type = 'MAYORISTA')",
		"COALESCE(SUM(s.total) FILTER (WHERE s.sale_type = 'MAYORISTA'), 0)",
		"COUNT(*) FILTER (WHERE s.sale_type = 'MINORISTA')",
		"COALESCE(SUM(s.total) FILTER (WHERE s.sale_type = 'MINORISTA'), 0)",
	).From("sales s").Where(saleWhere(repository.SaleFilter{From: from, To: to})).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sale stats query: %w", err)
	}
	var st repository.SaleStats
	if err := r.q.QueryRow(ctx, query, args...).Scan(
		&st.TotalSales, &st.TotalAmount, &st.WholesaleCount, &st.WholesaleAmount, &st.RetailCount, &st.RetailAmount,
	); err != nil {
		return nil, fmt.Errorf("sale stats: %w", err)
	}
	return &st, nil
}
