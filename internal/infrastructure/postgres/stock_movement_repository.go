package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento de stock.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (id, product_id, type, quantity, previous_stock, resulting_stock,
			unit_cost, total_cost, user_id, reference_id, reference_type, reason, lot, expires_on, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		m.ID, m.ProductID, m.Type, m.Quantity, m.PreviousStock, m.ResultingStock,
		m.UnitCost, m.TotalCost, m.UserID, m.ReferenceID, m.ReferenceType, m.Reason, m.Lot,
		dateOnly(m.ExpiresOn), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// List lista movimientos con filtros opcionales, más reciente primero.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	where := sq.And{}
	if f.ProductID != "" {
		where = append(where, sq.Eq{"product_id": f.ProductID})
	}
	if f.Type != "" {
		where = append(where, sq.Eq{"type": f.Type})
	}
	if f.From != nil {
		where = append(where, sq.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		where = append(where, sq.LtOrEq{"created_at": *f.To})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("stock_movements").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query, args, err := psql.Select(
		"id", "product_id", "type", "quantity", "previous_stock", "resulting_stock",
		"unit_cost", "total_cost", "user_id", "reference_id", "reference_type", "reason", "lot",
		"expires_on", "created_at",
	).From("stock_movements").Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(f.Limit)).Offset(uint64(max(f.Offset, 0))).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build movements query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.PreviousStock, &m.ResultingStock,
			&m.UnitCost, &m.TotalCost, &m.UserID, &m.ReferenceID, &m.ReferenceType, &m.Reason, &m.Lot,
			&m.ExpiresOn, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, total, rows.Err()
}

// CountByProduct cantidad de movimientos registrados para un producto.
func (r *StockMovementRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements WHERE product_id = $1`, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements by product: %w", err)
	}
	return n, nil
}
