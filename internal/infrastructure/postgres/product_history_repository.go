package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

var _ repository.ProductHistoryRepository = (*ProductHistoryRepo)(nil)

// ProductHistoryRepo auditoría de cambios de productos sobre PostgreSQL.
type ProductHistoryRepo struct {
	q Querier
}

// NewProductHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductHistoryRepository(q Querier) *ProductHistoryRepo {
	return &ProductHistoryRepo{q: q}
}

// Create persiste una entrada del historial.
func (r *ProductHistoryRepo) Create(ctx context.Context, h *entity.ProductHistory) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_history (id, product_id, field, old_value, new_value, reason, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		h.ID, h.ProductID, h.Field, h.OldValue, h.NewValue, h.Reason, h.UserID, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product history: %w", err)
	}
	return nil
}

// ListByProduct historial de un producto, más reciente primero.
func (r *ProductHistoryRepo) ListByProduct(ctx context.Context, productID string, limit int) ([]*entity.ProductHistory, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, field, old_value, new_value, reason, user_id, created_at
		FROM product_history WHERE product_id = $1
		ORDER BY created_at DESC LIMIT $2`, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("list product history: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductHistory
	for rows.Next() {
		var h entity.ProductHistory
		if err := rows.Scan(&h.ID, &h.ProductID, &h.Field, &h.OldValue, &h.NewValue, &h.Reason, &h.UserID, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product history: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}
