package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `p.id, p.supplier_id, COALESCE(s.name, ''), p.date, p.invoice_number, p.document_type, p.cae,
	p.subtotal, p.tax, p.total, p.status, p.notes, p.user_id, p.created_at, p.updated_at`

// PurchaseRepo persistencia de compras a proveedores (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	if err := row.Scan(&p.ID, &p.SupplierID, &p.SupplierName, &p.Date, &p.InvoiceNumber, &p.DocumentType, &p.CAE,
		&p.Subtotal, &p.Tax, &p.Total, &p.Status, &p.Notes, &p.UserID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserta cabecera e ítems.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchases (id, supplier_id, date, invoice_number, document_type, cae, subtotal, tax, total,
			status, notes, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		p.ID, p.SupplierID, dateOnly(&p.Date), p.InvoiceNumber, p.DocumentType, p.CAE, p.Subtotal, p.Tax, p.Total,
		p.Status, p.Notes, p.UserID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Invalid("supplier_id", "proveedor inexistente")
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	for i := range p.Items {
		it := &p.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.PurchaseID = p.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_items (id, purchase_id, product_id, quantity, received_quantity, unit_cost,
				total_cost, lot, expires_on, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			it.ID, it.PurchaseID, it.ProductID, it.Quantity, it.ReceivedQuantity, it.UnitCost,
			it.TotalCost, it.Lot, dateOnly(it.ExpiresOn), i,
		)
		if err != nil {
			return fmt.Errorf("insert purchase item: %w", err)
		}
	}
	return nil
}

func (r *PurchaseRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Purchase, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	query := `SELECT ` + purchaseColumns + ` FROM purchases p LEFT JOIN suppliers s ON s.id = p.supplier_id WHERE p.id = $1`
	if forUpdate {
		query += ` FOR UPDATE OF p`
	}
	p, err := scanPurchase(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	items, err := r.items(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Items = items
	return p, nil
}

func (r *PurchaseRepo) items(ctx context.Context, purchaseID string) ([]entity.PurchaseItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_id, product_id, quantity, received_quantity, unit_cost, total_cost, lot, expires_on
		FROM purchase_items WHERE purchase_id = $1 ORDER BY position`, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()
	var list []entity.PurchaseItem
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.Quantity, &it.ReceivedQuantity,
			&it.UnitCost, &it.TotalCost, &it.Lot, &it.ExpiresOn); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// GetByID obtiene la compra con sus ítems.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate obtiene la compra bloqueando la cabecera. Usar dentro de una tx.
func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.get(ctx, id, true)
}

// UpdateStatus cambia el estado de la compra.
func (r *PurchaseRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE purchases SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update purchase status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateItemReceived registra la cantidad recibida de una línea.
func (r *PurchaseRepo) UpdateItemReceived(ctx context.Context, itemID string, received decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE purchase_items SET received_quantity = $2 WHERE id = $1`, itemID, received)
	if err != nil {
		return fmt.Errorf("update purchase item: %w", err)
	}
	return nil
}

// List lista compras (sin ítems) con el nombre del proveedor, más reciente primero.
func (r *PurchaseRepo) List(ctx context.Context, f repository.PurchaseFilter) ([]*entity.Purchase, int, error) {
	where := sq.And{}
	if f.SupplierID != "" {
		where = append(where, sq.Eq{"p.supplier_id": f.SupplierID})
	}
	if f.Status != "" {
		where = append(where, sq.Eq{"p.status": f.Status})
	}
	if f.From != nil {
		where = append(where, sq.GtOrEq{"p.date": dateOnly(f.From)})
	}
	if f.To != nil {
		where = append(where, sq.LtOrEq{"p.date": dateOnly(f.To)})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("purchases p").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}

	query, args, err := psql.Select(purchaseColumns).
		From("purchases p").LeftJoin("suppliers s ON s.id = p.supplier_id").
		Where(where).
		OrderBy("p.date DESC", "p.created_at DESC").
		Limit(uint64(f.Limit)).Offset(uint64(max(f.Offset, 0))).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build purchases query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}
