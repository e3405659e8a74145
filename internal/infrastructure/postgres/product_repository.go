package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

var productColumns = []string{
	"id", "name", "category", "unit", "barcode", "description",
	"cost", "wholesale_price", "retail_price", "net_weight_kg", "net_volume_l", "allow_fractional",
	"status", "deletion_reason", "image_url", "image_source", "image_fetched_at",
	"stock", "stock_min", "stock_max", "reorder_point", "allow_negative_stock", "location", "default_supplier_id",
	"last_price_update", "created_at", "updated_at",
}

var productSelect = "SELECT " + strings.Join(productColumns, ", ") + " FROM products"

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var barcode, supplierID *string
	err := row.Scan(
		&p.ID, &p.Name, &p.Category, &p.Unit, &barcode, &p.Description,
		&p.Cost, &p.WholesalePrice, &p.RetailPrice, &p.NetWeightKg, &p.NetVolumeL, &p.AllowFractional,
		&p.Status, &p.DeletionReason, &p.ImageURL, &p.ImageSource, &p.ImageFetchedAt,
		&p.Stock, &p.StockMin, &p.StockMax, &p.ReorderPoint, &p.AllowNegativeStock, &p.Location, &supplierID,
		&p.LastPriceUpdate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Barcode = derefString(barcode)
	p.DefaultSupplierID = derefString(supplierID)
	return &p, nil
}

func (r *ProductRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *ProductRepo) list(ctx context.Context, b sq.SelectBuilder) ([]*entity.Product, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build product query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + strings.Join(productColumns, ", ") + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Category, p.Unit, nullIfEmpty(p.Barcode), p.Description,
		p.Cost, p.WholesalePrice, p.RetailPrice, p.NetWeightKg, p.NetVolumeL, p.AllowFractional,
		p.Status, p.DeletionReason, p.ImageURL, p.ImageSource, p.ImageFetchedAt,
		p.Stock, p.StockMin, p.StockMax, p.ReorderPoint, p.AllowNegativeStock, p.Location, nullIfEmpty(p.DefaultSupplierID),
		p.LastPriceUpdate, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.Invalid("default_supplier_id", "proveedor inexistente")
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por código.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := r.getOne(ctx, productSelect+` WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene el producto bloqueando la fila (SELECT FOR UPDATE). Usar dentro de una tx.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	p, err := r.getOne(ctx, productSelect+` WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return p, nil
}

// GetByBarcode obtiene un producto por código de barras.
func (r *ProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	p, err := r.getOne(ctx, productSelect+` WHERE barcode = $1`, barcode)
	if err != nil {
		return nil, fmt.Errorf("get product by barcode: %w", err)
	}
	return p, nil
}

// Update actualiza los datos editables. El stock cambia solo vía movimientos y la imagen vía UpdateImage.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET
			name = $2, category = $3, unit = $4, barcode = $5, description = $6,
			cost = $7, wholesale_price = $8, retail_price = $9, net_weight_kg = $10, net_volume_l = $11,
			allow_fractional = $12, status = $13, deletion_reason = $14,
			stock_min = $15, stock_max = $16, reorder_point = $17, allow_negative_stock = $18,
			location = $19, default_supplier_id = $20, last_price_update = $21, updated_at = $22
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Category, p.Unit, nullIfEmpty(p.Barcode), p.Description,
		p.Cost, p.WholesalePrice, p.RetailPrice, p.NetWeightKg, p.NetVolumeL,
		p.AllowFractional, p.Status, p.DeletionReason,
		p.StockMin, p.StockMax, p.ReorderPoint, p.AllowNegativeStock,
		p.Location, nullIfEmpty(p.DefaultSupplierID), p.LastPriceUpdate, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.Invalid("default_supplier_id", "proveedor inexistente")
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateImage guarda el resultado de una búsqueda o carga manual de imagen.
func (r *ProductRepo) UpdateImage(ctx context.Context, id, imageURL, source string, fetchedAt *time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET image_url = $2, image_source = $3, image_fetched_at = $4, updated_at = now()
		WHERE id = $1`, id, imageURL, source, fetchedAt)
	if err != nil {
		return fmt.Errorf("update product image: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock actualiza solo el stock (usado por el motor de movimientos).
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, stock decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`, id, stock)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

// UpdateStockAndCost actualiza stock y costo al recibir mercadería.
func (r *ProductRepo) UpdateStockAndCost(ctx context.Context, id string, stock, cost decimal.Decimal) error {
	_, err := r.q.Exec(ctx,
		`UPDATE products SET stock = $2, cost = $3, updated_at = now() WHERE id = $1`,
		id, stock, cost,
	)
	if err != nil {
		return fmt.Errorf("update product stock and cost: %w", err)
	}
	return nil
}

// UpdatePrices actualiza precios (actualización masiva).
func (r *ProductRepo) UpdatePrices(ctx context.Context, id string, retail, wholesale decimal.Decimal, at time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE products SET retail_price = $2, wholesale_price = $3, last_price_update = $4, updated_at = $4
		WHERE id = $1`, id, retail, wholesale, at)
	if err != nil {
		return fmt.Errorf("update product prices: %w", err)
	}
	return nil
}

func productWhere(f repository.ProductFilter) sq.And {
	where := sq.And{}
	if len(f.Statuses) == 0 {
		where = append(where, sq.NotEq{"status": entity.ProductStatusDeleted})
	} else {
		where = append(where, sq.Eq{"status": f.Statuses})
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		p := likePattern(q)
		where = append(where, sq.Or{
			sq.Expr("name ILIKE ?", p),
			sq.Expr("id ILIKE ?", p),
			sq.Expr("barcode ILIKE ?", p),
		})
	}
	if f.Category != "" {
		where = append(where, sq.Eq{"category": f.Category})
	}
	if f.MinPrice != nil {
		where = append(where, sq.GtOrEq{"retail_price": *f.MinPrice})
	}
	if f.MaxPrice != nil {
		where = append(where, sq.LtOrEq{"retail_price": *f.MaxPrice})
	}
	if f.WithoutBarcode {
		where = append(where, sq.Expr("(barcode IS NULL OR barcode = '')"))
	}
	if f.WithoutImage {
		where = append(where, sq.Eq{"image_url": "", "image_source": ""})
	}
	if len(f.IDs) > 0 {
		where = append(where, sq.Eq{"id": f.IDs})
	}
	return where
}

// Search busca productos con filtros opcionales y devuelve también el total sin paginar.
func (r *ProductRepo) Search(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	where := productWhere(f)

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("products").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	b := psql.Select(productColumns...).From("products").Where(where).OrderBy("name ASC", "id ASC")
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit)).Offset(uint64(max(f.Offset, 0)))
	}
	list, err := r.list(ctx, b)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListForBulkUpdate bloquea los productos alcanzados por la actualización masiva.
func (r *ProductRepo) ListForBulkUpdate(ctx context.Context, category string, codes []string) ([]*entity.Product, error) {
	target := sq.Or{}
	if category != "" {
		target = append(target, sq.Eq{"category": category})
	}
	if len(codes) > 0 {
		target = append(target, sq.Eq{"id": codes})
	}
	if len(target) == 0 {
		return nil, nil
	}
	b := psql.Select(productColumns...).From("products").
		Where(sq.NotEq{"status": entity.ProductStatusDeleted}).
		Where(target).
		OrderBy("id").
		Suffix("FOR UPDATE")
	return r.list(ctx, b)
}

// ListStockAlerts productos activos con stock en o por debajo del mínimo.
func (r *ProductRepo) ListStockAlerts(ctx context.Context) ([]*entity.Product, error) {
	b := psql.Select(productColumns...).From("products").
		Where(sq.Eq{"status": entity.ProductStatusActive}).
		Where("stock_min > 0 AND stock <= stock_min").
		OrderBy("stock ASC", "name ASC")
	return r.list(ctx, b)
}

// ListReorderCandidates productos activos en punto de pedido (o en el mínimo si no tienen punto de pedido).
func (r *ProductRepo) ListReorderCandidates(ctx context.Context) ([]*entity.Product, error) {
	b := psql.Select(productColumns...).From("products").
		Where(sq.Eq{"status": entity.ProductStatusActive}).
		Where(`(
			(reorder_point IS NOT NULL AND reorder_point > 0 AND stock <= reorder_point)
			OR ((reorder_point IS NULL OR reorder_point <= 0) AND stock_min > 0 AND stock <= stock_min)
		)`).
		OrderBy("default_supplier_id NULLS LAST", "name ASC")
	return r.list(ctx, b)
}

// Categories categorías distintas de productos no eliminados.
func (r *ProductRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT category FROM products
		WHERE status <> 'eliminado' AND category <> ''
		ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Stats agregados sobre productos no eliminados.
func (r *ProductRepo) Stats(ctx context.Context) (*repository.ProductStats, error) {
	s := &repository.ProductStats{ByCategory: map[string]int{}}
	err := r.q.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE retail_price = 0 AND wholesale_price = 0),
			COUNT(*) FILTER (WHERE barcode IS NULL OR barcode = ''),
			COALESCE(ROUND(AVG(retail_price) FILTER (WHERE retail_price > 0), 2), 0),
			COALESCE(ROUND(AVG(wholesale_price) FILTER (WHERE wholesale_price > 0), 2), 0)
		FROM products WHERE status <> 'eliminado'`,
	).Scan(&s.TotalProducts, &s.WithoutPrice, &s.WithoutBarcode, &s.AvgRetailPrice, &s.AvgWholesalePrice)
	if err != nil {
		return nil, fmt.Errorf("product stats: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT COALESCE(NULLIF(category, ''), 'Sin categoría'), COUNT(*)
		FROM products WHERE status <> 'eliminado'
		GROUP BY 1`)
	if err != nil {
		return nil, fmt.Errorf("products by category: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		s.ByCategory[cat] = n
	}
	return s, rows.Err()
}
