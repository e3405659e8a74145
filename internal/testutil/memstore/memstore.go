// Package memstore implementa los puertos de persistencia en memoria para tests de casos de uso.
// Run del TxRunner restaura el estado completo si la función devuelve error.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu            sync.Mutex
	txMu          sync.Mutex // serializa las transacciones, como los bloqueos de fila
	products      map[string]entity.Product
	history       []entity.ProductHistory
	movements     []entity.StockMovement
	sales         map[string]entity.Sale
	saleSeq       int64
	suppliers     map[string]entity.Supplier
	purchases     map[string]entity.Purchase
	catalogs      map[string]entity.Catalog
	users         map[string]entity.AuthorizedUser
	Products      *ProductRepo
	History       *HistoryRepo
	Movements     *MovementRepo
	Sales         *SaleRepo
	Suppliers     *SupplierRepo
	Purchases     *PurchaseRepo
	Catalogs      *CatalogRepo
	Users         *UserRepo
	Tx            *TxRunner
	FailOnSave    error // si no es nil, las escrituras de ventas fallan con este error
	FailOnHistory error // idem para las altas de historial de productos
}

// New store vacío.
func New() *Store {
	s := &Store{
		products:  map[string]entity.Product{},
		sales:     map[string]entity.Sale{},
		suppliers: map[string]entity.Supplier{},
		purchases: map[string]entity.Purchase{},
		catalogs:  map[string]entity.Catalog{},
		users:     map[string]entity.AuthorizedUser{},
	}
	s.Products = &ProductRepo{s: s}
	s.History = &HistoryRepo{s: s}
	s.Movements = &MovementRepo{s: s}
	s.Sales = &SaleRepo{s: s}
	s.Suppliers = &SupplierRepo{s: s}
	s.Purchases = &PurchaseRepo{s: s}
	s.Catalogs = &CatalogRepo{s: s}
	s.Users = &UserRepo{s: s}
	s.Tx = &TxRunner{s: s}
	return s
}

// Put carga un producto tal cual (helper de tests).
func (s *Store) Put(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// Product devuelve una copia del producto guardado.
func (s *Store) Product(id string) entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id]
}

// AllHistory copia del historial en orden de inserción.
func (s *Store) AllHistory() []entity.ProductHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.ProductHistory(nil), s.history...)
}

// AllMovements copia de los movimientos en orden de inserción.
func (s *Store) AllMovements() []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.StockMovement(nil), s.movements...)
}

type snapshot struct {
	products  map[string]entity.Product
	history   []entity.ProductHistory
	movements []entity.StockMovement
	sales     map[string]entity.Sale
	saleSeq   int64
	purchases map[string]entity.Purchase
	users     map[string]entity.AuthorizedUser
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		products:  make(map[string]entity.Product, len(s.products)),
		history:   append([]entity.ProductHistory(nil), s.history...),
		movements: append([]entity.StockMovement(nil), s.movements...),
		sales:     make(map[string]entity.Sale, len(s.sales)),
		saleSeq:   s.saleSeq,
		purchases: make(map[string]entity.Purchase, len(s.purchases)),
		users:     make(map[string]entity.AuthorizedUser, len(s.users)),
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.sales {
		v.Items = append([]entity.SaleItem(nil), v.Items...)
		snap.sales[k] = v
	}
	for k, v := range s.purchases {
		v.Items = append([]entity.PurchaseItem(nil), v.Items...)
		snap.purchases[k] = v
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.history = snap.history
	s.movements = snap.movements
	s.sales = snap.sales
	s.saleSeq = snap.saleSeq
	s.purchases = snap.purchases
	s.users = snap.users
}

// TxRunner ejecuta fn con los repos del store; ante error vuelve al estado previo.
type TxRunner struct{ s *Store }

var _ repository.TxRunner = (*TxRunner)(nil)

func (t *TxRunner) Run(ctx context.Context, fn func(r repository.TxRepos) error) error {
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()
	snap := t.s.snapshot()
	err := fn(repository.TxRepos{
		Products:  t.s.Products,
		History:   t.s.History,
		Movements: t.s.Movements,
		Sales:     t.s.Sales,
		Purchases: t.s.Purchases,
		Users:     t.s.Users,
	})
	if err != nil {
		t.s.restore(snap)
	}
	return err
}

// ProductRepo productos en memoria.
type ProductRepo struct{ s *Store }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if barcode != "" && p.Barcode == barcode {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *p
	cp.Stock = old.Stock
	cp.ImageURL, cp.ImageSource, cp.ImageFetchedAt = old.ImageURL, old.ImageSource, old.ImageFetchedAt
	r.s.products[p.ID] = cp
	return nil
}

func (r *ProductRepo) UpdateStock(ctx context.Context, id string, stock decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	r.s.products[id] = p
	return nil
}

func (r *ProductRepo) UpdateStockAndCost(ctx context.Context, id string, stock, cost decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	p.Cost = cost
	r.s.products[id] = p
	return nil
}

func (r *ProductRepo) UpdatePrices(ctx context.Context, id string, retail, wholesale decimal.Decimal, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.RetailPrice = retail
	p.WholesalePrice = wholesale
	p.LastPriceUpdate = &at
	p.UpdatedAt = at
	r.s.products[id] = p
	return nil
}

func (r *ProductRepo) UpdateImage(ctx context.Context, id, imageURL, source string, fetchedAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.ImageURL = imageURL
	p.ImageSource = source
	p.ImageFetchedAt = fetchedAt
	p.UpdatedAt = time.Now()
	r.s.products[id] = p
	return nil
}

func (r *ProductRepo) sorted(match func(p entity.Product) bool) []*entity.Product {
	var out []*entity.Product
	for _, p := range r.s.products {
		if match(p) {
			cp := p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *ProductRepo) Search(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := strings.ToLower(f.Query)
	ids := map[string]bool{}
	for _, id := range f.IDs {
		ids[id] = true
	}
	list := r.sorted(func(p entity.Product) bool {
		if len(f.Statuses) == 0 && p.IsDeleted() {
			return false
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, p.Status) {
			return false
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.ID), q) && p.Barcode != f.Query {
			return false
		}
		if f.Category != "" && p.Category != f.Category {
			return false
		}
		if f.MinPrice != nil && p.RetailPrice.LessThan(*f.MinPrice) {
			return false
		}
		if f.MaxPrice != nil && p.RetailPrice.GreaterThan(*f.MaxPrice) {
			return false
		}
		if f.WithoutBarcode && p.Barcode != "" {
			return false
		}
		if f.WithoutImage && (p.ImageSource != "" || p.ImageURL != "") {
			return false
		}
		if len(ids) > 0 && !ids[p.ID] {
			return false
		}
		return true
	})
	total := len(list)
	if f.Offset > 0 {
		if f.Offset >= len(list) {
			list = nil
		} else {
			list = list[f.Offset:]
		}
	}
	if f.Limit > 0 && len(list) > f.Limit {
		list = list[:f.Limit]
	}
	return list, total, nil
}

func (r *ProductRepo) ListForBulkUpdate(ctx context.Context, category string, codes []string) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.sorted(func(p entity.Product) bool {
		if p.IsDeleted() {
			return false
		}
		return (category != "" && p.Category == category) || contains(codes, p.ID)
	}), nil
}

func (r *ProductRepo) ListStockAlerts(ctx context.Context) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.sorted(func(p entity.Product) bool {
		return !p.IsDeleted() && p.StockMin.IsPositive() && p.Stock.LessThanOrEqual(p.StockMin)
	}), nil
}

func (r *ProductRepo) ListReorderCandidates(ctx context.Context) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.sorted(func(p entity.Product) bool { return p.IsActive() }), nil
}

func (r *ProductRepo) Categories(ctx context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, p := range r.s.products {
		if p.IsDeleted() || p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out, nil
}

func (r *ProductRepo) Stats(ctx context.Context) (*repository.ProductStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st := &repository.ProductStats{ByCategory: map[string]int{}}
	var sumR, sumW decimal.Decimal
	var nR, nW int64
	for _, p := range r.s.products {
		if p.IsDeleted() {
			continue
		}
		st.TotalProducts++
		st.ByCategory[p.Category]++
		if p.RetailPrice.IsZero() && p.WholesalePrice.IsZero() {
			st.WithoutPrice++
		}
		if p.Barcode == "" {
			st.WithoutBarcode++
		}
		if p.RetailPrice.IsPositive() {
			sumR = sumR.Add(p.RetailPrice)
			nR++
		}
		if p.WholesalePrice.IsPositive() {
			sumW = sumW.Add(p.WholesalePrice)
			nW++
		}
	}
	if nR > 0 {
		st.AvgRetailPrice = sumR.Div(decimal.NewFromInt(nR))
	}
	if nW > 0 {
		st.AvgWholesalePrice = sumW.Div(decimal.NewFromInt(nW))
	}
	return st, nil
}

// HistoryRepo historial de productos en memoria.
type HistoryRepo struct{ s *Store }

var _ repository.ProductHistoryRepository = (*HistoryRepo)(nil)

func (r *HistoryRepo) Create(ctx context.Context, h *entity.ProductHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailOnHistory != nil {
		return r.s.FailOnHistory
	}
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	r.s.history = append(r.s.history, *h)
	return nil
}

func (r *HistoryRepo) ListByProduct(ctx context.Context, productID string, limit int) ([]*entity.ProductHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ProductHistory
	for i := len(r.s.history) - 1; i >= 0; i-- {
		if r.s.history[i].ProductID == productID {
			h := r.s.history[i]
			out = append(out, &h)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// MovementRepo movimientos de stock en memoria.
type MovementRepo struct{ s *Store }

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		out = append(out, &m)
	}
	total := len(out)
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			out = nil
		} else {
			out = out[f.Offset:]
		}
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (r *MovementRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			n++
		}
	}
	return n, nil
}

// SaleRepo tickets en memoria con numeración correlativa.
type SaleRepo struct{ s *Store }

var _ repository.SaleRepository = (*SaleRepo)(nil)

func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailOnSave != nil {
		return r.s.FailOnSave
	}
	r.s.saleSeq++
	sale.Number = r.s.saleSeq
	cp := *sale
	cp.Items = append([]entity.SaleItem(nil), sale.Items...)
	r.s.sales[sale.ID] = cp
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *SaleRepo) all() []entity.Sale {
	out := make([]entity.Sale, 0, len(r.s.sales))
	for _, s := range r.s.sales {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	return out
}

func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]repository.SaleSummary, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []repository.SaleSummary
	for _, s := range r.all() {
		if f.SaleType != "" && s.SaleType != f.SaleType {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(s.CustomerName), strings.ToLower(f.Query)) {
			continue
		}
		if f.From != nil && s.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && s.CreatedAt.After(*f.To) {
			continue
		}
		out = append(out, repository.SaleSummary{Sale: s, ItemCount: len(s.Items)})
	}
	total := len(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (r *SaleRepo) ListSince(ctx context.Context, from time.Time) ([]*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Sale
	for _, s := range r.all() {
		if !s.CreatedAt.Before(from) {
			cp := s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sales[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.sales, id)
	return nil
}

func (r *SaleRepo) Stats(ctx context.Context, from, to *time.Time) (*repository.SaleStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st := &repository.SaleStats{}
	for _, s := range r.s.sales {
		if from != nil && s.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && s.CreatedAt.After(*to) {
			continue
		}
		st.TotalSales++
		st.TotalAmount = st.TotalAmount.Add(s.Total)
		if s.SaleType == entity.SaleTypeWholesale {
			st.WholesaleCount++
			st.WholesaleAmount = st.WholesaleAmount.Add(s.Total)
		} else {
			st.RetailCount++
			st.RetailAmount = st.RetailAmount.Add(s.Total)
		}
	}
	return st, nil
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ s *Store }

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

func (r *SupplierRepo) Create(ctx context.Context, sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.suppliers {
		if sp.TaxID != "" && o.TaxID == sp.TaxID {
			return domain.ErrDuplicate
		}
	}
	r.s.suppliers[sp.ID] = *sp
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sp, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &sp, nil
}

func (r *SupplierRepo) Update(ctx context.Context, sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.suppliers[sp.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.suppliers[sp.ID] = *sp
	return nil
}

func (r *SupplierRepo) List(ctx context.Context, f repository.SupplierFilter) ([]*entity.Supplier, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Supplier
	for _, sp := range r.s.suppliers {
		if f.Active != nil && sp.Active != *f.Active {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(sp.Name), strings.ToLower(f.Query)) {
			continue
		}
		cp := sp
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

// PurchaseRepo compras en memoria.
type PurchaseRepo struct{ s *Store }

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sp, ok := r.s.suppliers[p.SupplierID]
	if !ok {
		return domain.Invalid("supplier_id", "el proveedor no existe")
	}
	p.SupplierName = sp.Name
	for i := range p.Items {
		if p.Items[i].ID == "" {
			p.Items[i].ID = uuid.New().String()
		}
		p.Items[i].PurchaseID = p.ID
	}
	cp := *p
	cp.Items = append([]entity.PurchaseItem(nil), p.Items...)
	r.s.purchases[p.ID] = cp
	return nil
}

func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.purchases[id]
	if !ok {
		return nil, nil
	}
	p.Items = append([]entity.PurchaseItem(nil), p.Items...)
	return &p, nil
}

func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.GetByID(ctx, id)
}

func (r *PurchaseRepo) UpdateStatus(ctx context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.purchases[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	r.s.purchases[id] = p
	return nil
}

func (r *PurchaseRepo) UpdateItemReceived(ctx context.Context, itemID string, received decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, p := range r.s.purchases {
		for i := range p.Items {
			if p.Items[i].ID == itemID {
				items := append([]entity.PurchaseItem(nil), p.Items...)
				items[i].ReceivedQuantity = received
				p.Items = items
				r.s.purchases[id] = p
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (r *PurchaseRepo) List(ctx context.Context, f repository.PurchaseFilter) ([]*entity.Purchase, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Purchase
	for _, p := range r.s.purchases {
		if f.SupplierID != "" && p.SupplierID != f.SupplierID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, len(out), nil
}

// CatalogRepo catálogos en memoria.
type CatalogRepo struct{ s *Store }

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

func (r *CatalogRepo) Create(ctx context.Context, c *entity.Catalog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.catalogs {
		if o.PublicToken == c.PublicToken {
			return domain.ErrDuplicate
		}
	}
	r.s.catalogs[c.ID] = *c
	return nil
}

func (r *CatalogRepo) GetByID(ctx context.Context, id string) (*entity.Catalog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.catalogs[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CatalogRepo) GetByToken(ctx context.Context, token string) (*entity.Catalog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.catalogs {
		if c.PublicToken == token {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CatalogRepo) Update(ctx context.Context, c *entity.Catalog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.catalogs[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.catalogs[c.ID] = *c
	return nil
}

func (r *CatalogRepo) List(ctx context.Context, f repository.CatalogFilter) ([]*entity.Catalog, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Catalog
	for _, c := range r.s.catalogs {
		if c.Status == entity.CatalogStatusDeleted {
			continue
		}
		if !f.IncludeExpired && !c.IsPubliclyVisible(f.Now) {
			continue
		}
		cp := c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

// UserRepo lista blanca en memoria.
type UserRepo struct{ s *Store }

var _ repository.AuthorizedUserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *entity.AuthorizedUser) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.users {
		if o.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.AuthorizedUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.AuthorizedUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(ctx context.Context) ([]*entity.AuthorizedUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.AuthorizedUser
	for _, u := range r.s.users {
		cp := u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *UserRepo) UpdateRole(ctx context.Context, id, role string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Role = role
	r.s.users[id] = u
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *UserRepo) LockByRole(ctx context.Context, role string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, u := range r.s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
