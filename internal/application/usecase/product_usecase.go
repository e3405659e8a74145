package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/pricing"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

const defaultEditReason = "Edición de producto"

// ProductUseCase casos de uso del catálogo de productos. El stock se maneja vía movimientos.
type ProductUseCase struct {
	repo    repository.ProductRepository
	history repository.ProductHistoryRepository
	tx      repository.TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, history repository.ProductHistoryRepository, tx repository.TxRunner) *ProductUseCase {
	return &ProductUseCase{repo: repo, history: history, tx: tx}
}

// Search lista productos con filtros y paginación (20 por defecto, máximo 100).
func (uc *ProductUseCase) Search(ctx context.Context, q dto.ProductSearchQuery) (*dto.ProductListResponse, error) {
	q.DefaultPage()
	f := repository.ProductFilter{
		Query:          q.Query,
		Category:       q.Category,
		MinPrice:       q.MinPrice,
		MaxPrice:       q.MaxPrice,
		WithoutBarcode: q.WithoutBarcode,
		Limit:          q.Limit,
		Offset:         q.Offset,
	}
	if q.Status != "" {
		if !entity.ValidProductStatus(q.Status) {
			return nil, domain.Invalid("status", "estado inválido")
		}
		f.Statuses = []string{q.Status}
	}
	list, total, err := uc.repo.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		PageResponse: dto.PageResponse{Total: total, Limit: q.Limit, Offset: q.Offset, Count: len(items)},
		Items:        items,
	}, nil
}

// ByCategory productos no eliminados de una categoría.
func (uc *ProductUseCase) ByCategory(ctx context.Context, category string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	if strings.TrimSpace(category) == "" {
		return nil, domain.Invalid("category", "la categoría es obligatoria")
	}
	return uc.Search(ctx, dto.ProductSearchQuery{Category: category, PageRequest: page})
}

// GetByID obtiene un producto por código.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p), nil
}

// GetByBarcode busca por código de barras (lector del punto de venta).
func (uc *ProductUseCase) GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, domain.Invalid("barcode", "el código de barras es obligatorio")
	}
	p, err := uc.repo.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if p == nil || p.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p), nil
}

// Create da de alta un producto. Stock inicia en 0 (se carga con inventario inicial).
func (uc *ProductUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, domain.Invalid("id", "el código es obligatorio")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "el nombre es obligatorio")
	}
	if err := validatePrices(in.Cost, in.WholesalePrice, in.RetailPrice); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = entity.ProductStatusActive
	}
	if status == entity.ProductStatusDeleted || !entity.ValidProductStatus(status) {
		return nil, domain.Invalid("status", "estado inválido")
	}

	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	barcode := strings.TrimSpace(in.Barcode)
	if err := uc.ensureBarcodeFree(ctx, barcode, id); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &entity.Product{
		ID:                 id,
		Name:               name,
		Category:           strings.TrimSpace(in.Category),
		Unit:               in.Unit,
		Barcode:            barcode,
		Description:        in.Description,
		Cost:               in.Cost,
		WholesalePrice:     in.WholesalePrice,
		RetailPrice:        in.RetailPrice,
		NetWeightKg:        in.NetWeightKg,
		NetVolumeL:         in.NetVolumeL,
		AllowFractional:    in.AllowFractional,
		Status:             status,
		Stock:              decimal.Zero,
		StockMin:           in.StockMin,
		StockMax:           in.StockMax,
		ReorderPoint:       in.ReorderPoint,
		AllowNegativeStock: in.AllowNegativeStock,
		Location:           in.Location,
		DefaultSupplierID:  in.DefaultSupplierID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	log.Info().Str("product_id", p.ID).Str("user", actor.Ref()).Msg("producto creado")
	return toProductResponse(p), nil
}

// Update aplica cambios parciales. Cada cambio de precio, costo, nombre, categoría o estado
// queda en el historial con el motivo y el usuario.
func (uc *ProductUseCase) Update(ctx context.Context, actor dto.Actor, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var out *entity.Product
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		p, err := r.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		before := *p
		if err := applyProductUpdate(p, in); err != nil {
			return err
		}

		now := time.Now()
		changes := productChanges(&before, p)
		if priceChanged(&before, p) {
			p.LastPriceUpdate = &now
		}
		p.UpdatedAt = now
		if err := r.Products.Update(ctx, p); err != nil {
			return err
		}
		reason := historyReason(in.Reason, defaultEditReason, actor)
		for _, c := range changes {
			c.ProductID = p.ID
			c.Reason = reason
			c.UserID = actor.Ref()
			c.CreatedAt = now
			if err := r.History.Create(ctx, c); err != nil {
				return err
			}
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(out), nil
}

// SetBarcode asigna el código de barras. Vacío lo borra.
func (uc *ProductUseCase) SetBarcode(ctx context.Context, actor dto.Actor, id string, in dto.SetBarcodeRequest) (*dto.ProductResponse, error) {
	barcode := strings.TrimSpace(in.Barcode)
	if err := uc.ensureBarcodeFree(ctx, barcode, id); err != nil {
		return nil, err
	}
	var out *entity.Product
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		p, err := r.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.Barcode == barcode {
			out = p
			return nil
		}
		now := time.Now()
		old := p.Barcode
		p.Barcode = barcode
		p.UpdatedAt = now
		if err := r.Products.Update(ctx, p); err != nil {
			return err
		}
		out = p
		return r.History.Create(ctx, &entity.ProductHistory{
			ID:        uuid.New().String(),
			ProductID: p.ID,
			Field:     entity.HistoryFieldBarcode,
			OldValue:  old,
			NewValue:  barcode,
			Reason:    historyReason(in.Reason, "Asignación de código de barras", actor),
			UserID:    actor.Ref(),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(out), nil
}

// Delete baja lógica: estado eliminado con motivo obligatorio.
func (uc *ProductUseCase) Delete(ctx context.Context, actor dto.Actor, id string, in dto.DeleteProductRequest) error {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return domain.Invalid("reason", "el motivo de la baja es obligatorio")
	}
	return uc.tx.Run(ctx, func(r repository.TxRepos) error {
		p, err := r.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil || p.IsDeleted() {
			return domain.ErrNotFound
		}
		now := time.Now()
		old := p.Status
		p.Status = entity.ProductStatusDeleted
		p.DeletionReason = reason
		p.UpdatedAt = now
		if err := r.Products.Update(ctx, p); err != nil {
			return err
		}
		log.Info().Str("product_id", p.ID).Str("user", actor.Ref()).Msg("producto eliminado")
		return r.History.Create(ctx, &entity.ProductHistory{
			ID:        uuid.New().String(),
			ProductID: p.ID,
			Field:     entity.HistoryFieldStatus,
			OldValue:  old,
			NewValue:  entity.ProductStatusDeleted,
			Reason:    historyReason(reason, "", actor),
			UserID:    actor.Ref(),
			CreatedAt: now,
		})
	})
}

// Categories categorías en uso, ordenadas.
func (uc *ProductUseCase) Categories(ctx context.Context) ([]string, error) {
	cats, err := uc.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []string{}
	}
	return cats, nil
}

// History cambios registrados del producto, más reciente primero.
func (uc *ProductUseCase) History(ctx context.Context, id string, limit int) ([]dto.ProductHistoryResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	list, err := uc.history.ListByProduct(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductHistoryResponse, 0, len(list))
	for _, h := range list {
		out = append(out, dto.ProductHistoryResponse{
			ID:        h.ID,
			ProductID: h.ProductID,
			Field:     h.Field,
			OldValue:  h.OldValue,
			NewValue:  h.NewValue,
			Reason:    h.Reason,
			UserID:    h.UserID,
			CreatedAt: h.CreatedAt,
		})
	}
	return out, nil
}

// Stats estadísticas del catálogo.
func (uc *ProductUseCase) Stats(ctx context.Context) (*dto.ProductStatsResponse, error) {
	s, err := uc.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ProductStatsResponse{
		TotalProducts:          s.TotalProducts,
		ProductsByCategory:     s.ByCategory,
		ProductsWithoutPrice:   s.WithoutPrice,
		ProductsWithoutBarcode: s.WithoutBarcode,
		AvgRetailPrice:         pricing.Round2(s.AvgRetailPrice),
		AvgWholesalePrice:      pricing.Round2(s.AvgWholesalePrice),
	}, nil
}

// BulkUpdatePrices ajusta por porcentaje los precios de una categoría y/o lista de códigos
// en una sola transacción. Sin destino no hace nada.
func (uc *ProductUseCase) BulkUpdatePrices(ctx context.Context, actor dto.Actor, in dto.BulkPriceUpdateRequest) (*dto.BulkPriceUpdateResponse, error) {
	out := &dto.BulkPriceUpdateResponse{Products: []dto.BulkPriceChange{}}
	category := strings.TrimSpace(in.Category)
	codes := make([]string, 0, len(in.Codes))
	for _, c := range in.Codes {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	if category == "" && len(codes) == 0 {
		return out, nil
	}
	if in.Percentage.IsZero() {
		return nil, domain.Invalid("percentage", "el porcentaje no puede ser cero")
	}
	if in.Percentage.LessThanOrEqual(decimal.NewFromInt(-100)) {
		return nil, domain.Invalid("percentage", "el porcentaje debe ser mayor a -100")
	}
	applyTo := in.ApplyTo
	if applyTo == "" {
		applyTo = pricing.ApplyBoth
	}
	if !pricing.ValidApplyTo(applyTo) {
		return nil, domain.Invalid("apply_to", "use menor, mayor o ambos")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = fmt.Sprintf("Actualización masiva %s%%", in.Percentage.String())
	}
	reason = historyReason(reason, "", actor)

	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		list, err := r.Products.ListForBulkUpdate(ctx, category, codes)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, p := range list {
			change := dto.BulkPriceChange{
				ID: p.ID, Name: p.Name,
				OldRetailPrice: p.RetailPrice, NewRetailPrice: p.RetailPrice,
				OldWholesalePrice: p.WholesalePrice, NewWholesalePrice: p.WholesalePrice,
			}
			if applyTo != pricing.ApplyWholesale {
				change.NewRetailPrice = pricing.ApplyPercentage(p.RetailPrice, in.Percentage)
			}
			if applyTo != pricing.ApplyRetail {
				change.NewWholesalePrice = pricing.ApplyPercentage(p.WholesalePrice, in.Percentage)
			}
			if err := r.Products.UpdatePrices(ctx, p.ID, change.NewRetailPrice, change.NewWholesalePrice, now); err != nil {
				return err
			}
			entries := []struct {
				field    string
				old, new decimal.Decimal
			}{
				{entity.HistoryFieldRetailPrice, change.OldRetailPrice, change.NewRetailPrice},
				{entity.HistoryFieldWholesalePrice, change.OldWholesalePrice, change.NewWholesalePrice},
			}
			for _, e := range entries {
				if e.old.Equal(e.new) {
					continue
				}
				if err := r.History.Create(ctx, &entity.ProductHistory{
					ID:        uuid.New().String(),
					ProductID: p.ID,
					Field:     e.field,
					OldValue:  e.old.String(),
					NewValue:  e.new.String(),
					Reason:    reason,
					UserID:    actor.Ref(),
					CreatedAt: now,
				}); err != nil {
					return err
				}
			}
			out.Products = append(out.Products, change)
		}
		out.Updated = len(out.Products)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("updated", out.Updated).
		Str("percentage", in.Percentage.String()).
		Str("apply_to", applyTo).
		Str("user", actor.Ref()).
		Msg("actualización masiva de precios")
	return out, nil
}

func (uc *ProductUseCase) ensureBarcodeFree(ctx context.Context, barcode, productID string) error {
	if barcode == "" {
		return nil
	}
	other, err := uc.repo.GetByBarcode(ctx, barcode)
	if err != nil {
		return err
	}
	if other != nil && other.ID != productID {
		return &domain.BarcodeInUseError{Barcode: barcode, ProductID: other.ID, ProductName: other.Name}
	}
	return nil
}

func validatePrices(cost, wholesale, retail decimal.Decimal) error {
	if cost.IsNegative() {
		return domain.Invalid("cost", "no puede ser negativo")
	}
	if wholesale.IsNegative() {
		return domain.Invalid("wholesale_price", "no puede ser negativo")
	}
	if retail.IsNegative() {
		return domain.Invalid("retail_price", "no puede ser negativo")
	}
	return nil
}

func applyProductUpdate(p *entity.Product, in dto.UpdateProductRequest) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.Invalid("name", "el nombre es obligatorio")
		}
		p.Name = name
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Unit != nil {
		p.Unit = *in.Unit
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Cost != nil {
		p.Cost = *in.Cost
	}
	if in.WholesalePrice != nil {
		p.WholesalePrice = *in.WholesalePrice
	}
	if in.RetailPrice != nil {
		p.RetailPrice = *in.RetailPrice
	}
	if err := validatePrices(p.Cost, p.WholesalePrice, p.RetailPrice); err != nil {
		return err
	}
	if in.NetWeightKg != nil {
		p.NetWeightKg = in.NetWeightKg
	}
	if in.NetVolumeL != nil {
		p.NetVolumeL = in.NetVolumeL
	}
	if in.AllowFractional != nil {
		p.AllowFractional = *in.AllowFractional
	}
	if in.Status != nil {
		if *in.Status == entity.ProductStatusDeleted || !entity.ValidProductStatus(*in.Status) {
			return domain.Invalid("status", "use activo o inactivo; la baja tiene su propia operación")
		}
		p.Status = *in.Status
		p.DeletionReason = ""
	}
	if in.StockMin != nil {
		if in.StockMin.IsNegative() {
			return domain.Invalid("stock_min", "no puede ser negativo")
		}
		p.StockMin = *in.StockMin
	}
	if in.StockMax != nil {
		p.StockMax = in.StockMax
	}
	if in.ReorderPoint != nil {
		p.ReorderPoint = in.ReorderPoint
	}
	if in.AllowNegativeStock != nil {
		p.AllowNegativeStock = *in.AllowNegativeStock
	}
	if in.Location != nil {
		p.Location = *in.Location
	}
	if in.DefaultSupplierID != nil {
		p.DefaultSupplierID = strings.TrimSpace(*in.DefaultSupplierID)
	}
	return nil
}

// productChanges filas de historial para los campos auditados que cambiaron.
func productChanges(before, after *entity.Product) []*entity.ProductHistory {
	var out []*entity.ProductHistory
	add := func(field, old, new string) {
		if old != new {
			out = append(out, &entity.ProductHistory{ID: uuid.New().String(), Field: field, OldValue: old, NewValue: new})
		}
	}
	addDec := func(field string, old, new decimal.Decimal) {
		if !old.Equal(new) {
			add(field, old.String(), new.String())
		}
	}
	addDec(entity.HistoryFieldCost, before.Cost, after.Cost)
	addDec(entity.HistoryFieldWholesalePrice, before.WholesalePrice, after.WholesalePrice)
	addDec(entity.HistoryFieldRetailPrice, before.RetailPrice, after.RetailPrice)
	add(entity.HistoryFieldName, before.Name, after.Name)
	add(entity.HistoryFieldCategory, before.Category, after.Category)
	add(entity.HistoryFieldStatus, before.Status, after.Status)
	return out
}

func priceChanged(before, after *entity.Product) bool {
	return !before.Cost.Equal(after.Cost) ||
		!before.WholesalePrice.Equal(after.WholesalePrice) ||
		!before.RetailPrice.Equal(after.RetailPrice)
}

// historyReason agrega el autor al motivo: "Aumento proveedor (por ana@lafuga.com)".
func historyReason(reason, fallback string, actor dto.Actor) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = fallback
	}
	if ref := actor.Ref(); ref != "" {
		reason += " (por " + ref + ")"
	}
	return strings.TrimSpace(reason)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Category:           p.Category,
		Unit:               p.Unit,
		Barcode:            p.Barcode,
		Description:        p.Description,
		Cost:               p.Cost,
		WholesalePrice:     p.WholesalePrice,
		RetailPrice:        p.RetailPrice,
		NetWeightKg:        p.NetWeightKg,
		NetVolumeL:         p.NetVolumeL,
		AllowFractional:    p.AllowFractional,
		Status:             p.Status,
		DeletionReason:     p.DeletionReason,
		ImageURL:           p.ImageURL,
		ImageSource:        p.ImageSource,
		Stock:              p.Stock,
		StockMin:           p.StockMin,
		StockMax:           p.StockMax,
		ReorderPoint:       p.ReorderPoint,
		AllowNegativeStock: p.AllowNegativeStock,
		Location:           p.Location,
		DefaultSupplierID:  p.DefaultSupplierID,
		LastPriceUpdate:    p.LastPriceUpdate,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,

		MarginRetail:    pricing.Margin(p.RetailPrice, p.Cost),
		MarginWholesale: pricing.Margin(p.WholesalePrice, p.Cost),
		BelowCost:       pricing.IsBelowCost(p.RetailPrice, p.Cost) || pricing.IsBelowCost(p.WholesalePrice, p.Cost),
		Sellable:        pricing.IsSellable(p),
		PricePerKg:      pricing.PricePerKg(p),
		PricePerLiter:   pricing.PricePerLiter(p),
	}
}
