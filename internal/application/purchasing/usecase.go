package purchasing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/application/inventory"
	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	domaininv "github.com/lafuga/gestion-api/internal/domain/inventory"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

// PurchaseUseCase compras a proveedores: registro con ingreso de mercadería, recepción de pendientes y anulación.
type PurchaseUseCase struct {
	tx            repository.TxRunner
	purchases     repository.PurchaseRepository
	suppliers     repository.SupplierRepository
	costingMethod string
}

// NewPurchaseUseCase construye el caso de uso. costingMethod: PROMEDIO_PONDERADO o ULTIMO_COSTO.
func NewPurchaseUseCase(tx repository.TxRunner, purchases repository.PurchaseRepository, suppliers repository.SupplierRepository, costingMethod string) *PurchaseUseCase {
	if !domaininv.ValidCostingMethod(costingMethod) {
		costingMethod = entity.CostingWeightedAverage
	}
	return &PurchaseUseCase{tx: tx, purchases: purchases, suppliers: suppliers, costingMethod: costingMethod}
}

// Register valida y guarda la compra; lo recibido entra al stock con su costo en la misma transacción.
func (uc *PurchaseUseCase) Register(ctx context.Context, actor dto.Actor, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	supplier, err := uc.suppliers.GetByID(ctx, strings.TrimSpace(in.SupplierID))
	if err != nil {
		return nil, err
	}
	if supplier == nil || !supplier.Active {
		return nil, domain.Invalid("supplier_id", "el proveedor no existe o está inactivo")
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("items", "la compra debe tener al menos un item")
	}
	if in.DocumentType != "" && !entity.ValidDocumentType(in.DocumentType) {
		return nil, domain.Invalid("document_type", "tipo de comprobante inválido")
	}
	if in.Tax.IsNegative() {
		return nil, domain.Invalid("tax", "no puede ser negativo")
	}

	now := time.Now()
	date := now
	if t := in.Date.TimePtr(); t != nil {
		date = *t
	}
	p := &entity.Purchase{
		ID:            uuid.New().String(),
		SupplierID:    supplier.ID,
		SupplierName:  supplier.Name,
		Date:          date,
		InvoiceNumber: strings.TrimSpace(in.InvoiceNumber),
		DocumentType:  in.DocumentType,
		CAE:           strings.TrimSpace(in.CAE),
		Tax:           in.Tax,
		Notes:         in.Notes,
		UserID:        actor.Ref(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for i, it := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(it.ProductID) == "" {
			return nil, domain.Invalid(field+".product_id", "el producto es obligatorio")
		}
		if !it.Quantity.IsPositive() {
			return nil, domain.Invalid(field+".quantity", "la cantidad debe ser mayor a cero")
		}
		if it.UnitCost.IsNegative() {
			return nil, domain.Invalid(field+".unit_cost", "el costo no puede ser negativo")
		}
		received := it.Quantity
		if it.ReceivedQuantity != nil {
			received = *it.ReceivedQuantity
		}
		if received.IsNegative() || received.GreaterThan(it.Quantity) {
			return nil, domain.Invalid(field+".received_quantity", "debe estar entre 0 y la cantidad comprada")
		}
		total := it.Quantity.Mul(it.UnitCost).Round(2)
		p.Items = append(p.Items, entity.PurchaseItem{
			ID:               uuid.New().String(),
			PurchaseID:       p.ID,
			ProductID:        it.ProductID,
			Quantity:         it.Quantity,
			ReceivedQuantity: received,
			UnitCost:         it.UnitCost,
			TotalCost:        total,
			Lot:              strings.TrimSpace(it.Lot),
			ExpiresOn:        it.ExpiresOn.TimePtr(),
		})
		p.Subtotal = p.Subtotal.Add(total)
	}
	p.Total = p.Subtotal.Add(p.Tax)
	p.Status = entity.ReceptionStatus(p.Items)

	err = uc.tx.Run(ctx, func(r repository.TxRepos) error {
		// toda línea apunta a un producto vigente, aunque todavía no se reciba nada
		locked := map[string]*entity.Product{}
		for i, it := range p.Items {
			prod, err := lockProduct(ctx, r, locked, it.ProductID)
			if err != nil {
				return err
			}
			if prod.IsDeleted() {
				return domain.Invalid(fmt.Sprintf("items[%d].product_id", i), fmt.Sprintf("el producto %s está dado de baja", prod.ID))
			}
		}
		if err := r.Purchases.Create(ctx, p); err != nil {
			return err
		}
		for _, it := range p.Items {
			if err := uc.receive(ctx, r, locked, p, it, it.ReceivedQuantity, actor, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("purchase_id", p.ID).
		Str("supplier", supplier.Name).
		Str("status", p.Status).
		Str("total", p.Total.StringFixed(2)).
		Str("user", actor.Ref()).
		Msg("compra registrada")
	return toPurchaseResponse(p), nil
}

// ReceivePending da por recibido el saldo de cada línea.
func (uc *PurchaseUseCase) ReceivePending(ctx context.Context, actor dto.Actor, id string) (*dto.PurchaseResponse, error) {
	var out *entity.Purchase
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		p, err := r.Purchases.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.Status == entity.PurchaseStatusCancelled || p.Status == entity.PurchaseStatusReceived {
			return domain.ErrConflict
		}
		now := time.Now()
		locked := map[string]*entity.Product{}
		for i, it := range p.Items {
			pending := it.Pending()
			if !pending.IsPositive() {
				continue
			}
			if err := uc.receive(ctx, r, locked, p, it, pending, actor, now); err != nil {
				return err
			}
			if err := r.Purchases.UpdateItemReceived(ctx, it.ID, it.Quantity); err != nil {
				return err
			}
			p.Items[i].ReceivedQuantity = it.Quantity
		}
		p.Status = entity.PurchaseStatusReceived
		out = p
		return r.Purchases.UpdateStatus(ctx, p.ID, p.Status)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("purchase_id", id).Str("user", actor.Ref()).Msg("compra recibida")
	return toPurchaseResponse(out), nil
}

// Cancel anula la compra y devuelve al proveedor lo recibido. El costo del producto no se recalcula.
func (uc *PurchaseUseCase) Cancel(ctx context.Context, actor dto.Actor, id string) (*dto.PurchaseResponse, error) {
	var out *entity.Purchase
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		p, err := r.Purchases.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.Status == entity.PurchaseStatusCancelled {
			return domain.ErrConflict
		}
		now := time.Now()
		locked := map[string]*entity.Product{}
		for _, it := range p.Items {
			if !it.ReceivedQuantity.IsPositive() {
				continue
			}
			prod, err := lockProduct(ctx, r, locked, it.ProductID)
			if err != nil {
				return err
			}
			if _, err := inventory.RecordInTx(ctx, r, prod, inventory.Movement{
				Type:          entity.MovementSupplierReturn,
				Delta:         it.ReceivedQuantity.Neg(),
				UnitCost:      it.UnitCost,
				UserID:        actor.Ref(),
				ReferenceID:   p.ID,
				ReferenceType: entity.ReferencePurchase,
				Reason:        "Anulación de compra " + p.InvoiceNumber,
				Lot:           it.Lot,
				At:            now,
			}); err != nil {
				return err
			}
		}
		p.Status = entity.PurchaseStatusCancelled
		out = p
		return r.Purchases.UpdateStatus(ctx, p.ID, p.Status)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("purchase_id", id).Str("user", actor.Ref()).Msg("compra anulada")
	return toPurchaseResponse(out), nil
}

// GetByID compra con sus líneas.
func (uc *PurchaseUseCase) GetByID(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toPurchaseResponse(p), nil
}

// List compras más recientes primero.
func (uc *PurchaseUseCase) List(ctx context.Context, q dto.PurchaseListQuery) (*dto.PurchaseListResponse, error) {
	q.DefaultPage()
	list, total, err := uc.purchases.List(ctx, repository.PurchaseFilter{
		SupplierID: q.SupplierID,
		Status:     q.Status,
		From:       q.From,
		To:         q.To,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		p.Items = nil
		items = append(items, *toPurchaseResponse(p))
	}
	return &dto.PurchaseListResponse{
		PageResponse: dto.PageResponse{Total: total, Limit: q.Limit, Offset: q.Offset, Count: len(items)},
		Items:        items,
	}, nil
}

// receive ingresa qty de la línea al stock y recalcula el costo según el método configurado.
func (uc *PurchaseUseCase) receive(ctx context.Context, r repository.TxRepos, locked map[string]*entity.Product,
	p *entity.Purchase, it entity.PurchaseItem, qty decimal.Decimal, actor dto.Actor, at time.Time) error {
	if !qty.IsPositive() {
		return nil
	}
	prod, err := lockProduct(ctx, r, locked, it.ProductID)
	if err != nil {
		return err
	}
	newCost := domaininv.NextCost(uc.costingMethod, prod.Stock, prod.Cost, qty, it.UnitCost)
	reason := "Compra"
	if p.InvoiceNumber != "" {
		reason += " " + p.InvoiceNumber
	}
	_, err = inventory.RecordInTx(ctx, r, prod, inventory.Movement{
		Type:          entity.MovementPurchase,
		Delta:         qty,
		UnitCost:      it.UnitCost,
		NewCost:       &newCost,
		UserID:        actor.Ref(),
		ReferenceID:   p.ID,
		ReferenceType: entity.ReferencePurchase,
		Reason:        reason,
		Lot:           it.Lot,
		ExpiresOn:     it.ExpiresOn,
		At:            at,
	})
	return err
}

func lockProduct(ctx context.Context, r repository.TxRepos, locked map[string]*entity.Product, id string) (*entity.Product, error) {
	if p, ok := locked[id]; ok {
		return p, nil
	}
	p, err := r.Products.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.Invalid("product_id", fmt.Sprintf("el producto %s no existe", id))
	}
	locked[id] = p
	return p, nil
}

func toPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	out := &dto.PurchaseResponse{
		ID:            p.ID,
		SupplierID:    p.SupplierID,
		SupplierName:  p.SupplierName,
		Date:          p.Date,
		InvoiceNumber: p.InvoiceNumber,
		DocumentType:  p.DocumentType,
		CAE:           p.CAE,
		Subtotal:      p.Subtotal,
		Tax:           p.Tax,
		Total:         p.Total,
		Status:        p.Status,
		Notes:         p.Notes,
		UserID:        p.UserID,
		CreatedAt:     p.CreatedAt,
	}
	for _, it := range p.Items {
		out.Items = append(out.Items, dto.PurchaseItemResponse{
			ID:               it.ID,
			ProductID:        it.ProductID,
			Quantity:         it.Quantity,
			ReceivedQuantity: it.ReceivedQuantity,
			UnitCost:         it.UnitCost,
			TotalCost:        it.TotalCost,
			Lot:              it.Lot,
			ExpiresOn:        it.ExpiresOn,
		})
	}
	return out
}
