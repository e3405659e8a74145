package sales

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
	"github.com/lafuga/gestion-api/internal/application/ports"
	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/pricing"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// SaleUseCase tickets del punto de venta: alta con descuento de stock, consulta, baja y ticket PDF.
type SaleUseCase struct {
	tx       repository.TxRunner
	sales    repository.SaleRepository
	ticket   ports.TicketPDFGenerator
	business ports.BusinessInfo
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(tx repository.TxRunner, sales repository.SaleRepository, ticket ports.TicketPDFGenerator, business ports.BusinessInfo) *SaleUseCase {
	return &SaleUseCase{tx: tx, sales: sales, ticket: ticket, business: business}
}

// Create valida el ticket, calcula precios y descuentos, y en una sola transacción
// bloquea los productos, descuenta stock, guarda la venta y un movimiento VENTA por línea.
func (uc *SaleUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.Invalid("items", "La venta debe tener al menos un item")
	}
	saleType := in.SaleType
	if saleType == "" {
		saleType = entity.SaleTypeRetail
	}
	if !entity.ValidSaleType(saleType) {
		return nil, domain.Invalid("sale_type", "use MINORISTA o MAYORISTA")
	}
	payment := in.PaymentMethod
	if payment == "" {
		payment = entity.PaymentCash
	}
	if !entity.ValidPaymentMethod(payment) {
		return nil, domain.Invalid("payment_method", "medio de pago inválido")
	}
	if err := validPercent("global_discount_pct", in.GlobalDiscountPct); err != nil {
		return nil, err
	}
	if pricing.RequiresAuthorization(actor.Role, in.GlobalDiscountPct) {
		return nil, domain.ErrDiscountNotAuthorized
	}
	for i, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].product_id", i), "el producto es obligatorio")
		}
		if !it.Quantity.IsPositive() {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].quantity", i), "la cantidad debe ser mayor a cero")
		}
		if err := validPercent(fmt.Sprintf("items[%d].discount_pct", i), it.DiscountPct); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	customer := strings.TrimSpace(in.CustomerName)
	if customer == "" {
		customer = entity.DefaultCustomerName
	}
	sale := &entity.Sale{
		ID:                   uuid.New().String(),
		CustomerName:         customer,
		SaleType:             saleType,
		PaymentMethod:        payment,
		GlobalDiscountPct:    in.GlobalDiscountPct,
		GlobalDiscountReason: strings.TrimSpace(in.GlobalDiscountReason),
		Notes:                in.Notes,
		CreatedBy:            actor.Ref(),
		CreatedAt:            now,
	}

	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		locked := map[string]*entity.Product{}
		for i, it := range in.Items {
			p, ok := locked[it.ProductID]
			if !ok {
				var err error
				if p, err = r.Products.GetForUpdate(ctx, it.ProductID); err != nil {
					return err
				}
				if p == nil || p.IsDeleted() {
					return domain.Invalid(fmt.Sprintf("items[%d].product_id", i), "el producto no existe")
				}
				locked[it.ProductID] = p
			}
			line, err := buildLine(p, saleType, it, actor.Role)
			if err != nil {
				return fieldError(i, err)
			}
			line.ID = uuid.New().String()
			line.SaleID = sale.ID
			sale.Items = append(sale.Items, line)
			sale.Subtotal = sale.Subtotal.Add(line.Subtotal)
		}
		sale.GlobalDiscount = pricing.Round2(sale.Subtotal.Mul(sale.GlobalDiscountPct).Div(hundred))
		sale.Total = sale.Subtotal.Sub(sale.GlobalDiscount)

		if err := r.Sales.Create(ctx, sale); err != nil {
			return err
		}
		for _, line := range sale.Items {
			if _, err := inventory.RecordInTx(ctx, r, locked[line.ProductID], inventory.Movement{
				Type:          entity.MovementSale,
				Delta:         line.Quantity.Neg(),
				UnitCost:      line.UnitCost,
				UserID:        actor.Ref(),
				ReferenceID:   sale.ID,
				ReferenceType: entity.ReferenceSale,
				Reason:        fmt.Sprintf("Venta #%d", sale.Number),
				At:            now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("sale_id", sale.ID).
		Int64("number", sale.Number).
		Str("total", sale.Total.StringFixed(2)).
		Int("items", len(sale.Items)).
		Str("user", actor.Ref()).
		Msg("venta registrada")
	return toSaleResponse(sale, len(sale.Items)), nil
}

// buildLine calcula los importes de una línea y controla el descuento efectivo contra el rol.
func buildLine(p *entity.Product, saleType string, it dto.SaleItemRequest, role string) (entity.SaleItem, error) {
	if !pricing.IsSellable(p) {
		return entity.SaleItem{}, domain.Invalid("product_id", fmt.Sprintf("%s no está disponible para la venta", p.Name))
	}
	if !p.AllowFractional && !it.Quantity.Equal(it.Quantity.Truncate(0)) {
		return entity.SaleItem{}, domain.Invalid("quantity", fmt.Sprintf("%s no se vende fraccionado", p.Name))
	}
	priceType := it.PriceType
	if priceType == "" {
		priceType = pricing.DefaultPriceType(saleType)
	}
	var listPrice, unit decimal.Decimal
	switch priceType {
	case entity.PriceTypeRetail, entity.PriceTypeWholesale:
		listPrice = pricing.ListPrice(p, priceType)
		unit = listPrice
	case entity.PriceTypeCustom:
		if it.UnitPrice == nil || it.UnitPrice.IsNegative() {
			return entity.SaleItem{}, domain.Invalid("unit_price", "el precio personalizado es obligatorio y no puede ser negativo")
		}
		listPrice = p.RetailPrice
		unit = *it.UnitPrice
	default:
		return entity.SaleItem{}, domain.Invalid("price_type", "use menor, mayor o custom")
	}

	final := pricing.PriceWithDiscount(unit, it.DiscountPct)
	if pricing.RequiresAuthorization(role, pricing.DiscountPercent(listPrice, final)) {
		return entity.SaleItem{}, domain.ErrDiscountNotAuthorized
	}
	subtotal := pricing.Round2(it.Quantity.Mul(final))
	return entity.SaleItem{
		ProductID:       p.ID,
		ProductCode:     p.ID,
		ProductName:     p.Name,
		Quantity:        it.Quantity,
		PriceType:       priceType,
		ListPrice:       listPrice,
		UnitPrice:       final,
		UnitCost:        p.Cost,
		LineDiscountPct: it.DiscountPct,
		LineDiscount:    pricing.Round2(it.Quantity.Mul(unit).Sub(subtotal)),
		Subtotal:        subtotal,
	}, nil
}

// List tickets más recientes primero.
func (uc *SaleUseCase) List(ctx context.Context, q dto.SaleListQuery) (*dto.SaleListResponse, error) {
	q.DefaultPage()
	if q.SaleType != "" && !entity.ValidSaleType(q.SaleType) {
		return nil, domain.Invalid("sale_type", "use MINORISTA o MAYORISTA")
	}
	list, total, err := uc.sales.List(ctx, repository.SaleFilter{
		SaleType: q.SaleType,
		Query:    strings.TrimSpace(q.Query),
		From:     q.From,
		To:       q.To,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for i := range list {
		s := list[i].Sale
		s.Items = nil
		items = append(items, *toSaleResponse(&s, list[i].ItemCount))
	}
	return &dto.SaleListResponse{
		PageResponse: dto.PageResponse{Total: total, Limit: q.Limit, Offset: q.Offset, Count: len(items)},
		Items:        items,
	}, nil
}

// GetByID ticket con sus líneas.
func (uc *SaleUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	s, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSaleResponse(s, len(s.Items)), nil
}

// Delete borra el ticket y devuelve el stock con un movimiento DEVOLUCION_CLIENTE por línea.
func (uc *SaleUseCase) Delete(ctx context.Context, actor dto.Actor, id string) error {
	var number int64
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		s, err := r.Sales.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		number = s.Number
		now := time.Now()
		locked := map[string]*entity.Product{}
		for _, it := range s.Items {
			p, ok := locked[it.ProductID]
			if !ok {
				if p, err = r.Products.GetForUpdate(ctx, it.ProductID); err != nil {
					return err
				}
				if p == nil {
					continue
				}
				locked[it.ProductID] = p
			}
			if _, err := inventory.RecordInTx(ctx, r, p, inventory.Movement{
				Type:          entity.MovementCustomerReturn,
				Delta:         it.Quantity,
				UnitCost:      it.UnitCost,
				UserID:        actor.Ref(),
				ReferenceID:   s.ID,
				ReferenceType: entity.ReferenceSale,
				Reason:        fmt.Sprintf("Eliminación del ticket #%d", s.Number),
				At:            now,
			}); err != nil {
				return err
			}
		}
		return r.Sales.Delete(ctx, s.ID)
	})
	if err != nil {
		return err
	}
	log.Info().Str("sale_id", id).Int64("number", number).Str("user", actor.Ref()).Msg("venta eliminada")
	return nil
}

// Stats totales del período [from, to]; ambos extremos son inclusivos.
func (uc *SaleUseCase) Stats(ctx context.Context, from, to *time.Time) (*dto.SaleStatsResponse, error) {
	st, err := uc.sales.Stats(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &dto.SaleStatsResponse{
		TotalSales:      st.TotalSales,
		TotalAmount:     st.TotalAmount,
		WholesaleCount:  st.WholesaleCount,
		WholesaleAmount: st.WholesaleAmount,
		RetailCount:     st.RetailCount,
		RetailAmount:    st.RetailAmount,
	}, nil
}

// TicketPDF ticket de 80 mm listo para imprimir. Devuelve también el número para el nombre del archivo.
func (uc *SaleUseCase) TicketPDF(ctx context.Context, id string) ([]byte, int64, error) {
	s, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if s == nil {
		return nil, 0, domain.ErrNotFound
	}
	b, err := uc.ticket.GenerateTicketPDF(ctx, uc.business, s)
	if err != nil {
		return nil, 0, err
	}
	return b, s.Number, nil
}

func validPercent(field string, pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return domain.Invalid(field, "el porcentaje debe estar entre 0 y 100")
	}
	return nil
}

// fieldError prefija el campo de una validación con el índice de la línea.
func fieldError(i int, err error) error {
	if v, ok := err.(*domain.ValidationError); ok {
		return domain.Invalid(fmt.Sprintf("items[%d].%s", i, v.Field), v.Message)
	}
	return err
}

func toSaleResponse(s *entity.Sale, itemCount int) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:                   s.ID,
		Number:               s.Number,
		CustomerName:         s.CustomerName,
		SaleType:             s.SaleType,
		PaymentMethod:        s.PaymentMethod,
		Subtotal:             s.Subtotal,
		GlobalDiscountPct:    s.GlobalDiscountPct,
		GlobalDiscount:       s.GlobalDiscount,
		GlobalDiscountReason: s.GlobalDiscountReason,
		Total:                s.Total,
		Notes:                s.Notes,
		CreatedBy:            s.CreatedBy,
		CreatedAt:            s.CreatedAt,
		ItemCount:            itemCount,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ProductID:       it.ProductID,
			ProductCode:     it.ProductCode,
			ProductName:     it.ProductName,
			Quantity:        it.Quantity,
			PriceType:       it.PriceType,
			ListPrice:       it.ListPrice,
			UnitPrice:       it.UnitPrice,
			LineDiscountPct: it.LineDiscountPct,
			LineDiscount:    it.LineDiscount,
			Subtotal:        it.Subtotal,
		})
	}
	return out
}
