package inventory

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/inventory"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

const minReasonLength = 5

// StockUseCase ajustes por conteo, stock inicial, historial de movimientos y alertas.
// Toda escritura de stock corre en una transacción con la fila del producto bloqueada (SELECT FOR UPDATE).
type StockUseCase struct {
	tx        repository.TxRunner
	products  repository.ProductRepository
	movements repository.StockMovementRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(tx repository.TxRunner, products repository.ProductRepository, movements repository.StockMovementRepository) *StockUseCase {
	return &StockUseCase{tx: tx, products: products, movements: movements}
}

// Adjust fija el stock en la cantidad contada y registra la diferencia al costo actual.
// Sin diferencia devuelve ErrNoChange.
func (uc *StockUseCase) Adjust(ctx context.Context, actor dto.Actor, in dto.AdjustStockRequest) (*dto.MovementResponse, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, domain.Invalid("product_id", "el producto es obligatorio")
	}
	if in.ActualQuantity.IsNegative() {
		return nil, domain.Invalid("actual_quantity", "no puede ser negativa")
	}
	if !entity.IsAdjustmentType(in.Type) {
		return nil, domain.Invalid("type", "tipo de ajuste inválido")
	}
	reason := strings.TrimSpace(in.Reason)
	if len([]rune(reason)) < minReasonLength {
		return nil, domain.Invalid("reason", "el motivo debe tener al menos 5 caracteres")
	}

	var out *entity.StockMovement
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		p, err := r.Products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil || p.IsDeleted() {
			return domain.ErrNotFound
		}
		diff := in.ActualQuantity.Sub(p.Stock)
		if diff.IsZero() {
			return domain.ErrNoChange
		}
		if !p.AllowFractional && !in.ActualQuantity.Equal(in.ActualQuantity.Truncate(0)) {
			return domain.Invalid("actual_quantity", "el producto no admite cantidades fraccionadas")
		}
		out, err = RecordInTx(ctx, r, p, Movement{
			Type:          in.Type,
			Delta:         diff,
			UnitCost:      p.Cost,
			UserID:        actor.Ref(),
			ReferenceType: entity.ReferenceAdjustment,
			Reason:        reason,
			Lot:           in.Lot,
			ExpiresOn:     in.ExpiresOn.TimePtr(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("product_id", in.ProductID).
		Str("type", in.Type).
		Str("diff", out.Quantity.String()).
		Str("user", actor.Ref()).
		Msg("ajuste de stock")
	return toMovementResponse(out), nil
}

// InitialStock carga el stock de arranque de un producto que todavía no tiene movimientos.
func (uc *StockUseCase) InitialStock(ctx context.Context, actor dto.Actor, in dto.InitialStockRequest) (*dto.MovementResponse, error) {
	if !in.Quantity.IsPositive() {
		return nil, domain.Invalid("quantity", "debe ser mayor a cero")
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, domain.Invalid("unit_cost", "no puede ser negativo")
	}
	var out *entity.StockMovement
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		p, err := r.Products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil || p.IsDeleted() {
			return domain.ErrNotFound
		}
		n, err := r.Movements.CountByProduct(ctx, p.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrConflict
		}
		m := Movement{
			Type:          entity.MovementInitialStock,
			Delta:         in.Quantity.Sub(p.Stock),
			UnitCost:      p.Cost,
			UserID:        actor.Ref(),
			ReferenceType: entity.ReferenceAdjustment,
			Reason:        strings.TrimSpace(in.Reason),
		}
		if m.Reason == "" {
			m.Reason = "Inventario inicial"
		}
		if in.UnitCost != nil {
			m.UnitCost = *in.UnitCost
			m.NewCost = in.UnitCost
		}
		out, err = RecordInTx(ctx, r, p, m)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(out), nil
}

// Movements historial filtrado, más reciente primero (50 por defecto, 200 como máximo).
func (uc *StockUseCase) Movements(ctx context.Context, q dto.MovementListQuery) (*dto.MovementListResponse, error) {
	q.Normalize(50, 200)
	if q.Type != "" && !entity.ValidMovementType(q.Type) {
		return nil, domain.Invalid("type", "tipo de movimiento inválido")
	}
	list, total, err := uc.movements.List(ctx, repository.MovementFilter{
		ProductID: q.ProductID,
		Type:      q.Type,
		From:      q.From,
		To:        q.To,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Total: total}, nil
}

// Alerts productos en o bajo su mínimo: críticos primero y luego por stock ascendente.
func (uc *StockUseCase) Alerts(ctx context.Context) (*dto.StockAlertsResponse, error) {
	list, err := uc.products.ListStockAlerts(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.StockAlertsResponse{Items: make([]dto.StockAlertItem, 0, len(list))}
	for _, p := range list {
		if !p.IsActive() {
			continue
		}
		level := inventory.AlertLevel(p)
		if level == "" {
			continue
		}
		if level == inventory.AlertCritical {
			out.Critical++
		} else {
			out.Warning++
		}
		out.Items = append(out.Items, dto.StockAlertItem{
			ProductID: p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Stock:     p.Stock,
			StockMin:  p.StockMin,
			Level:     level,
		})
	}
	sort.SliceStable(out.Items, func(i, j int) bool {
		a, b := out.Items[i], out.Items[j]
		if a.Level != b.Level {
			return a.Level == inventory.AlertCritical
		}
		return a.Stock.LessThan(b.Stock)
	})
	out.Total = len(out.Items)
	return out, nil
}

func toMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		Type:           m.Type,
		Quantity:       m.Quantity,
		PreviousStock:  m.PreviousStock,
		ResultingStock: m.ResultingStock,
		UnitCost:       m.UnitCost,
		TotalCost:      m.TotalCost,
		UserID:         m.UserID,
		ReferenceID:    m.ReferenceID,
		ReferenceType:  m.ReferenceType,
		Reason:         m.Reason,
		Lot:            m.Lot,
		ExpiresOn:      m.ExpiresOn,
		CreatedAt:      m.CreatedAt,
	}
}
