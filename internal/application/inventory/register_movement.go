package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/inventory"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

// Movement datos de un movimiento sobre un producto ya bloqueado en la transacción.
// Delta es positivo para entradas y negativo para salidas.
type Movement struct {
	Type          string
	Delta         decimal.Decimal
	UnitCost      decimal.Decimal
	NewCost       *decimal.Decimal // solo compras: costo resultante del producto
	UserID        string
	ReferenceID   string
	ReferenceType string
	Reason        string
	Lot           string
	ExpiresOn     *time.Time
	At            time.Time
}

// RecordInTx aplica el movimiento al stock del producto y lo registra usando los repositorios
// de la transacción del caller (ventas, compras, ajustes). p debe venir de GetForUpdate.
func RecordInTx(ctx context.Context, r repository.TxRepos, p *entity.Product, m Movement) (*entity.StockMovement, error) {
	prev, next, err := inventory.ApplyDelta(p, m.Delta)
	if err != nil {
		return nil, err
	}
	if m.NewCost != nil {
		if err := r.Products.UpdateStockAndCost(ctx, p.ID, next, *m.NewCost); err != nil {
			return nil, err
		}
		p.Cost = *m.NewCost
	} else if err := r.Products.UpdateStock(ctx, p.ID, next); err != nil {
		return nil, err
	}

	at := m.At
	if at.IsZero() {
		at = time.Now()
	}
	mov := inventory.NewMovement(p, m.Type, m.Delta, prev, next, m.UnitCost)
	mov.ID = uuid.New().String()
	mov.UserID = m.UserID
	mov.ReferenceID = m.ReferenceID
	mov.ReferenceType = m.ReferenceType
	mov.Reason = m.Reason
	mov.Lot = m.Lot
	mov.ExpiresOn = m.ExpiresOn
	mov.CreatedAt = at
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}
