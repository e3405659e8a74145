package inventory

import (
	"context"
	"sort"

	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/domain/inventory"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

// ReplenishmentUseCase arma la lista de reposición con el proveedor habitual de cada producto.
type ReplenishmentUseCase struct {
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(products repository.ProductRepository, suppliers repository.SupplierRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{products: products, suppliers: suppliers}
}

// Suggestions productos activos en punto de pedido con la cantidad sugerida para llegar al máximo
// (o al doble del mínimo). Ordenados por mayor costo estimado de reposición.
func (uc *ReplenishmentUseCase) Suggestions(ctx context.Context) ([]dto.ReorderSuggestion, error) {
	list, err := uc.products.ListReorderCandidates(ctx)
	if err != nil {
		return nil, err
	}
	names := map[string]string{}
	out := make([]dto.ReorderSuggestion, 0)
	for _, p := range list {
		if !p.IsActive() {
			continue
		}
		qty := inventory.ReorderQuantity(p)
		if !qty.IsPositive() {
			continue
		}
		s := dto.ReorderSuggestion{
			ProductID:         p.ID,
			Name:              p.Name,
			Stock:             p.Stock,
			StockMin:          p.StockMin,
			SuggestedQuantity: qty,
			EstimatedCost:     qty.Mul(p.Cost).Round(2),
			SupplierID:        p.DefaultSupplierID,
		}
		if p.DefaultSupplierID != "" {
			name, ok := names[p.DefaultSupplierID]
			if !ok {
				sp, err := uc.suppliers.GetByID(ctx, p.DefaultSupplierID)
				if err != nil {
					return nil, err
				}
				if sp != nil {
					name = sp.Name
				}
				names[p.DefaultSupplierID] = name
			}
			s.SupplierName = name
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EstimatedCost.GreaterThan(out[j].EstimatedCost)
	})
	return out, nil
}
