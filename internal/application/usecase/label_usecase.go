package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/lafuga/gestion-api/internal/application/ports"
	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/pricing"
	"github.com/lafuga/gestion-api/internal/domain/repository"
	"github.com/lafuga/gestion-api/pkg/money"
)

// maxLabels tope de etiquetas por documento.
const maxLabels = 300

// LabelUseCase etiquetas de góndola en PDF.
type LabelUseCase struct {
	repo     repository.ProductRepository
	pdf      ports.LabelPDFGenerator
	business ports.BusinessInfo
}

// NewLabelUseCase construye el caso de uso.
func NewLabelUseCase(repo repository.ProductRepository, pdf ports.LabelPDFGenerator, business ports.BusinessInfo) *LabelUseCase {
	return &LabelUseCase{repo: repo, pdf: pdf, business: business}
}

// PDF etiquetas de los productos pedidos, en el orden recibido. Los eliminados se omiten.
func (uc *LabelUseCase) PDF(ctx context.Context, ids []string) ([]byte, error) {
	var clean []string
	seen := map[string]bool{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		clean = append(clean, id)
	}
	if len(clean) == 0 {
		return nil, domain.Invalid("ids", "indique al menos un producto")
	}
	if len(clean) > maxLabels {
		return nil, domain.Invalid("ids", fmt.Sprintf("máximo %d etiquetas por documento", maxLabels))
	}

	list, _, err := uc.repo.Search(ctx, repository.ProductFilter{IDs: clean})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Product, len(list))
	for _, p := range list {
		byID[p.ID] = p
	}
	labels := make([]ports.ShelfLabel, 0, len(clean))
	for _, id := range clean {
		if p, ok := byID[id]; ok {
			labels = append(labels, toShelfLabel(p))
		}
	}
	if len(labels) == 0 {
		return nil, domain.ErrNotFound
	}
	return uc.pdf.GenerateLabelsPDF(ctx, uc.business, labels)
}

func toShelfLabel(p *entity.Product) ports.ShelfLabel {
	l := ports.ShelfLabel{
		Code:           p.ID,
		Name:           p.Name,
		Barcode:        p.Barcode,
		RetailPrice:    p.RetailPrice,
		WholesalePrice: p.WholesalePrice,
	}
	if v := pricing.PricePerKg(p); v != nil {
		l.UnitPriceLabel = money.Format(*v) + " x kg"
	} else if v := pricing.PricePerLiter(p); v != nil {
		l.UnitPriceLabel = money.Format(*v) + " x litro"
	}
	return l
}
