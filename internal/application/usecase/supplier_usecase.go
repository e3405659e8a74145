package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

// SupplierUseCase alta, edición y listados de proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso con el puerto de persistencia.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create da de alta un proveedor activo. CUIT duplicado devuelve ErrDuplicate.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "el nombre es obligatorio")
	}
	now := time.Now()
	s := &entity.Supplier{
		ID:           uuid.New().String(),
		Name:         name,
		TaxID:        strings.TrimSpace(in.TaxID),
		Contact:      in.Contact,
		Phone:        in.Phone,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Address:      in.Address,
		PaymentTerms: in.PaymentTerms,
		Notes:        in.Notes,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// Update actualización parcial.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("name", "el nombre es obligatorio")
		}
		s.Name = name
	}
	if in.TaxID != nil {
		s.TaxID = strings.TrimSpace(*in.TaxID)
	}
	if in.Contact != nil {
		s.Contact = *in.Contact
	}
	if in.Phone != nil {
		s.Phone = *in.Phone
	}
	if in.Email != nil {
		s.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Address != nil {
		s.Address = *in.Address
	}
	if in.PaymentTerms != nil {
		s.PaymentTerms = *in.PaymentTerms
	}
	if in.Notes != nil {
		s.Notes = *in.Notes
	}
	if in.Active != nil {
		s.Active = *in.Active
	}
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// SetActive activa o desactiva el proveedor.
func (uc *SupplierUseCase) SetActive(ctx context.Context, id string, active bool) (*dto.SupplierResponse, error) {
	return uc.Update(ctx, id, dto.UpdateSupplierRequest{Active: &active})
}

// GetByID obtiene un proveedor.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSupplierResponse(s), nil
}

// List listado paginado (50 por defecto).
func (uc *SupplierUseCase) List(ctx context.Context, q dto.SupplierListQuery) (*dto.SupplierListResponse, error) {
	q.Normalize(50, 200)
	list, total, err := uc.repo.List(ctx, repository.SupplierFilter{
		Query:  strings.TrimSpace(q.Query),
		Active: q.Active,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplierResponse(s))
	}
	return &dto.SupplierListResponse{
		PageResponse: dto.PageResponse{Total: total, Limit: q.Limit, Offset: q.Offset, Count: len(items)},
		Items:        items,
	}, nil
}

// Active proveedores activos para selectores, sin paginar.
func (uc *SupplierUseCase) Active(ctx context.Context) ([]dto.SupplierResponse, error) {
	active := true
	list, _, err := uc.repo.List(ctx, repository.SupplierFilter{Active: &active})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:           s.ID,
		Name:         s.Name,
		TaxID:        s.TaxID,
		Contact:      s.Contact,
		Phone:        s.Phone,
		Email:        s.Email,
		Address:      s.Address,
		PaymentTerms: s.PaymentTerms,
		Notes:        s.Notes,
		Active:       s.Active,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
