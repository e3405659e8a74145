// Package catalog arma listas de precios para clientes, con enlace público que vence.
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/application/ports"
	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/pricing"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

// Options parámetros del enlace público.
type Options struct {
	PublicBaseURL string
	LinkTTL       time.Duration
	Business      ports.BusinessInfo
}

// CatalogUseCase alta, consulta, renovación y PDF de catálogos compartidos.
type CatalogUseCase struct {
	catalogs repository.CatalogRepository
	products repository.ProductRepository
	pdf      ports.CatalogPDFGenerator
	opts     Options
	now      func() time.Time
}

// NewCatalogUseCase construye el caso de uso. Un TTL no positivo se toma como 7 días.
func NewCatalogUseCase(catalogs repository.CatalogRepository, products repository.ProductRepository, pdf ports.CatalogPDFGenerator, opts Options) *CatalogUseCase {
	if opts.LinkTTL <= 0 {
		opts.LinkTTL = 7 * 24 * time.Hour
	}
	opts.PublicBaseURL = strings.TrimRight(opts.PublicBaseURL, "/")
	return &CatalogUseCase{catalogs: catalogs, products: products, pdf: pdf, opts: opts, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *CatalogUseCase) WithClock(now func() time.Time) *CatalogUseCase {
	uc.now = now
	return uc
}

// Create guarda el catálogo con un token nuevo que vence en LinkTTL.
func (uc *CatalogUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateCatalogRequest) (*dto.CatalogResponse, error) {
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		return nil, domain.Invalid("customer_name", "el nombre del cliente es obligatorio")
	}
	if err := validDiscount("global_discount", in.GlobalDiscount); err != nil {
		return nil, err
	}
	items, err := uc.buildItems(ctx, in.GlobalDiscount, in.Items)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = entity.DefaultCatalogTitle
	}
	fields := entity.DefaultVisibleFields()
	if in.VisibleFields != nil {
		fields = fromFieldsDTO(*in.VisibleFields)
	}

	now := uc.now()
	c := &entity.Catalog{
		ID:             uuid.New().String(),
		CustomerName:   name,
		Title:          title,
		PublicToken:    newToken(),
		ExpiresAt:      now.Add(uc.opts.LinkTTL),
		GlobalDiscount: in.GlobalDiscount,
		VisibleFields:  fields,
		Items:          items,
		Status:         entity.CatalogStatusActive,
		CreatedBy:      actor.Ref(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.catalogs.Create(ctx, c); err != nil {
		return nil, err
	}
	log.Info().Str("catalog_id", c.ID).Str("customer", name).Int("items", len(items)).Str("user", actor.Ref()).Msg("catálogo creado")
	return uc.resolve(ctx, c)
}

// List catálogos sin productos resueltos.
func (uc *CatalogUseCase) List(ctx context.Context, q dto.CatalogListQuery) (*dto.CatalogListResponse, error) {
	q.DefaultPage()
	now := uc.now()
	list, total, err := uc.catalogs.List(ctx, repository.CatalogFilter{
		IncludeExpired: q.IncludeExpired,
		Now:            now,
		Limit:          q.Limit,
		Offset:         q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.CatalogResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *uc.toResponse(c, now))
	}
	return &dto.CatalogListResponse{
		PageResponse: dto.PageResponse{Total: total, Limit: q.Limit, Offset: q.Offset, Count: len(items)},
		Items:        items,
	}, nil
}

// GetByID catálogo con productos y precios finales.
func (uc *CatalogUseCase) GetByID(ctx context.Context, id string) (*dto.CatalogResponse, error) {
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.resolve(ctx, c)
}

// Public vista del cliente. Un token inexistente, eliminado o vencido da ErrExpired.
func (uc *CatalogUseCase) Public(ctx context.Context, token string) (*dto.PublicCatalogResponse, error) {
	c, err := uc.publicCatalog(ctx, token)
	if err != nil {
		return nil, err
	}
	full, err := uc.resolve(ctx, c)
	if err != nil {
		return nil, err
	}
	products := make([]dto.CatalogProductDTO, 0, len(full.Products))
	for _, p := range full.Products {
		if !p.Available {
			continue
		}
		products = append(products, publicProduct(p, c.VisibleFields))
	}
	return &dto.PublicCatalogResponse{
		CustomerName:  c.CustomerName,
		Title:         c.Title,
		ExpiresAt:     c.ExpiresAt,
		VisibleFields: toFieldsDTO(c.VisibleFields),
		Products:      products,
	}, nil
}

// Renew genera un token nuevo y extiende el vencimiento.
func (uc *CatalogUseCase) Renew(ctx context.Context, actor dto.Actor, id string) (*dto.CatalogResponse, error) {
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	c.PublicToken = newToken()
	c.ExpiresAt = now.Add(uc.opts.LinkTTL)
	c.Status = entity.CatalogStatusActive
	c.UpdatedAt = now
	if err := uc.catalogs.Update(ctx, c); err != nil {
		return nil, err
	}
	log.Info().Str("catalog_id", c.ID).Time("expires_at", c.ExpiresAt).Str("user", actor.Ref()).Msg("enlace de catálogo renovado")
	return uc.toResponse(c, now), nil
}

// Update modificación parcial; Items no nil reemplaza la lista.
func (uc *CatalogUseCase) Update(ctx context.Context, actor dto.Actor, id string, in dto.UpdateCatalogRequest) (*dto.CatalogResponse, error) {
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CustomerName != nil {
		name := strings.TrimSpace(*in.CustomerName)
		if name == "" {
			return nil, domain.Invalid("customer_name", "el nombre del cliente es obligatorio")
		}
		c.CustomerName = name
	}
	if in.Title != nil {
		c.Title = strings.TrimSpace(*in.Title)
		if c.Title == "" {
			c.Title = entity.DefaultCatalogTitle
		}
	}
	if in.GlobalDiscount != nil {
		if err := validDiscount("global_discount", *in.GlobalDiscount); err != nil {
			return nil, err
		}
		c.GlobalDiscount = *in.GlobalDiscount
	}
	if in.VisibleFields != nil {
		c.VisibleFields = fromFieldsDTO(*in.VisibleFields)
	}
	if in.Items != nil {
		items, err := uc.buildItems(ctx, c.GlobalDiscount, in.Items)
		if err != nil {
			return nil, err
		}
		c.Items = items
	} else {
		// el global nuevo sigue sumado a los individuales existentes
		for i, it := range c.Items {
			if c.GlobalDiscount.Add(it.IndividualDiscount).GreaterThan(decimal.NewFromInt(100)) {
				return nil, domain.Invalid(fmt.Sprintf("items[%d].individual_discount", i), "el descuento total supera el 100%")
			}
		}
	}
	c.UpdatedAt = uc.now()
	if err := uc.catalogs.Update(ctx, c); err != nil {
		return nil, err
	}
	log.Info().Str("catalog_id", c.ID).Str("user", actor.Ref()).Msg("catálogo actualizado")
	return uc.resolve(ctx, c)
}

// Delete baja lógica: el enlace público deja de funcionar.
func (uc *CatalogUseCase) Delete(ctx context.Context, actor dto.Actor, id string) error {
	c, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	c.Status = entity.CatalogStatusDeleted
	c.UpdatedAt = uc.now()
	if err := uc.catalogs.Update(ctx, c); err != nil {
		return err
	}
	log.Info().Str("catalog_id", c.ID).Str("user", actor.Ref()).Msg("catálogo eliminado")
	return nil
}

// Share URL pública y mensaje listo para enviar por WhatsApp.
func (uc *CatalogUseCase) Share(ctx context.Context, id string) (*dto.CatalogShareResponse, error) {
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.IsPubliclyVisible(uc.now()) {
		return nil, domain.ErrExpired
	}
	link := uc.publicURL(c.PublicToken)
	text := fmt.Sprintf("¡Hola %s! Te comparto nuestro %s: %s\nVálido hasta el %s.",
		c.CustomerName, strings.ToLower(c.Title), link, c.ExpiresAt.Format("02/01/2006"))
	return &dto.CatalogShareResponse{
		URL:          link,
		WhatsAppText: text,
		WhatsAppURL:  "https://wa.me/?text=" + url.QueryEscape(text),
		ExpiresAt:    c.ExpiresAt,
	}, nil
}

// PDF documento A4 del catálogo con las columnas visibles. Devuelve también el nombre del cliente.
func (uc *CatalogUseCase) PDF(ctx context.Context, id string) ([]byte, string, error) {
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return uc.render(ctx, c)
}

// PublicPDF igual que PDF pero por token, con las mismas reglas de vigencia que Public.
func (uc *CatalogUseCase) PublicPDF(ctx context.Context, token string) ([]byte, string, error) {
	c, err := uc.publicCatalog(ctx, token)
	if err != nil {
		return nil, "", err
	}
	return uc.render(ctx, c)
}

func (uc *CatalogUseCase) render(ctx context.Context, c *entity.Catalog) ([]byte, string, error) {
	full, err := uc.resolve(ctx, c)
	if err != nil {
		return nil, "", err
	}
	doc := ports.CatalogDocument{
		Business:     uc.opts.Business,
		CustomerName: c.CustomerName,
		Title:        c.Title,
		ExpiresAt:    c.ExpiresAt,
		Fields:       c.VisibleFields,
	}
	for _, p := range full.Products {
		if !p.Available {
			continue
		}
		doc.Rows = append(doc.Rows, ports.CatalogRow{
			Code:        p.Code,
			Name:        p.Name,
			Description: p.Description,
			Unit:        p.Unit,
			ImageURL:    p.ImageURL,
			Price:       *p.FinalPrice,
		})
	}
	out, err := uc.pdf.GenerateCatalogPDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("generando PDF del catálogo: %w", err)
	}
	return out, c.CustomerName, nil
}

func (uc *CatalogUseCase) get(ctx context.Context, id string) (*entity.Catalog, error) {
	c, err := uc.catalogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.Status == entity.CatalogStatusDeleted {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (uc *CatalogUseCase) publicCatalog(ctx context.Context, token string) (*entity.Catalog, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrExpired
	}
	c, err := uc.catalogs.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if c == nil || !c.IsPubliclyVisible(uc.now()) {
		return nil, domain.ErrExpired
	}
	return c, nil
}

func (uc *CatalogUseCase) buildItems(ctx context.Context, global decimal.Decimal, in []dto.CatalogItemRequest) ([]entity.CatalogItem, error) {
	if len(in) == 0 {
		return nil, domain.Invalid("items", "el catálogo debe tener al menos un producto")
	}
	seen := make(map[string]bool, len(in))
	out := make([]entity.CatalogItem, 0, len(in))
	for i, it := range in {
		field := fmt.Sprintf("items[%d]", i)
		id := strings.TrimSpace(it.ProductID)
		if id == "" {
			return nil, domain.Invalid(field+".product_id", "el producto es obligatorio")
		}
		if seen[id] {
			return nil, domain.Invalid(field+".product_id", "producto repetido")
		}
		seen[id] = true
		if err := validDiscount(field+".individual_discount", it.IndividualDiscount); err != nil {
			return nil, err
		}
		if global.Add(it.IndividualDiscount).GreaterThan(decimal.NewFromInt(100)) {
			return nil, domain.Invalid(field+".individual_discount", "el descuento total supera el 100%")
		}
		if it.CustomPrice != nil && it.CustomPrice.IsNegative() {
			return nil, domain.Invalid(field+".custom_price", "el precio no puede ser negativo")
		}
		p, err := uc.products.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil || p.IsDeleted() {
			return nil, domain.Invalid(field+".product_id", fmt.Sprintf("el producto %s no existe", id))
		}
		out = append(out, entity.CatalogItem{ProductID: id, IndividualDiscount: it.IndividualDiscount, CustomPrice: it.CustomPrice})
	}
	return out, nil
}

// resolve completa los productos; los borrados después del alta quedan como no disponibles.
func (uc *CatalogUseCase) resolve(ctx context.Context, c *entity.Catalog) (*dto.CatalogResponse, error) {
	out := uc.toResponse(c, uc.now())
	out.Products = make([]dto.CatalogProductDTO, 0, len(c.Items))
	for _, it := range c.Items {
		p, err := uc.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil || p.IsDeleted() {
			out.Products = append(out.Products, dto.CatalogProductDTO{ProductID: it.ProductID})
			continue
		}
		base := p.WholesalePrice
		disc := it.IndividualDiscount
		final := pricing.CatalogFinalPrice(base, c.GlobalDiscount, it)
		out.Products = append(out.Products, dto.CatalogProductDTO{
			ProductID:          p.ID,
			Code:               p.ID,
			Name:               p.Name,
			Description:        p.Description,
			Unit:               p.Unit,
			ImageURL:           p.ImageURL,
			BasePrice:          &base,
			IndividualDiscount: &disc,
			CustomPrice:        it.CustomPrice,
			FinalPrice:         &final,
			Available:          p.IsActive(),
		})
	}
	return out, nil
}

func (uc *CatalogUseCase) toResponse(c *entity.Catalog, now time.Time) *dto.CatalogResponse {
	return &dto.CatalogResponse{
		ID:             c.ID,
		CustomerName:   c.CustomerName,
		Title:          c.Title,
		PublicToken:    c.PublicToken,
		PublicURL:      uc.publicURL(c.PublicToken),
		ExpiresAt:      c.ExpiresAt,
		GlobalDiscount: c.GlobalDiscount,
		VisibleFields:  toFieldsDTO(c.VisibleFields),
		Status:         c.EffectiveStatus(now),
		CreatedBy:      c.CreatedBy,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		ItemCount:      len(c.Items),
	}
}

func (uc *CatalogUseCase) publicURL(token string) string {
	return uc.opts.PublicBaseURL + "/catalogo/" + token
}

// publicProduct deja solo lo que el cliente puede ver; nunca precio base ni descuentos.
// El ID del producto es el código interno: sale solo si el código es visible.
func publicProduct(p dto.CatalogProductDTO, f entity.VisibleFields) dto.CatalogProductDTO {
	out := dto.CatalogProductDTO{Available: true}
	if f.Code {
		out.ProductID = p.ProductID
		out.Code = p.Code
	}
	if f.Name {
		out.Name = p.Name
	}
	if f.Description {
		out.Description = p.Description
	}
	if f.Unit {
		out.Unit = p.Unit
	}
	if f.Photo {
		out.ImageURL = p.ImageURL
	}
	if f.Price {
		out.FinalPrice = p.FinalPrice
	}
	return out
}

func validDiscount(field string, v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThan(decimal.NewFromInt(100)) {
		return domain.Invalid(field, "el descuento debe estar entre 0 y 100")
	}
	return nil
}

// newToken 32 caracteres hexadecimales a partir de un UUID aleatorio.
func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func toFieldsDTO(f entity.VisibleFields) dto.VisibleFieldsDTO {
	return dto.VisibleFieldsDTO{Photo: f.Photo, Name: f.Name, Price: f.Price, Code: f.Code, Description: f.Description, Unit: f.Unit}
}

func fromFieldsDTO(f dto.VisibleFieldsDTO) entity.VisibleFields {
	return entity.VisibleFields{Photo: f.Photo, Name: f.Name, Price: f.Price, Code: f.Code, Description: f.Description, Unit: f.Unit}
}
