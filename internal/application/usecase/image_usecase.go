package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/application/ports"
	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

const defaultSyncPause = 500 * time.Millisecond

// ImageUseCase busca y guarda la imagen de los productos. Los buscadores se prueban en orden.
type ImageUseCase struct {
	repo    repository.ProductRepository
	finders []ports.ImageFinder
	pause   time.Duration
}

// NewImageUseCase construye el caso de uso. finders en orden de prioridad (OpenFoodFacts primero).
func NewImageUseCase(repo repository.ProductRepository, finders ...ports.ImageFinder) *ImageUseCase {
	return &ImageUseCase{repo: repo, finders: finders, pause: defaultSyncPause}
}

// WithSyncPause cambia la pausa entre productos de la sincronización masiva.
func (uc *ImageUseCase) WithSyncPause(d time.Duration) *ImageUseCase {
	uc.pause = d
	return uc
}

// Find devuelve la imagen guardada o la busca en los proveedores y la persiste.
func (uc *ImageUseCase) Find(ctx context.Context, productID string) (*dto.ProductImageResponse, error) {
	p, err := uc.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	if p.ImageURL != "" {
		out := toImageResponse(p)
		out.Cached = true
		return out, nil
	}
	if err := uc.search(ctx, p); err != nil {
		return nil, err
	}
	return toImageResponse(p), nil
}

// SetManual guarda una URL cargada a mano.
func (uc *ImageUseCase) SetManual(ctx context.Context, productID string, in dto.SetImageRequest) (*dto.ProductImageResponse, error) {
	raw := strings.TrimSpace(in.ImageURL)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, domain.Invalid("image_url", "debe ser una URL http(s)")
	}
	p, err := uc.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.saveImage(ctx, p, raw, entity.ImageSourceManual); err != nil {
		return nil, err
	}
	return toImageResponse(p), nil
}

// Clear borra la imagen; el producto vuelve a quedar pendiente de búsqueda.
func (uc *ImageUseCase) Clear(ctx context.Context, productID string) error {
	p, err := uc.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return uc.repo.UpdateImage(ctx, p.ID, "", "", nil)
}

// Sync busca imágenes de productos nunca buscados, de a uno con una pausa entre llamadas.
func (uc *ImageUseCase) Sync(ctx context.Context, limit int) (*dto.ImageSyncResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	list, _, err := uc.repo.Search(ctx, repository.ProductFilter{WithoutImage: true, Limit: limit})
	if err != nil {
		return nil, err
	}
	out := &dto.ImageSyncResponse{}
	for i, p := range list {
		if i > 0 && uc.pause > 0 {
			select {
			case <-ctx.Done():
				return out, ctx.Err()
			case <-time.After(uc.pause):
			}
		}
		out.Processed++
		if err := uc.search(ctx, p); err != nil {
			out.Errors++
			log.Warn().Err(err).Str("product_id", p.ID).Msg("búsqueda de imagen fallida")
			continue
		}
		if p.ImageURL != "" {
			out.Found++
		}
	}
	log.Info().Int("processed", out.Processed).Int("found", out.Found).Int("errors", out.Errors).Msg("sincronización de imágenes")
	return out, nil
}

// search prueba los buscadores en orden. Si ninguno la tiene se guarda not_found;
// si alguno falló por red no se guarda nada para reintentar después.
func (uc *ImageUseCase) search(ctx context.Context, p *entity.Product) error {
	q := ports.ImageQuery{Barcode: strings.TrimSpace(p.Barcode), Name: p.Name}
	var lastErr error
	for _, f := range uc.finders {
		imgURL, err := f.FindImage(ctx, q)
		if err == nil && imgURL != "" {
			return uc.saveImage(ctx, p, imgURL, f.Source())
		}
		if err != nil && !errors.Is(err, ports.ErrImageNotFound) {
			log.Warn().Err(err).Str("source", f.Source()).Str("product_id", p.ID).Msg("proveedor de imágenes no disponible")
			lastErr = err
		}
	}
	if lastErr != nil {
		return lastErr
	}
	return uc.saveImage(ctx, p, "", entity.ImageSourceNotFound)
}

// saveImage persiste solo las columnas de imagen; precios y estado quedan como estén en la base.
func (uc *ImageUseCase) saveImage(ctx context.Context, p *entity.Product, imgURL, source string) error {
	now := time.Now()
	if err := uc.repo.UpdateImage(ctx, p.ID, imgURL, source, &now); err != nil {
		return err
	}
	p.ImageURL = imgURL
	p.ImageSource = source
	p.ImageFetchedAt = &now
	return nil
}

func toImageResponse(p *entity.Product) *dto.ProductImageResponse {
	return &dto.ProductImageResponse{
		ProductID: p.ID,
		ImageURL:  p.ImageURL,
		Source:    p.ImageSource,
		FetchedAt: p.ImageFetchedAt,
		Found:     p.ImageURL != "",
	}
}
