package ports

import (
	"context"
	"errors"
)

// ErrImageNotFound el proveedor respondió pero no tiene imagen para el producto.
var ErrImageNotFound = errors.New("imagen no encontrada")

// ImageQuery datos del producto disponibles para buscar su imagen.
type ImageQuery struct {
	Barcode string
	Name    string
}

// ImageFinder define el puerto de salida para buscar la imagen de un producto.
// Cada adaptador (OpenFoodFacts, Google Custom Search, mock) implementa esta interfaz.
// El contexto debe llevar un timeout para no bloquear el request en llamadas externas.
type ImageFinder interface {
	// Source identifica al proveedor ("openfoodfacts", "google") y se guarda junto a la URL.
	Source() string
	// FindImage devuelve la URL de la imagen o ErrImageNotFound.
	FindImage(ctx context.Context, q ImageQuery) (string, error)
}
