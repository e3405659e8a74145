// Package imagesearch implementa ports.ImageFinder contra servicios públicos de imágenes de productos.
// Usa net/http directamente: son dos GET con respuesta JSON chica.
package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lafuga/gestion-api/internal/application/ports"
)

// Verificar en tiempo de compilación que los adaptadores implementan ImageFinder.
var (
	_ ports.ImageFinder = (*OpenFoodFacts)(nil)
	_ ports.ImageFinder = (*GoogleCSE)(nil)
)

const (
	openFoodFactsBaseURL = "https://world.openfoodfacts.org"
	maxBody              = 256 * 1024
)

// OpenFoodFacts busca la foto del producto por código de barras.
type OpenFoodFacts struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewOpenFoodFacts construye el adaptador. La API pide identificarse con un User-Agent propio.
func NewOpenFoodFacts(userAgent string, timeout time.Duration) *OpenFoodFacts {
	return &OpenFoodFacts{
		baseURL:    openFoodFactsBaseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithBaseURL apunta el cliente a otro host (tests).
func (o *OpenFoodFacts) WithBaseURL(u string) *OpenFoodFacts {
	o.baseURL = strings.TrimRight(u, "/")
	return o
}

// Source implementa ports.ImageFinder.
func (o *OpenFoodFacts) Source() string { return "openfoodfacts" }

type offResponse struct {
	Status  int `json:"status"`
	Product struct {
		ImageFrontURL string `json:"image_front_url"`
		ImageURL      string `json:"image_url"`
	} `json:"product"`
}

// FindImage consulta /api/v2/product/<barcode>.json. Sin código de barras no hay búsqueda.
func (o *OpenFoodFacts) FindImage(ctx context.Context, q ports.ImageQuery) (string, error) {
	barcode := strings.TrimSpace(q.Barcode)
	if barcode == "" {
		return "", ports.ErrImageNotFound
	}
	endpoint := fmt.Sprintf("%s/api/v2/product/%s.json", o.baseURL, url.PathEscape(barcode))
	var body offResponse
	status, err := getJSON(ctx, o.httpClient, endpoint, o.userAgent, &body)
	if err != nil {
		return "", fmt.Errorf("openfoodfacts: %w", err)
	}
	if status == http.StatusNotFound || body.Status != 1 {
		return "", ports.ErrImageNotFound
	}
	if u := firstNonEmpty(body.Product.ImageFrontURL, body.Product.ImageURL); u != "" {
		return u, nil
	}
	return "", ports.ErrImageNotFound
}

// getJSON hace el GET y decodifica la respuesta. Devuelve el status para que cada
// adaptador decida qué significa un 404.
func getJSON(ctx context.Context, client *http.Client, endpoint, userAgent string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("timeout o cancelación: %w", ctx.Err())
		}
		return 0, fmt.Errorf("llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("leer respuesta: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, nil
	}
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, fmt.Errorf("deserializar respuesta: %w", err)
	}
	return resp.StatusCode, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
