package imagesearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lafuga/gestion-api/internal/application/ports"
)

const googleCSEBaseURL = "https://www.googleapis.com/customsearch/v1"

// GoogleCSE búsqueda de imágenes por nombre con Google Custom Search.
type GoogleCSE struct {
	baseURL    string
	apiKey     string
	engineID   string
	httpClient *http.Client
}

// NewGoogleCSE construye el adaptador; sin clave o motor no se debe registrar.
func NewGoogleCSE(apiKey, engineID string, timeout time.Duration) *GoogleCSE {
	return &GoogleCSE{
		baseURL:    googleCSEBaseURL,
		apiKey:     apiKey,
		engineID:   engineID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithBaseURL apunta el cliente a otro host (tests).
func (g *GoogleCSE) WithBaseURL(u string) *GoogleCSE {
	g.baseURL = strings.TrimRight(u, "/")
	return g
}

// Source implementa ports.ImageFinder.
func (g *GoogleCSE) Source() string { return "google" }

type cseResponse struct {
	Items []struct {
		Link string `json:"link"`
	} `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// FindImage busca "<nombre> producto" y toma el primer resultado.
func (g *GoogleCSE) FindImage(ctx context.Context, q ports.ImageQuery) (string, error) {
	name := strings.TrimSpace(q.Name)
	if name == "" {
		return "", ports.ErrImageNotFound
	}
	if g.apiKey == "" || g.engineID == "" {
		return "", fmt.Errorf("google: GOOGLE_CSE_API_KEY o GOOGLE_CSE_ENGINE_ID no configurado")
	}
	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("cx", g.engineID)
	params.Set("q", name+" producto")
	params.Set("searchType", "image")
	params.Set("num", "1")
	params.Set("safe", "active")

	var body cseResponse
	if _, err := getJSON(ctx, g.httpClient, g.baseURL+"?"+params.Encode(), "", &body); err != nil {
		return "", fmt.Errorf("google: %w", err)
	}
	if body.Error != nil {
		return "", fmt.Errorf("google: error %d: %s", body.Error.Code, body.Error.Message)
	}
	if len(body.Items) == 0 || body.Items[0].Link == "" {
		return "", ports.ErrImageNotFound
	}
	return body.Items[0].Link, nil
}
