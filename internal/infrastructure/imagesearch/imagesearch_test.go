package imagesearch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafuga/gestion-api/internal/application/ports"
	"github.com/lafuga/gestion-api/internal/infrastructure/imagesearch"
)

func TestOpenFoodFacts_TomaImagenFrontal(t *testing.T) {
	var gotUA, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"status":1,"product":{"image_front_url":"https://off/front.jpg","image_url":"https://off/any.jpg"}}`))
	}))
	defer srv.Close()

	off := imagesearch.NewOpenFoodFacts("LaFugaSystem/1.0", time.Second).WithBaseURL(srv.URL)
	u, err := off.FindImage(context.Background(), ports.ImageQuery{Barcode: "7790001"})
	require.NoError(t, err)
	assert.Equal(t, "https://off/front.jpg", u)
	assert.Equal(t, "LaFugaSystem/1.0", gotUA)
	assert.Equal(t, "/api/v2/product/7790001.json", gotPath)
	assert.Equal(t, "openfoodfacts", off.Source())
}

func TestOpenFoodFacts_SinResultados(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/product/404.json":
			w.WriteHeader(http.StatusNotFound)
		default:
			_, _ = w.Write([]byte(`{"status":0,"status_verbose":"product not found"}`))
		}
	}))
	defer srv.Close()
	off := imagesearch.NewOpenFoodFacts("ua", time.Second).WithBaseURL(srv.URL)

	for _, barcode := range []string{"404", "123", ""} {
		_, err := off.FindImage(context.Background(), ports.ImageQuery{Barcode: barcode})
		assert.ErrorIs(t, err, ports.ErrImageNotFound, barcode)
	}
}

func TestOpenFoodFacts_ErrorDelServidorNoEsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := imagesearch.NewOpenFoodFacts("ua", time.Second).WithBaseURL(srv.URL).
		FindImage(context.Background(), ports.ImageQuery{Barcode: "1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrImageNotFound)
}

func TestGoogleCSE_PrimerResultado(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Yerba Playadito 1kg producto", q.Get("q"))
		assert.Equal(t, "image", q.Get("searchType"))
		assert.Equal(t, "k", q.Get("key"))
		assert.Equal(t, "cx", q.Get("cx"))
		_, _ = w.Write([]byte(`{"items":[{"link":"https://img/yerba.jpg"}]}`))
	}))
	defer srv.Close()

	g := imagesearch.NewGoogleCSE("k", "cx", time.Second).WithBaseURL(srv.URL)
	u, err := g.FindImage(context.Background(), ports.ImageQuery{Name: "Yerba Playadito 1kg"})
	require.NoError(t, err)
	assert.Equal(t, "https://img/yerba.jpg", u)
}

func TestGoogleCSE_SinItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"searchInformation":{"totalResults":"0"}}`))
	}))
	defer srv.Close()

	_, err := imagesearch.NewGoogleCSE("k", "cx", time.Second).WithBaseURL(srv.URL).
		FindImage(context.Background(), ports.ImageQuery{Name: "nada"})
	assert.ErrorIs(t, err, ports.ErrImageNotFound)
}
