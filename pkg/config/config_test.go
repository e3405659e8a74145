package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafuga/gestion-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("CATALOG_PUBLIC_BASE_URL", "https://lafuga.example/")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "LA FUGA", cfg.Business.Name)
	assert.Equal(t, 7, cfg.Catalog.LinkTTLDays)
	assert.Equal(t, "https://lafuga.example", cfg.Catalog.PublicBaseURL)
	assert.Equal(t, "PROMEDIO_PONDERADO", cfg.Inventory.CostingMethod)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.Images.GoogleEnabled())
}

func TestLoad_EnvTienePrioridad(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CATALOG_LINK_TTL_DAYS", "15")
	t.Setenv("GOOGLE_CSE_API_KEY", "k")
	t.Setenv("GOOGLE_CSE_ENGINE_ID", "e")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 15, cfg.Catalog.LinkTTLDays)
	assert.True(t, cfg.Images.GoogleEnabled())
}

func TestLoad_MetodoDeCosteoInvalido(t *testing.T) {
	t.Setenv("INVENTORY_COSTING_METHOD", "FIFO")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "lafuga", SSLMode: "require"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/lafuga?sslmode=require", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
