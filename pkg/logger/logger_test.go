package logger_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafuga/gestion-api/pkg/logger"
)

func TestRequestLogger_RegistraEstadoYUsuario(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(logger.Config{Env: "production", Level: "info"}, &buf)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(logger.EmailLocalKey, "caja@lafuga.com")
		return c.Next()
	})
	app.Use(l.RequestLogger())
	app.Get("/api/products", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).SendString("no")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/products", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "/api/products", entry["path"])
	assert.Equal(t, float64(404), entry["status"])
	assert.Equal(t, "caja@lafuga.com", entry["user"])
}

func TestNew_NivelDebajoDelConfiguradoNoSeEscribe(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(logger.Config{Env: "production", Level: "warn"}, &buf)

	l.Info().Msg("no aparece")
	assert.Zero(t, buf.Len())

	l.Error().Msg("aparece")
	assert.Contains(t, buf.String(), "aparece")
}
