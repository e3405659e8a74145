package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafuga/gestion-api/internal/application/auth"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	apphttp "github.com/lafuga/gestion-api/internal/interfaces/http"
	"github.com/lafuga/gestion-api/internal/testutil/memstore"
	pkgjwt "github.com/lafuga/gestion-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "https://auth.lafuga.test"
	testExpMin    = 60
)

var testToken = apphttp.TokenConfig{Secret: testJWTSecret, Issuer: testIssuer}

// seedUsers carga la lista blanca con un usuario por rol.
func seedUsers(t *testing.T, st *memstore.Store) {
	t.Helper()
	for i, u := range []struct{ email, role string }{
		{"admin@lafuga.com", entity.RoleAdmin},
		{"super@lafuga.com", entity.RoleSupervisor},
		{"caja@lafuga.com", entity.RoleVendedor},
		{"sinrol@lafuga.com", ""},
	} {
		require.NoError(t, st.Users.Create(context.Background(), &entity.AuthorizedUser{
			ID: string(rune('a' + i)), Email: u.email, Role: u.role, CreatedAt: time.Now(),
		}))
	}
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para validar el JWT
//   - RequireAuthorizedUser para resolver el rol contra la lista blanca
//   - RequireRole para autorizar el acceso
func buildTestApp(t *testing.T, allowedRoles ...string) *fiber.App {
	st := memstore.New()
	seedUsers(t, st)
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testToken),
		apphttp.RequireAuthorizedUser(auth.NewAccessUseCase(st.Users)),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			a := apphttp.GetActor(c)
			return c.JSON(fiber.Map{"ok": true, "user_id": a.UserID, "email": a.Email, "role": a.Role})
		},
	)
	return app
}

func bearer(t *testing.T, email string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, email, testIssuer, "", testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(t, entity.RoleAdmin)
	resp := doRequest(t, app, bearer(t, "Admin@LaFuga.com"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["role"], "el rol sale de la lista blanca, no del token")
	assert.Equal(t, "admin@lafuga.com", body["email"])
	assert.Equal(t, testUserID, body["user_id"])
}

func TestRequireRole_SupervisorAccedeRutaMultiRol(t *testing.T) {
	app := buildTestApp(t, entity.RoleAdmin, entity.RoleSupervisor)
	resp := doRequest(t, app, bearer(t, "super@lafuga.com"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_VendedorBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(t, entity.RoleAdmin)
	resp := doRequest(t, app, bearer(t, "caja@lafuga.com"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_UsuarioSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(t, entity.RoleAdmin)
	resp := doRequest(t, app, bearer(t, "sinrol@lafuga.com"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware y lista blanca
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireAuthorizedUser_EmailNoHabilitado_Retorna403(t *testing.T) {
	app := buildTestApp(t, entity.RoleAdmin)
	resp := doRequest(t, app, bearer(t, "intruso@gmail.com"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "NOT_AUTHORIZED")
}

func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	app := buildTestApp(t, entity.RoleAdmin)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(t, entity.RoleAdmin)
	for _, h := range []string{"Bearer token.invalido.aqui", "Basic abc", "Bearer "} {
		resp := doRequest(t, app, h)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, h)
		resp.Body.Close()
	}
}

func TestAuthMiddleware_IssuerDistinto_Retorna401(t *testing.T) {
	app := buildTestApp(t, entity.RoleAdmin)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "admin@lafuga.com", "https://otro.issuer", "", testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	app := buildTestApp(t, entity.RoleAdmin)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "admin@lafuga.com", testIssuer, "", -1)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
