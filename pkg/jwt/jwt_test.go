package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafuga/gestion-api/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateYParse_IdentidadCompleta(t *testing.T) {
	tok, err := jwt.Generate(secret, "user-1", "Admin@LaFuga.com", "lafuga", "authenticated", 5)
	require.NoError(t, err)

	id, err := jwt.Parse(secret, "lafuga", "authenticated", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, "admin@lafuga.com", id.Email)
}

func TestParse_RechazaAudienceIssuerYFirma(t *testing.T) {
	tok, err := jwt.Generate(secret, "user-1", "a@b.com", "lafuga", "authenticated", 5)
	require.NoError(t, err)

	_, err = jwt.Parse(secret, "", "otra-audiencia", tok)
	assert.Error(t, err)

	_, err = jwt.Parse(secret, "otro-issuer", "", tok)
	assert.Error(t, err)

	_, err = jwt.Parse("otro-secret", "", "", tok)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := jwt.Generate(secret, "user-1", "a@b.com", "", "", -1)
	require.NoError(t, err)

	_, err = jwt.Parse(secret, "", "", tok)
	assert.Error(t, err)
}

func TestParse_SinEmail(t *testing.T) {
	tok, err := jwt.Generate(secret, "user-1", "", "", "", 5)
	require.NoError(t, err)

	_, err = jwt.Parse(secret, "", "", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "u", "a@b.com", "", "", 5)
	assert.Error(t, err)
}
