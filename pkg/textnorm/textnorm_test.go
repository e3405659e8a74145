package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lafuga/gestion-api/pkg/textnorm"
)

func TestFold_QuitaTildesYEspacios(t *testing.T) {
	assert.Equal(t, "SUELTOS - QUIMICA", textnorm.Fold("  Sueltos -   Química "))
	assert.Equal(t, "CODIGO BARRA", textnorm.Fold("Código barra"))
	assert.Equal(t, "", textnorm.Fold("   "))
}

func TestEqual(t *testing.T) {
	assert.True(t, textnorm.Equal("mascotas", "MASCOTAS"))
	assert.True(t, textnorm.Equal("Categoría", "CATEGORIA"))
	assert.False(t, textnorm.Equal("SUELTOS", "QUIMICA"))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "juan-perez-hijos", textnorm.Slug("Juan Pérez & Hijos"))
	assert.Equal(t, "almacen-1", textnorm.Slug("  Almacén #1!"))
	assert.Equal(t, "", textnorm.Slug("***"))
}
