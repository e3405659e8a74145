package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafuga/gestion-api/pkg/money"
)

func TestParsePrice_Formatos(t *testing.T) {
	cases := map[string]string{
		"$ 1.600,00": "1600",
		"1,600.00":   "1600",
		"1,50":       "1.5",
		"1,600":      "1600",
		"1600":       "1600",
		"250.75":     "250.75",
		"1.600.000":  "1600000",
		"ARS 99,99":  "99.99",
		"":           "0",
		"   ":        "0",
	}
	for in, want := range cases {
		got, err := money.ParsePrice(in)
		require.NoError(t, err, "entrada %q", in)
		assert.True(t, got.Equal(decimal.RequireFromString(want)), "entrada %q: got %s want %s", in, got, want)
	}
}

func TestParsePrice_Invalido(t *testing.T) {
	_, err := money.ParsePrice("consultar")
	assert.Error(t, err)
}

func TestFormat_SeparadoresArgentinos(t *testing.T) {
	assert.Equal(t, "$ 1.234.567,50", money.Format(decimal.RequireFromString("1234567.5")))
	assert.Equal(t, "$ 0,00", money.Format(decimal.Zero))
}
