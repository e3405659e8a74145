// Package textnorm normaliza textos cargados a mano (categorías, encabezados de planillas)
// para poder compararlos sin importar mayúsculas, tildes ni espacios repetidos.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold devuelve s en mayúsculas, sin diacríticos y con los espacios colapsados.
// "  Sueltos - Química " -> "SUELTOS - QUIMICA".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(strings.Join(strings.Fields(out), " "))
}

// Equal compara dos textos con Fold.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}

// Slug versión apta para nombres de archivo: "Juan Pérez & Hijos" -> "juan-perez-hijos".
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(Fold(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
