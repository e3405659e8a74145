// Package money formatea y lee importes en pesos argentinos.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.MustParse("es-AR"))

// Format devuelve el importe con separadores locales: "$ 1.234,56".
func Format(v decimal.Decimal) string {
	f, _ := v.Round(2).Float64()
	return printer.Sprintf("$ %.2f", f)
}

// FormatNumber igual que Format pero sin signo monetario (cantidades, porcentajes).
func FormatNumber(v decimal.Decimal, places int) string {
	f, _ := v.Round(int32(places)).Float64()
	return printer.Sprintf("%.*f", places, f)
}

// ParsePrice interpreta precios escritos a mano en planillas.
//
// Acepta "$ 1.600,00", "1,600.00", "1,50", "1600" y "". Un único punto se toma como decimal.
// Con ambos separadores, el último es el decimal. Con una sola coma seguida de
// exactamente dos dígitos, la coma es decimal; si no, es separador de miles.
// Vacío devuelve cero.
func ParsePrice(raw string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', ' ', '\t', '\u00a0':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))
	cleaned = strings.TrimPrefix(strings.ToUpper(cleaned), "ARS")
	if cleaned == "" {
		return decimal.Zero, nil
	}

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")
	switch {
	case lastComma > lastDot && lastDot >= 0:
		// 1.600,00
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case lastDot > lastComma && lastComma >= 0:
		// 1,600.00
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case lastComma >= 0:
		parts := strings.Split(cleaned, ",")
		if len(parts) == 2 && len(parts[1]) == 2 {
			cleaned = parts[0] + "." + parts[1]
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case strings.Count(cleaned, ".") > 1:
		// 1.600.000 solo puede ser separador de miles
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("precio inválido %q", raw)
	}
	return d, nil
}
