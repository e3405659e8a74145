package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/lafuga/gestion-api/internal/application/ports"
)

// maxUpload tamaño máximo aceptado para una planilla.
const maxUpload = 10 << 20

// TableReader implementa ports.TableReader para .csv y .xlsx.
type TableReader struct{}

var _ ports.TableReader = (*TableReader)(nil)

// NewTableReader construye el lector.
func NewTableReader() *TableReader { return &TableReader{} }

// ReadTable elige el formato por la extensión del archivo.
func (t *TableReader) ReadTable(filename string, r io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxUpload+1))
	if err != nil {
		return nil, fmt.Errorf("leer archivo: %w", err)
	}
	if len(raw) > maxUpload {
		return nil, fmt.Errorf("el archivo supera los %d MB", maxUpload>>20)
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return readCSV(raw)
	case ".xlsx", ".xlsm":
		return readXLSX(raw)
	default:
		return nil, fmt.Errorf("formato no soportado %q: use .csv o .xlsx", filepath.Ext(filename))
	}
}

// readCSV acepta UTF-8 (con o sin BOM) o Latin-1, separado por ';' o ','.
func readCSV(raw []byte) ([][]string, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(raw) {
		dec, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("decodificar Latin-1: %w", err)
		}
		raw = dec
	}
	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = detectDelimiter(raw)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV inválido: %w", err)
	}
	return rows, nil
}

// detectDelimiter mira la primera línea: Excel en español exporta con ';'.
func detectDelimiter(raw []byte) rune {
	first := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		first = raw[:i]
	}
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}

// readXLSX devuelve la primera hoja.
func readXLSX(raw []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("xlsx inválido: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("el libro no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheets[0], err)
	}
	return rows, nil
}
