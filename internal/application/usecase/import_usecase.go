package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/application/ports"
	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/repository"
	"github.com/lafuga/gestion-api/pkg/money"
	"github.com/lafuga/gestion-api/pkg/textnorm"
)

// DefaultImportCategory categoría asignada a filas sin categoría.
const DefaultImportCategory = "Sin categoría"

const importReason = "importación"

// columnas reconocidas de la planilla de precios
const (
	colCode      = "code"
	colName      = "name"
	colCategory  = "category"
	colCost      = "cost"
	colWholesale = "wholesale"
	colRetail    = "retail"
	colUnit      = "unit"
	colBarcode   = "barcode"
)

// headerAliases encabezados ya normalizados con textnorm.Fold.
var headerAliases = map[string]string{
	"CODIGO":           colCode,
	"COD":              colCode,
	"NOMBRE":           colName,
	"PRODUCTO":         colName,
	"CATEGORIA":        colCategory,
	"RUBRO":            colCategory,
	"COSTO":            colCost,
	"PRECIO COSTO":     colCost,
	"PRECIO MAYOR":     colWholesale,
	"PREIO MAYOR":      colWholesale, // así viene en la planilla histórica
	"PRECIO MAYORISTA": colWholesale,
	"MAYORISTA":        colWholesale,
	"PRECIO MENOR":     colRetail,
	"PRECIO MINORISTA": colRetail,
	"MINORISTA":        colRetail,
	"PRECIO":           colRetail,
	"UNIDAD":           colUnit,
	"CODIGO BARRA":     colBarcode,
	"CODIGO DE BARRA":  colBarcode,
	"CODIGO DE BARRAS": colBarcode,
	"CODIGO BARRAS":    colBarcode,
	"EAN":              colBarcode,
}

// ImportUseCase alta y actualización de productos desde la planilla de precios.
type ImportUseCase struct {
	repo    repository.ProductRepository
	history repository.ProductHistoryRepository
	tx      repository.TxRunner
	reader  ports.TableReader
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(repo repository.ProductRepository, history repository.ProductHistoryRepository, tx repository.TxRunner, reader ports.TableReader) *ImportUseCase {
	return &ImportUseCase{repo: repo, history: history, tx: tx, reader: reader}
}

// Import procesa la planilla fila por fila; una fila inválida no frena al resto.
// Con dryRun valida y cuenta sin escribir.
func (uc *ImportUseCase) Import(ctx context.Context, actor dto.Actor, filename string, r io.Reader, dryRun bool) (*dto.ImportReport, error) {
	rows, err := uc.reader.ReadTable(filename, r)
	if err != nil {
		return nil, domain.Invalid("file", err.Error())
	}
	if len(rows) == 0 {
		return nil, domain.Invalid("file", "la planilla está vacía")
	}
	cols := mapHeader(rows[0])
	if _, ok := cols[colCode]; !ok {
		return nil, domain.Invalid("file", "falta la columna CODIGO")
	}
	if _, ok := cols[colName]; !ok {
		return nil, domain.Invalid("file", "falta la columna NOMBRE")
	}

	report := &dto.ImportReport{DryRun: dryRun, Errors: []dto.ImportRowError{}}
	seen := map[string]int{}
	for i, raw := range rows[1:] {
		rowNum := i + 2
		if blankRow(raw) {
			report.Skipped++
			continue
		}
		row := importRow{cols: cols, raw: raw}
		code := row.get(colCode)
		if prev, dup := seen[code]; dup && code != "" {
			report.Errors = append(report.Errors, dto.ImportRowError{Row: rowNum, Message: fmt.Sprintf("código %s repetido (fila %d)", code, prev)})
			continue
		}
		seen[code] = rowNum

		outcome, err := uc.applyRow(ctx, actor, row, dryRun)
		if err != nil {
			var verr *domain.ValidationError
			var berr *domain.BarcodeInUseError
			if errors.As(err, &verr) || errors.As(err, &berr) {
				report.Errors = append(report.Errors, dto.ImportRowError{Row: rowNum, Message: err.Error()})
				continue
			}
			return nil, fmt.Errorf("importación fila %d: %w", rowNum, err)
		}
		switch outcome {
		case importCreated:
			report.Created++
		case importUpdated:
			report.Updated++
		default:
			report.Skipped++
		}
	}
	log.Info().
		Str("file", filename).
		Bool("dry_run", dryRun).
		Int("created", report.Created).
		Int("updated", report.Updated).
		Int("skipped", report.Skipped).
		Int("errors", len(report.Errors)).
		Str("user", actor.Ref()).
		Msg("importación de productos")
	return report, nil
}

type importOutcome int

const (
	importSkipped importOutcome = iota
	importCreated
	importUpdated
)

// applyRow en dry-run solo lee. Si no, cada fila es una transacción: el producto
// queda bloqueado hasta que el update y su historial estén escritos.
func (uc *ImportUseCase) applyRow(ctx context.Context, actor dto.Actor, row importRow, dryRun bool) (importOutcome, error) {
	if dryRun {
		return uc.importRow(ctx, actor, row, repository.TxRepos{Products: uc.repo, History: uc.history}, true)
	}
	var outcome importOutcome
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		var err error
		outcome, err = uc.importRow(ctx, actor, row, r, false)
		return err
	})
	if err != nil {
		return importSkipped, err
	}
	return outcome, nil
}

func (uc *ImportUseCase) importRow(ctx context.Context, actor dto.Actor, row importRow, repos repository.TxRepos, dryRun bool) (importOutcome, error) {
	code := row.get(colCode)
	if code == "" {
		return importSkipped, domain.Invalid("codigo", "falta el código")
	}
	cost, err := row.price(colCost)
	if err != nil {
		return importSkipped, err
	}
	wholesale, err := row.price(colWholesale)
	if err != nil {
		return importSkipped, err
	}
	retail, err := row.price(colRetail)
	if err != nil {
		return importSkipped, err
	}
	if err := validatePrices(cost.or(decimal.Zero), wholesale.or(decimal.Zero), retail.or(decimal.Zero)); err != nil {
		return importSkipped, err
	}

	get := repos.Products.GetForUpdate
	if dryRun {
		get = repos.Products.GetByID
	}
	existing, err := get(ctx, code)
	if err != nil {
		return importSkipped, err
	}
	barcode := row.get(colBarcode)
	if barcode != "" {
		other, err := repos.Products.GetByBarcode(ctx, barcode)
		if err != nil {
			return importSkipped, err
		}
		if other != nil && other.ID != code {
			return importSkipped, &domain.BarcodeInUseError{Barcode: barcode, ProductID: other.ID, ProductName: other.Name}
		}
	}
	now := time.Now()

	if existing == nil {
		name := row.get(colName)
		if name == "" {
			return importSkipped, domain.Invalid("nombre", "falta el nombre")
		}
		category := row.get(colCategory)
		if category == "" {
			category = DefaultImportCategory
		}
		p := &entity.Product{
			ID:             code,
			Name:           name,
			Category:       category,
			Unit:           row.get(colUnit),
			Barcode:        barcode,
			Cost:           cost.or(decimal.Zero),
			WholesalePrice: wholesale.or(decimal.Zero),
			RetailPrice:    retail.or(decimal.Zero),
			Status:         entity.ProductStatusActive,
			Stock:          decimal.Zero,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if !dryRun {
			if err := repos.Products.Create(ctx, p); err != nil {
				return importSkipped, err
			}
		}
		return importCreated, nil
	}

	if existing.IsDeleted() {
		return importSkipped, domain.Invalid("codigo", fmt.Sprintf("el producto %s está dado de baja", code))
	}
	before := *existing
	after := *existing
	if v := row.get(colName); v != "" {
		after.Name = v
	}
	if v := row.get(colCategory); v != "" {
		after.Category = v
	}
	if v := row.get(colUnit); v != "" {
		after.Unit = v
	}
	if barcode != "" {
		after.Barcode = barcode
	}
	after.Cost = cost.or(before.Cost)
	after.WholesalePrice = wholesale.or(before.WholesalePrice)
	after.RetailPrice = retail.or(before.RetailPrice)

	changes := productChanges(&before, &after)
	if len(changes) == 0 && after.Unit == before.Unit && after.Barcode == before.Barcode {
		return importSkipped, nil
	}
	if dryRun {
		return importUpdated, nil
	}
	if priceChanged(&before, &after) {
		after.LastPriceUpdate = &now
	}
	after.UpdatedAt = now
	if err := repos.Products.Update(ctx, &after); err != nil {
		return importSkipped, err
	}
	reason := historyReason(importReason, importReason, actor)
	for _, h := range changes {
		h.ProductID = code
		h.Reason = reason
		h.UserID = actor.Ref()
		h.CreatedAt = now
		if err := repos.History.Create(ctx, h); err != nil {
			return importSkipped, err
		}
	}
	return importUpdated, nil
}

// optPrice precio leído de la planilla; set false cuando la celda está vacía o falta la columna.
type optPrice struct {
	v   decimal.Decimal
	set bool
}

func (o optPrice) or(def decimal.Decimal) decimal.Decimal {
	if o.set {
		return o.v
	}
	return def
}

type importRow struct {
	cols map[string]int
	raw  []string
}

func (r importRow) get(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.raw) {
		return ""
	}
	return strings.TrimSpace(r.raw[i])
}

func (r importRow) price(col string) (optPrice, error) {
	s := r.get(col)
	if s == "" {
		return optPrice{}, nil
	}
	v, err := money.ParsePrice(s)
	if err != nil {
		return optPrice{}, domain.Invalid(col, err.Error())
	}
	return optPrice{v: v, set: true}, nil
}

// mapHeader ubica cada columna conocida; la primera aparición gana.
func mapHeader(header []string) map[string]int {
	cols := map[string]int{}
	for i, h := range header {
		key := textnorm.Fold(strings.NewReplacer("_", " ", ".", " ").Replace(h))
		col, ok := headerAliases[key]
		if !ok {
			continue
		}
		if _, taken := cols[col]; !taken {
			cols[col] = i
		}
	}
	return cols
}

func blankRow(raw []string) bool {
	for _, c := range raw {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
