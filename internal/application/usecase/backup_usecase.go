package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/lafuga/gestion-api/internal/application/ports"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

const backupSalesDays = 30

// BackupUseCase exporta productos y ventas recientes a un libro de cálculo.
type BackupUseCase struct {
	products repository.ProductRepository
	sales    repository.SaleRepository
	writer   ports.BackupWriter
	now      func() time.Time
}

// NewBackupUseCase construye el caso de uso.
func NewBackupUseCase(products repository.ProductRepository, sales repository.SaleRepository, writer ports.BackupWriter) *BackupUseCase {
	return &BackupUseCase{products: products, sales: sales, writer: writer, now: time.Now}
}

// Export devuelve el xlsx y su nombre de archivo (backup-precios-AAAA-MM-DD.xlsx).
func (uc *BackupUseCase) Export(ctx context.Context) ([]byte, string, error) {
	now := uc.now()
	snap := ports.BackupSnapshot{ExportedAt: now}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, _, err := uc.products.Search(gctx, repository.ProductFilter{
			Statuses: []string{entity.ProductStatusActive, entity.ProductStatusInactive},
		})
		if err != nil {
			return fmt.Errorf("backup: productos: %w", err)
		}
		snap.Products = list
		return nil
	})
	g.Go(func() error {
		list, err := uc.sales.ListSince(gctx, now.AddDate(0, 0, -backupSalesDays))
		if err != nil {
			return fmt.Errorf("backup: ventas: %w", err)
		}
		snap.Sales = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	out, err := uc.writer.WriteBackup(snap)
	if err != nil {
		return nil, "", fmt.Errorf("backup: escribiendo planilla: %w", err)
	}
	name := fmt.Sprintf("backup-precios-%s.xlsx", now.Format("2006-01-02"))
	log.Info().
		Int("products", len(snap.Products)).
		Int("sales", len(snap.Sales)).
		Int("bytes", len(out)).
		Msg("backup generado")
	return out, name, nil
}
