package ports

import (
	"io"
	"time"

	"github.com/lafuga/gestion-api/internal/domain/entity"
)

// BackupSnapshot datos exportados en el backup de precios.
type BackupSnapshot struct {
	ExportedAt time.Time
	Products   []*entity.Product
	Sales      []*entity.Sale
}

// BackupWriter serializa el snapshot como libro de cálculo.
type BackupWriter interface {
	WriteBackup(s BackupSnapshot) ([]byte, error)
}

// TableReader lee una planilla (CSV o xlsx según el nombre del archivo) como filas de texto.
// La primera fila es la cabecera.
type TableReader interface {
	ReadTable(filename string, r io.Reader) ([][]string, error)
}
