package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lafuga/gestion-api/internal/application/dto"
)

var (
	importDryRun bool
	importUser   string
)

// importCmd carga una lista de precios desde .csv o .xlsx.
var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Importa una lista de precios (.csv o .xlsx)",
	Long: `Crea o actualiza productos por código a partir de una planilla.

Columnas reconocidas (sin importar tildes ni mayúsculas): CODIGO, NOMBRE/PRODUCTO,
CATEGORIA, COSTO, PRECIO MAYOR, PRECIO MENOR, UNIDAD, CODIGO BARRA.
Los cambios de precio quedan en el historial del producto.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Solo validar, sin escribir")
	importCmd.Flags().StringVar(&importUser, "user", "", "Email con el que se registran los cambios")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("abrir %s: %w", args[0], err)
	}
	defer f.Close()

	c, pool, err := openContainer(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	report, err := c.Import.Import(ctx, cliActor(importUser), filepath.Base(args[0]), f, importDryRun)
	if err != nil {
		return err
	}
	printImportReport(cmd.OutOrStdout(), report, importDryRun)
	return nil
}

func printImportReport(w io.Writer, r *dto.ImportReport, dryRun bool) {
	if dryRun {
		fmt.Fprintln(w, "simulación: no se guardó ningún cambio")
	}
	fmt.Fprintf(w, "creados: %d  actualizados: %d  sin cambios: %d  errores: %d\n",
		r.Created, r.Updated, r.Skipped, len(r.Errors))
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  fila %d: %s\n", e.Row, e.Message)
	}
}
