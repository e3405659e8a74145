package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var backupOut string

// backupCmd escribe el libro de backup en disco.
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Genera el backup de precios y ventas en Excel",
	Long: `Escribe backup-precios-AAAA-MM-DD.xlsx con las hojas Productos,
Ventas (ultimo mes) y Resumen.`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

func init() {
	backupCmd.Flags().StringVar(&backupOut, "out", ".", "Directorio de destino")
}

func runBackup(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	c, pool, err := openContainer(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	data, name, err := c.Backup.Export(ctx)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(backupOut, 0o755); err != nil {
		return fmt.Errorf("crear %s: %w", backupOut, err)
	}
	path := filepath.Join(backupOut, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", path, err)
	}
	log.Info().Str("file", path).Int("bytes", len(data)).Msg("backup generado")
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
