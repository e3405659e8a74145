package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var syncLimit int

// syncImagesCmd busca imágenes para los productos que no tienen.
var syncImagesCmd = &cobra.Command{
	Use:   "sync-images",
	Short: "Busca imágenes de productos sin imagen",
	Long: `Recorre los productos sin imagen y prueba OpenFoodFacts (por código de barras)
y Google Custom Search (si hay credenciales). Hace una pausa entre productos.`,
	Args: cobra.NoArgs,
	RunE: runSyncImages,
}

func init() {
	syncImagesCmd.Flags().IntVar(&syncLimit, "limit", 10, "Cantidad máxima de productos")
}

func runSyncImages(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	c, pool, err := openContainer(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	log.Info().Strs("sources", c.ImageSources).Int("limit", syncLimit).Msg("buscando imágenes")
	res, err := c.Images.Sync(ctx, syncLimit)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "procesados: %d  encontrados: %d  errores: %d\n", res.Processed, res.Found, res.Errors)
	return nil
}
