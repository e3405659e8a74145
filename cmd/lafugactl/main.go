// lafugactl tareas de mantenimiento de La Fuga desde la terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/bootstrap"
	"github.com/lafuga/gestion-api/internal/infrastructure/postgres"
	"github.com/lafuga/gestion-api/pkg/config"
	"github.com/lafuga/gestion-api/pkg/logger"
)

var (
	// Flags globales
	verbose bool
	timeout time.Duration

	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lafugactl",
	Short: "Herramientas de línea de comandos de La Fuga",
	Long: `lafugactl ejecuta tareas de mantenimiento contra la misma base que la API:
migraciones, importación de listas de precios, backup en Excel, búsqueda de imágenes
y tokens de desarrollo.

La configuración se lee de las mismas variables de entorno que la API (DB_*, AUTH_*, ...).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("cargar configuración: %w", err)
		}
		level := cfg.App.LogLevel
		if verbose {
			level = "debug"
		}
		// Los logs van a stderr para no mezclarse con la salida del comando.
		log = logger.NewWithWriter(logger.Config{Env: "development", Level: level}, os.Stderr)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Logs de depuración")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "Tiempo máximo de la operación")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(syncImagesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openPool conecta a PostgreSQL con la configuración cargada.
func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return pool, nil
}

// openContainer conecta y arma los casos de uso. El llamador cierra el pool.
func openContainer(ctx context.Context) (*bootstrap.Container, *pgxpool.Pool, error) {
	pool, err := openPool(ctx)
	if err != nil {
		return nil, nil, err
	}
	return bootstrap.New(cfg, pool), pool, nil
}

// cliActor actor con el que quedan firmados los cambios hechos desde la CLI.
func cliActor(email string) dto.Actor {
	if email == "" {
		email = "lafugactl"
	}
	return dto.Actor{UserID: "cli", Email: email, Role: "admin"}
}
