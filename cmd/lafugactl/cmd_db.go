package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lafuga/gestion-api/internal/infrastructure/postgres"
)

// migrateCmd aplica el esquema embebido.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones pendientes",
	Long: `Aplica en orden las migraciones SQL embebidas que todavía no figuran en
schema_migrations. Es idempotente: correrlo dos veces no cambia nada.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	pool, err := openPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "el esquema ya está al día")
		return nil
	}
	for _, v := range applied {
		fmt.Fprintf(cmd.OutOrStdout(), "aplicada %s\n", v)
	}
	return nil
}
