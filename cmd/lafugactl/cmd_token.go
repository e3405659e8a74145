package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lafuga/gestion-api/pkg/jwt"
)

var (
	tokenEmail   string
	tokenSubject string
	tokenMinutes int
)

// tokenCmd firma un JWT de desarrollo con el mismo formato que el proveedor de identidad.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Genera un JWT de desarrollo",
	Long: `Firma un token HS256 con AUTH_JWT_SECRET, issuer y audience configurados.
El email igual tiene que estar en la lista de usuarios autorizados para operar.`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Email del usuario (requerido)")
	tokenCmd.Flags().StringVar(&tokenSubject, "sub", "", "Subject del token (por defecto un UUID nuevo)")
	tokenCmd.Flags().IntVar(&tokenMinutes, "minutes", 0, "Vigencia en minutos (por defecto AUTH_DEV_TOKEN_MINUTES)")
	_ = tokenCmd.MarkFlagRequired("email")
}

func runToken(cmd *cobra.Command, args []string) error {
	if tokenEmail == "" {
		return fmt.Errorf("--email es obligatorio")
	}
	sub := tokenSubject
	if sub == "" {
		sub = uuid.NewString()
	}
	minutes := tokenMinutes
	if minutes <= 0 {
		minutes = cfg.Auth.DevTokenMinutes
	}
	tok, err := jwt.Generate(cfg.Auth.JWTSecret, sub, tokenEmail, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience, minutes)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}
