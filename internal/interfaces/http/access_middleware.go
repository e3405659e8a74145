package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/domain"
)

// actorResolver es el contrato mínimo del middleware; lo implementa *auth.AccessUseCase.
type actorResolver interface {
	Resolve(ctx context.Context, userID, email string) (dto.Actor, error)
}

// RequireAuthorizedUser verifica que el email del token esté en la lista de usuarios
// autorizados y deja el rol en Locals. Va DESPUÉS de AuthMiddleware.
//
//   - 403 NOT_AUTHORIZED: el email no está habilitado.
//   - 503: no se pudo consultar la base.
func RequireAuthorizedUser(resolver actorResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := GetEmail(c)
		if email == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "email no encontrado en el token"})
		}

		actor, err := resolver.Resolve(c.UserContext(), GetUserID(c), email)
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "NOT_AUTHORIZED",
				Message: "el usuario " + email + " no está autorizado para usar el sistema",
			})
		case errors.Is(err, domain.ErrUnauthorized):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
		case err != nil:
			log.Error().Err(err).Str("email", email).Msg("verificar usuario autorizado")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "ACCESS_CHECK_FAILED",
				Message: "no se pudo verificar el acceso, intente más tarde",
			})
		}

		c.Locals(LocalRole, actor.Role)
		return c.Next()
	}
}
