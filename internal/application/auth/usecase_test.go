package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafuga/gestion-api/internal/application/auth"
	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/testutil/memstore"
)

func TestAccessUseCase_ResuelveRolDeLaListaBlanca(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()
	require.NoError(t, st.Users.Create(ctx, &entity.AuthorizedUser{ID: "1", Email: "caja@lafuga.com", Role: entity.RoleVendedor}))
	uc := auth.NewAccessUseCase(st.Users)

	actor, err := uc.Resolve(ctx, "sub-123", "Caja@LaFuga.com")
	require.NoError(t, err)
	assert.Equal(t, "sub-123", actor.UserID)
	assert.Equal(t, "caja@lafuga.com", actor.Email)
	assert.Equal(t, entity.RoleVendedor, actor.Role)
	assert.Equal(t, entity.RoleVendedor, uc.Me(actor).Role)
}

func TestAccessUseCase_EmailNoHabilitado(t *testing.T) {
	uc := auth.NewAccessUseCase(memstore.New().Users)

	_, err := uc.Resolve(context.Background(), "sub", "intruso@mail.com")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Resolve(context.Background(), "sub", "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
