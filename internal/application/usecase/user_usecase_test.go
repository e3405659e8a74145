package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/application/usecase"
	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/testutil/memstore"
)

func TestUserUseCase_AltaNormalizaEmailYRechazaDuplicado(t *testing.T) {
	st := memstore.New()
	uc := usecase.NewUserUseCase(st.Users, st.Tx)
	admin := dto.Actor{UserID: "x", Email: "dueno@lafuga.com", Role: entity.RoleAdmin}
	ctx := context.Background()

	out, err := uc.Create(ctx, admin, dto.CreateAuthorizedUserRequest{Email: " Caja@LaFuga.com ", Role: entity.RoleVendedor})
	require.NoError(t, err)
	assert.Equal(t, "caja@lafuga.com", out.Email)

	_, err = uc.Create(ctx, admin, dto.CreateAuthorizedUserRequest{Email: "caja@lafuga.com", Role: entity.RoleVendedor})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, admin, dto.CreateAuthorizedUserRequest{Email: "no-es-email", Role: entity.RoleVendedor})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, admin, dto.CreateAuthorizedUserRequest{Email: "otro@lafuga.com", Role: "cajero"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserUseCase_NoSePuedeQuitarAlUltimoAdmin(t *testing.T) {
	st := memstore.New()
	uc := usecase.NewUserUseCase(st.Users, st.Tx)
	ctx := context.Background()
	require.NoError(t, st.Users.Create(ctx, &entity.AuthorizedUser{ID: "a1", Email: "dueno@lafuga.com", Role: entity.RoleAdmin}))
	require.NoError(t, st.Users.Create(ctx, &entity.AuthorizedUser{ID: "g1", Email: "gerente@lafuga.com", Role: entity.RoleGerente}))

	gerente := dto.Actor{UserID: "g1", Email: "gerente@lafuga.com", Role: entity.RoleGerente}
	err := uc.Delete(ctx, gerente, "a1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.UpdateRole(ctx, gerente, "a1", dto.UpdateRoleRequest{Role: entity.RoleEditor})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserUseCase_NoSePuedeQuitarASiMismo(t *testing.T) {
	st := memstore.New()
	uc := usecase.NewUserUseCase(st.Users, st.Tx)
	ctx := context.Background()
	require.NoError(t, st.Users.Create(ctx, &entity.AuthorizedUser{ID: "a1", Email: "dueno@lafuga.com", Role: entity.RoleAdmin}))
	require.NoError(t, st.Users.Create(ctx, &entity.AuthorizedUser{ID: "a2", Email: "socio@lafuga.com", Role: entity.RoleAdmin}))

	self := dto.Actor{UserID: "a1", Email: "dueno@lafuga.com", Role: entity.RoleAdmin}
	assert.ErrorIs(t, uc.Delete(ctx, self, "a1"), domain.ErrConflict)

	require.NoError(t, uc.Delete(ctx, self, "a2"))
	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUserUseCase_ElSubDelTokenNoSeComparaConElIDDeLaListaBlanca(t *testing.T) {
	st := memstore.New()
	uc := usecase.NewUserUseCase(st.Users, st.Tx)
	ctx := context.Background()
	require.NoError(t, st.Users.Create(ctx, &entity.AuthorizedUser{ID: "a1", Email: "dueno@lafuga.com", Role: entity.RoleAdmin}))
	require.NoError(t, st.Users.Create(ctx, &entity.AuthorizedUser{ID: "e1", Email: "deposito@lafuga.com", Role: entity.RoleEditor}))

	// el sub del token coincide por casualidad con el ID de otra fila
	admin := dto.Actor{UserID: "e1", Email: "dueno@lafuga.com", Role: entity.RoleAdmin}
	out, err := uc.UpdateRole(ctx, admin, "e1", dto.UpdateRoleRequest{Role: entity.RoleGerente})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleGerente, out.Role)
}

func TestUserUseCase_DegradacionesSimultaneasDejanUnAdmin(t *testing.T) {
	st := memstore.New()
	uc := usecase.NewUserUseCase(st.Users, st.Tx)
	ctx := context.Background()
	require.NoError(t, st.Users.Create(ctx, &entity.AuthorizedUser{ID: "a1", Email: "dueno@lafuga.com", Role: entity.RoleAdmin}))
	require.NoError(t, st.Users.Create(ctx, &entity.AuthorizedUser{ID: "a2", Email: "socio@lafuga.com", Role: entity.RoleAdmin}))

	// cada admin degrada al otro al mismo tiempo
	pairs := []struct {
		actor  dto.Actor
		target string
	}{
		{dto.Actor{UserID: "sub-1", Email: "dueno@lafuga.com", Role: entity.RoleAdmin}, "a2"},
		{dto.Actor{UserID: "sub-2", Email: "socio@lafuga.com", Role: entity.RoleAdmin}, "a1"},
	}
	errs := make([]error, len(pairs))
	var wg sync.WaitGroup
	for i, p := range pairs {
		wg.Add(1)
		go func(i int, actor dto.Actor, target string) {
			defer wg.Done()
			_, errs[i] = uc.UpdateRole(ctx, actor, target, dto.UpdateRoleRequest{Role: entity.RoleEditor})
		}(i, p.actor, p.target)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrConflict)
			failed++
		}
	}
	assert.Equal(t, 1, failed)
	admins, err := st.Users.LockByRole(ctx, entity.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 1, admins)
}

func TestSupplierUseCase_AltaEdicionYActivos(t *testing.T) {
	st := memstore.New()
	uc := usecase.NewSupplierUseCase(st.Suppliers)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateSupplierRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	s, err := uc.Create(ctx, dto.CreateSupplierRequest{Name: "Distribuidora Norte", TaxID: "30-11111111-1"})
	require.NoError(t, err)
	assert.True(t, s.Active)

	_, err = uc.Create(ctx, dto.CreateSupplierRequest{Name: "Otra", TaxID: "30-11111111-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.SetActive(ctx, s.ID, false)
	require.NoError(t, err)
	active, err := uc.Active(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	upd, err := uc.Update(ctx, s.ID, dto.UpdateSupplierRequest{Phone: ptr("381-4000000")})
	require.NoError(t, err)
	assert.Equal(t, "381-4000000", upd.Phone)
	assert.False(t, upd.Active)

	_, err = uc.GetByID(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
