package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freezer-fleet-backend/internal/model"
)

func TestCrearCliente(t *testing.T) {
	s, gormDB, _ := newTestStore(t)
	seedUsuarios(t, gormDB)

	ctx := context.Background()

	cliente := model.Cliente{Nombre: "Rotiseria Centro", Cuit: "30-11111111-9"}
	require.NoError(t, s.CrearCliente(ctx, admin, &cliente))
	assert.NotZero(t, cliente.ID)

	t.Run("duplicate cuit is a conflict", func(t *testing.T) {
		otro := model.Cliente{Nombre: "Otro Local", Cuit: "30-11111111-9"}
		require.ErrorIs(t, s.CrearCliente(ctx, admin, &otro), ErrConflicto)
	})

	t.Run("name is required", func(t *testing.T) {
		var vErr *ValidationError
		err := s.CrearCliente(ctx, admin, &model.Cliente{})
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "nombre", vErr.Campo)
	})
}

func TestActualizarCliente(t *testing.T) {
	s, gormDB, _ := newTestStore(t)
	seedUsuarios(t, gormDB)
	cliente := seedCliente(t, gormDB, "Panaderia Sol")

	ctx := context.Background()

	zona := "Norte"
	actualizado, err := s.ActualizarCliente(ctx, admin, cliente.ID, ClientePatch{Zona: &zona})
	require.NoError(t, err)
	assert.Equal(t, "Norte", actualizado.Zona)

	_, err = s.ActualizarCliente(ctx, admin, cliente.ID, ClientePatch{Zona: &zona})
	require.ErrorIs(t, err, ErrSinCambios)

	_, err = s.ActualizarCliente(ctx, admin, 999, ClientePatch{Zona: &zona})
	require.ErrorIs(t, err, ErrNoEncontrado)
}

func TestEliminarCliente(t *testing.T) {
	s, gormDB, _ := newTestStore(t)
	seedUsuarios(t, gormDB)
	cliente := seedCliente(t, gormDB, "Carniceria Este")

	ctx := context.Background()

	attrs := freezerDisponible("CL-001")
	attrs.ClienteID = &cliente.ID
	f, err := s.CrearFreezer(ctx, admin, attrs)
	require.NoError(t, err)

	t.Run("cannot delete while freezers are on loan", func(t *testing.T) {
		require.ErrorIs(t, s.EliminarCliente(ctx, admin, cliente.ID), ErrConflicto)
	})

	t.Run("delete after pickup", func(t *testing.T) {
		_, err := s.RegistrarEvento(ctx, admin, EventoNuevo{FreezerID: f.ID, Tipo: model.EventoRetiro})
		require.NoError(t, err)
		require.NoError(t, s.EliminarCliente(ctx, admin, cliente.ID))
	})
}

func TestRegistrarYEditarMantenimiento(t *testing.T) {
	s, gormDB, _ := newTestStore(t)
	seedUsuarios(t, gormDB)

	ctx := context.Background()
	f, err := s.CrearFreezer(ctx, admin, freezerDisponible("MT-001"))
	require.NoError(t, err)

	t.Run("operators cannot register directly", func(t *testing.T) {
		_, err := s.RegistrarMantenimiento(ctx, operador, MantenimientoNuevo{
			FreezerID: f.ID, UsuarioID: operador.ID, Descripcion: "limpieza", Tipo: model.MantenimientoPreventivo,
		})
		require.ErrorIs(t, err, ErrProhibido)
	})

	registro, err := s.RegistrarMantenimiento(ctx, admin, MantenimientoNuevo{
		FreezerID: f.ID, UsuarioID: operador.ID, Descripcion: "limpieza general", Tipo: model.MantenimientoPreventivo,
	})
	require.NoError(t, err)
	assert.False(t, registro.Fecha.IsZero())

	t.Run("edit the editable fields", func(t *testing.T) {
		desc := "limpieza profunda"
		tipo := model.MantenimientoInspeccion
		editado, err := s.EditarMantenimiento(ctx, admin, registro.ID, MantenimientoPatch{Descripcion: &desc, Tipo: &tipo})
		require.NoError(t, err)
		assert.Equal(t, "limpieza profunda", editado.Descripcion)
		assert.Equal(t, model.MantenimientoInspeccion, editado.Tipo)
	})

	t.Run("description cannot be emptied", func(t *testing.T) {
		vacia := ""
		_, err := s.EditarMantenimiento(ctx, admin, registro.ID, MantenimientoPatch{Descripcion: &vacia})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("no-op edit reports sin cambios", func(t *testing.T) {
		desc := "limpieza profunda"
		_, err := s.EditarMantenimiento(ctx, admin, registro.ID, MantenimientoPatch{Descripcion: &desc})
		require.ErrorIs(t, err, ErrSinCambios)
	})

	t.Run("list filters by freezer", func(t *testing.T) {
		registros, total, err := s.ListarMantenimientos(ctx, FiltroMantenimientos{FreezerID: f.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, registros, 1)
		require.NotNil(t, registros[0].Freezer)
		assert.Equal(t, "MT-001", registros[0].Freezer.NumeroSerie)
	})
}
