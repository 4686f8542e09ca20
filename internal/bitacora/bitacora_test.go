package bitacora

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"freezer-fleet-backend/internal/db"
	"freezer-fleet-backend/internal/model"
)

var testDBSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	n := atomic.AddInt64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:bitacoratest%d?mode=memory&cache=shared", n)
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return gormDB
}

func TestNotificarAdministradores(t *testing.T) {
	gormDB := newTestDB(t)
	b := New(gormDB)

	require.NoError(t, gormDB.Create(&model.Usuario{
		ID: 1, Nombre: "Laura", Email: "laura@frigorid.test", Rol: model.RolAdministrador, Activo: true,
	}).Error)
	require.NoError(t, gormDB.Create(&model.Usuario{
		ID: 2, Nombre: "Raul", Email: "raul@frigorid.test", Rol: model.RolAdministrador, Activo: false,
	}).Error)
	require.NoError(t, gormDB.Create(&model.Usuario{
		ID: 3, Nombre: "Pedro", Email: "pedro@frigorid.test", Rol: model.RolOperador, Activo: true,
	}).Error)

	b.NotificarAdministradores(context.Background(), "Nuevo evento", "detalle", "evento", 1, "evento")

	var avisos []model.Notificacion
	require.NoError(t, gormDB.Find(&avisos).Error)
	require.Len(t, avisos, 1, "only active administrators are notified")
	assert.Equal(t, uint(1), avisos[0].UsuarioID)
}

func TestRegistrar(t *testing.T) {
	gormDB := newTestDB(t)
	b := New(gormDB)

	b.Registrar(context.Background(), 5, "Pedro", "Alta de freezer FZ-1")

	var entrada model.RegistroActividad
	require.NoError(t, gormDB.First(&entrada).Error)
	assert.Equal(t, "Pedro", entrada.UsuarioNombre)
	assert.Equal(t, "Alta de freezer FZ-1", entrada.Detalle)
	assert.False(t, entrada.Fecha.IsZero())
}
