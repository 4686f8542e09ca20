package store

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"freezer-fleet-backend/internal/db"
	"freezer-fleet-backend/internal/model"
)

var testDBSeq int64

// newTestDB opens a fresh in-memory SQLite database per test. Each database
// gets its own name so GORM's connection pool keeps seeing the same data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	n := atomic.AddInt64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:storetest%d?mode=memory&cache=shared", n)
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

// aviso is one captured notification.
type aviso struct {
	UsuarioID uint
	Titulo    string
	Mensaje   string
	Tipo      string
	RefID     uint
	RefTipo   string
}

// recorderSpy captures the audit and notification side effects for assertion.
type recorderSpy struct {
	registros []string
	avisos    []aviso
	paraAdmin []aviso
}

func (r *recorderSpy) Registrar(_ context.Context, _ uint, _, detalle string) {
	r.registros = append(r.registros, detalle)
}

func (r *recorderSpy) Notificar(_ context.Context, usuarioID uint, titulo, mensaje, tipo string, refID uint, refTipo string) {
	r.avisos = append(r.avisos, aviso{usuarioID, titulo, mensaje, tipo, refID, refTipo})
}

func (r *recorderSpy) NotificarAdministradores(_ context.Context, titulo, mensaje, tipo string, refID uint, refTipo string) {
	r.paraAdmin = append(r.paraAdmin, aviso{0, titulo, mensaje, tipo, refID, refTipo})
}

// newTestStore wires a gormStore over a fresh database with a spy recorder.
func newTestStore(t *testing.T) (*gormStore, *gorm.DB, *recorderSpy) {
	t.Helper()
	gormDB := newTestDB(t)
	spy := &recorderSpy{}
	return &gormStore{db: gormDB, rec: spy}, gormDB, spy
}

var (
	admin    = Actor{ID: 1, Nombre: "Laura Admin", Rol: model.RolAdministrador}
	operador = Actor{ID: 2, Nombre: "Pedro Operador", Rol: model.RolOperador}
)

// seedUsuarios inserts the two actors used across the store tests.
func seedUsuarios(t *testing.T, gormDB *gorm.DB) {
	t.Helper()
	require.NoError(t, gormDB.Create(&model.Usuario{
		ID: admin.ID, Nombre: admin.Nombre, Email: "laura@frigorid.test", Rol: model.RolAdministrador, Activo: true,
	}).Error)
	require.NoError(t, gormDB.Create(&model.Usuario{
		ID: operador.ID, Nombre: operador.Nombre, Email: "pedro@frigorid.test", Rol: model.RolOperador, Activo: true,
	}).Error)
}

func seedCliente(t *testing.T, gormDB *gorm.DB, nombre string) *model.Cliente {
	t.Helper()
	cliente := model.Cliente{Nombre: nombre, Cuit: fmt.Sprintf("30-%s-9", nombre), Zona: "Centro"}
	require.NoError(t, gormDB.Create(&cliente).Error)
	return &cliente
}

func TestObtenerUsuario(t *testing.T) {
	s, gormDB, _ := newTestStore(t)
	seedUsuarios(t, gormDB)

	u, err := s.ObtenerUsuario(context.Background(), operador.ID)
	require.NoError(t, err)
	require.Equal(t, model.RolOperador, u.Rol)

	_, err = s.ObtenerUsuario(context.Background(), 999)
	require.ErrorIs(t, err, ErrNoEncontrado)
}

func TestPaginaNormalizada(t *testing.T) {
	p := Pagina{}.Normalizada()
	require.Equal(t, 1, p.Page)
	require.Equal(t, 20, p.PageSize)

	p = Pagina{Page: 3, PageSize: 500}.Normalizada()
	require.Equal(t, 3, p.Page)
	require.Equal(t, 20, p.PageSize)
	require.Equal(t, 40, p.offset())
}
