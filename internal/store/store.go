package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"freezer-fleet-backend/internal/model"
)

// Actor is the authenticated identity every mutating call receives. The core
// trusts it and does not re-verify credentials.
type Actor struct {
	ID     uint
	Nombre string
	Rol    model.Rol
}

// EsAdministrador reports whether the actor holds the administrator role.
func (a Actor) EsAdministrador() bool {
	return a.Rol == model.RolAdministrador
}

// Recorder is the write-only audit and notification collaborator. All calls
// are best-effort: implementations log failures and never return them, so a
// failed sink write can never roll back a committed mutation.
type Recorder interface {
	Registrar(ctx context.Context, usuarioID uint, usuarioNombre, detalle string)
	Notificar(ctx context.Context, usuarioID uint, titulo, mensaje, tipo string, refID uint, refTipo string)
	NotificarAdministradores(ctx context.Context, titulo, mensaje, tipo string, refID uint, refTipo string)
}

// Pagina carries the paging parameters accepted by every list operation.
type Pagina struct {
	Page     int
	PageSize int
}

// Normalizada applies the defaults used across all list endpoints.
func (p Pagina) Normalizada() Pagina {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 || p.PageSize > 100 {
		p.PageSize = 20
	}
	return p
}

func (p Pagina) offset() int { return (p.Page - 1) * p.PageSize }

// Store defines the database operations of the asset registry, the event
// processor and the maintenance workflow.
type Store interface {
	DB() *gorm.DB

	// Asset Registry
	CrearFreezer(ctx context.Context, actor Actor, attrs FreezerAttrs) (*model.Freezer, error)
	ActualizarFreezer(ctx context.Context, actor Actor, id uint, patch FreezerPatch) (*model.Freezer, error)
	EliminarFreezer(ctx context.Context, actor Actor, id uint) error
	AsignarFreezer(ctx context.Context, actor Actor, id, clienteID uint) (*model.Freezer, error)
	DesasignarFreezer(ctx context.Context, actor Actor, id uint) (*model.Freezer, error)
	ObtenerFreezer(ctx context.Context, id uint) (*model.Freezer, error)
	ListarFreezers(ctx context.Context, filtro FiltroFreezers) ([]model.Freezer, int64, error)

	// Event Processor
	RegistrarEvento(ctx context.Context, actor Actor, req EventoNuevo) (*model.Evento, error)
	EditarEvento(ctx context.Context, actor Actor, id uint, patch EventoPatch) (*model.Evento, error)
	ListarEventos(ctx context.Context, filtro FiltroEventos) ([]model.Evento, int64, error)

	// Maintenance Assignment Workflow
	CrearAsignacion(ctx context.Context, actor Actor, req AsignacionNueva) (*model.AsignacionMantenimiento, error)
	ConfirmarAsignacion(ctx context.Context, actor Actor, id uint) (*model.Mantenimiento, error)
	CompletarAsignacion(ctx context.Context, actor Actor, id uint, req CompletarReq) (*model.Mantenimiento, error)
	CambiarEstadoAsignacion(ctx context.Context, actor Actor, id uint, nuevoEstado string) (*model.AsignacionMantenimiento, error)
	EliminarAsignacion(ctx context.Context, actor Actor, id uint) error
	ListarAsignaciones(ctx context.Context, filtro FiltroAsignaciones) ([]model.AsignacionMantenimiento, int64, error)
	AsignacionesPendientes(ctx context.Context) ([]model.AsignacionMantenimiento, error)
	MarcarVencida(ctx context.Context, id uint) (bool, error)

	// Permanent maintenance records
	RegistrarMantenimiento(ctx context.Context, actor Actor, req MantenimientoNuevo) (*model.Mantenimiento, error)
	EditarMantenimiento(ctx context.Context, actor Actor, id uint, patch MantenimientoPatch) (*model.Mantenimiento, error)
	ListarMantenimientos(ctx context.Context, filtro FiltroMantenimientos) ([]model.Mantenimiento, int64, error)

	// Reference data
	CrearCliente(ctx context.Context, actor Actor, cliente *model.Cliente) error
	ActualizarCliente(ctx context.Context, actor Actor, id uint, patch ClientePatch) (*model.Cliente, error)
	EliminarCliente(ctx context.Context, actor Actor, id uint) error
	ListarClientes(ctx context.Context, pagina Pagina) ([]model.Cliente, int64, error)
	ObtenerUsuario(ctx context.Context, id uint) (*model.Usuario, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db  *gorm.DB
	rec Recorder
}

// NewGormStore creates a new GORM-backed store. The recorder receives the
// audit and notification side effects after each primary mutation commits.
func NewGormStore(db *gorm.DB, rec Recorder) Store {
	return &gormStore{db: db, rec: rec}
}

func (s *gormStore) DB() *gorm.DB { return s.db }

// ObtenerUsuario resolves a user id, mapping gorm.ErrRecordNotFound to the
// store's not-found sentinel.
func (s *gormStore) ObtenerUsuario(ctx context.Context, id uint) (*model.Usuario, error) {
	var u model.Usuario
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, traducirNoEncontrado(err)
	}
	return &u, nil
}

func traducirNoEncontrado(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNoEncontrado
	}
	return err
}

func ahora() time.Time { return time.Now().UTC() }
