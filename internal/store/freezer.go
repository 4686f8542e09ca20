package store

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"freezer-fleet-backend/internal/model"
)

var numeroSerieRe = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// FreezerAttrs carries the attributes for creating a unit.
type FreezerAttrs struct {
	NumeroSerie      string
	Modelo           string
	Tipo             model.TipoFreezer
	Capacidad        int
	Marca            string
	FechaAdquisicion time.Time
	Estado           model.EstadoFreezer // optional; defaulted from ClienteID
	Imagen           string
	ClienteID        *uint
}

// FreezerPatch carries a partial update; nil fields are left untouched.
type FreezerPatch struct {
	NumeroSerie      *string
	Modelo           *string
	Tipo             *model.TipoFreezer
	Capacidad        *int
	Marca            *string
	FechaAdquisicion *time.Time
	Estado           *model.EstadoFreezer
	Imagen           *string
	ClienteID        *uint
	QuitarCliente    bool // explicit "set client to null"
}

// FiltroFreezers holds the list filters for the registry.
type FiltroFreezers struct {
	Pagina
	Estado    string
	Tipo      string
	Marca     string
	ClienteID uint
	Buscar    string // matches serial number or model
}

// validarCoherencia checks a resulting estado+cliente pair: Asignado requires
// a client, every other state requires none.
func validarCoherencia(estado model.EstadoFreezer, clienteID *uint) error {
	if estado == model.EstadoAsignado && clienteID == nil {
		return precondicion("un freezer en estado %s debe tener un cliente asignado", model.EstadoAsignado)
	}
	if estado != model.EstadoAsignado && clienteID != nil {
		if estado == model.EstadoBaja || estado == model.EstadoMantenimiento {
			return precondicion("no se puede pasar a %s con un cliente asignado; debe registrarse el retiro primero", estado)
		}
		return precondicion("un freezer con cliente debe estar en estado %s", model.EstadoAsignado)
	}
	return nil
}

// CrearFreezer validates and inserts a new unit. When no state is supplied it
// defaults to Disponible, or Asignado when a client is given.
func (s *gormStore) CrearFreezer(ctx context.Context, actor Actor, attrs FreezerAttrs) (*model.Freezer, error) {
	if attrs.NumeroSerie == "" || !numeroSerieRe.MatchString(attrs.NumeroSerie) {
		return nil, validacion("numero_serie", "requerido, solo letras, numeros y guiones")
	}
	if attrs.Capacidad <= 0 {
		return nil, validacion("capacidad", "debe ser un entero positivo")
	}
	if !attrs.Tipo.Valido() {
		return nil, validacion("tipo", "valor desconocido")
	}

	estado := attrs.Estado
	if estado == "" {
		if attrs.ClienteID != nil {
			estado = model.EstadoAsignado
		} else {
			estado = model.EstadoDisponible
		}
	}
	if !estado.Valido() {
		return nil, validacion("estado", "valor desconocido")
	}
	if err := validarCoherencia(estado, attrs.ClienteID); err != nil {
		return nil, err
	}

	if attrs.ClienteID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", *attrs.ClienteID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, validacion("cliente_id", "el cliente no existe")
		}
	}

	var dup int64
	if err := s.db.WithContext(ctx).Model(&model.Freezer{}).Where("numero_serie = ?", attrs.NumeroSerie).Count(&dup).Error; err != nil {
		return nil, err
	}
	if dup > 0 {
		return nil, fmt.Errorf("numero de serie %s ya existe: %w", attrs.NumeroSerie, ErrConflicto)
	}

	freezer := model.Freezer{
		NumeroSerie:      attrs.NumeroSerie,
		Modelo:           attrs.Modelo,
		Tipo:             attrs.Tipo,
		Capacidad:        attrs.Capacidad,
		Marca:            attrs.Marca,
		FechaAdquisicion: attrs.FechaAdquisicion,
		Estado:           estado,
		Imagen:           attrs.Imagen,
		ClienteID:        attrs.ClienteID,
	}
	if err := s.db.WithContext(ctx).Create(&freezer).Error; err != nil {
		return nil, err
	}

	s.rec.Registrar(ctx, actor.ID, actor.Nombre,
		fmt.Sprintf("Alta de freezer %s (estado %s)", freezer.NumeroSerie, freezer.Estado))
	if freezer.Estado == model.EstadoAsignado {
		s.rec.NotificarAdministradores(ctx, "Freezer asignado",
			fmt.Sprintf("El freezer %s fue dado de alta ya asignado", freezer.NumeroSerie),
			"freezer", freezer.ID, "freezer")
	}
	return &freezer, nil
}

// ActualizarFreezer applies a partial update. The resulting estado+cliente
// pair is validated, not the patch in isolation: moving an assigned unit to
// Baja or Mantenimiento without clearing the client is rejected.
func (s *gormStore) ActualizarFreezer(ctx context.Context, actor Actor, id uint, patch FreezerPatch) (*model.Freezer, error) {
	freezer, err := s.ObtenerFreezer(ctx, id)
	if err != nil {
		return nil, err
	}

	estadoResultante := freezer.Estado
	if patch.Estado != nil {
		if !patch.Estado.Valido() {
			return nil, validacion("estado", "valor desconocido")
		}
		estadoResultante = *patch.Estado
	}
	clienteResultante := freezer.ClienteID
	if patch.QuitarCliente {
		clienteResultante = nil
	} else if patch.ClienteID != nil {
		clienteResultante = patch.ClienteID
	}
	if err := validarCoherencia(estadoResultante, clienteResultante); err != nil {
		return nil, err
	}
	if patch.Capacidad != nil && *patch.Capacidad <= 0 {
		return nil, validacion("capacidad", "debe ser un entero positivo")
	}
	if patch.NumeroSerie != nil {
		if !numeroSerieRe.MatchString(*patch.NumeroSerie) {
			return nil, validacion("numero_serie", "solo letras, numeros y guiones")
		}
		if *patch.NumeroSerie != freezer.NumeroSerie {
			var dup int64
			if err := s.db.WithContext(ctx).Model(&model.Freezer{}).
				Where("numero_serie = ? AND id != ?", *patch.NumeroSerie, id).
				Count(&dup).Error; err != nil {
				return nil, err
			}
			if dup > 0 {
				return nil, fmt.Errorf("numero de serie %s ya existe: %w", *patch.NumeroSerie, ErrConflicto)
			}
		}
	}
	if clienteResultante != nil && (freezer.ClienteID == nil || *clienteResultante != *freezer.ClienteID) {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", *clienteResultante).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, validacion("cliente_id", "el cliente no existe")
		}
	}

	teniaCliente := freezer.ClienteID != nil
	updates, cambios := freezerCambios(freezer, patch, estadoResultante, clienteResultante)
	if len(updates) == 0 {
		return nil, ErrSinCambios
	}

	if err := s.db.WithContext(ctx).Model(&model.Freezer{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.rec.Registrar(ctx, actor.ID, actor.Nombre,
		fmt.Sprintf("Modificacion de freezer %s: %s", freezer.NumeroSerie, cambios))
	s.notificarTransicion(ctx, freezer, estadoResultante, clienteResultante, teniaCliente)

	return s.ObtenerFreezer(ctx, id)
}

// freezerCambios builds the column update map and a human-readable list of
// what changed. Only fields that actually change are included, so a no-op
// patch is detectable and the audit entry names real changes only.
func freezerCambios(f *model.Freezer, patch FreezerPatch, estado model.EstadoFreezer, clienteID *uint) (map[string]any, string) {
	updates := map[string]any{}
	detalle := ""
	agregar := func(campo string, anterior, nuevo any) {
		if detalle != "" {
			detalle += ", "
		}
		detalle += fmt.Sprintf("%s: %v -> %v", campo, anterior, nuevo)
	}

	if patch.NumeroSerie != nil && *patch.NumeroSerie != f.NumeroSerie {
		updates["numero_serie"] = *patch.NumeroSerie
		agregar("numero_serie", f.NumeroSerie, *patch.NumeroSerie)
	}
	if patch.Modelo != nil && *patch.Modelo != f.Modelo {
		updates["modelo"] = *patch.Modelo
		agregar("modelo", f.Modelo, *patch.Modelo)
	}
	if patch.Tipo != nil && *patch.Tipo != f.Tipo {
		updates["tipo"] = *patch.Tipo
		agregar("tipo", f.Tipo, *patch.Tipo)
	}
	if patch.Capacidad != nil && *patch.Capacidad != f.Capacidad {
		updates["capacidad"] = *patch.Capacidad
		agregar("capacidad", f.Capacidad, *patch.Capacidad)
	}
	if patch.Marca != nil && *patch.Marca != f.Marca {
		updates["marca"] = *patch.Marca
		agregar("marca", f.Marca, *patch.Marca)
	}
	if patch.FechaAdquisicion != nil && !patch.FechaAdquisicion.Equal(f.FechaAdquisicion) {
		updates["fecha_adquisicion"] = *patch.FechaAdquisicion
		agregar("fecha_adquisicion", f.FechaAdquisicion.Format("2006-01-02"), patch.FechaAdquisicion.Format("2006-01-02"))
	}
	if patch.Imagen != nil && *patch.Imagen != f.Imagen {
		updates["imagen"] = *patch.Imagen
		agregar("imagen", f.Imagen, *patch.Imagen)
	}
	if estado != f.Estado {
		updates["estado"] = estado
		agregar("estado", f.Estado, estado)
	}
	clienteCambia := (clienteID == nil) != (f.ClienteID == nil) ||
		(clienteID != nil && f.ClienteID != nil && *clienteID != *f.ClienteID)
	if clienteCambia {
		updates["cliente_id"] = clienteID
		agregar("cliente", punteroTexto(f.ClienteID), punteroTexto(clienteID))
	}
	return updates, detalle
}

func punteroTexto(id *uint) string {
	if id == nil {
		return "ninguno"
	}
	return fmt.Sprintf("%d", *id)
}

// notificarTransicion emits the registry's notification side effects: a unit
// newly assigned, unassigned, or moved out of circulation.
func (s *gormStore) notificarTransicion(ctx context.Context, anterior *model.Freezer, estado model.EstadoFreezer, clienteID *uint, teniaCliente bool) {
	switch {
	case estado == model.EstadoAsignado && anterior.Estado != model.EstadoAsignado:
		s.rec.NotificarAdministradores(ctx, "Freezer asignado",
			fmt.Sprintf("El freezer %s paso a estado %s", anterior.NumeroSerie, estado),
			"freezer", anterior.ID, "freezer")
	case anterior.Estado == model.EstadoAsignado && estado != model.EstadoAsignado:
		s.rec.NotificarAdministradores(ctx, "Freezer desasignado",
			fmt.Sprintf("El freezer %s paso a estado %s", anterior.NumeroSerie, estado),
			"freezer", anterior.ID, "freezer")
	case (estado == model.EstadoBaja || estado == model.EstadoMantenimiento) && teniaCliente:
		s.rec.NotificarAdministradores(ctx, "Freezer fuera de servicio",
			fmt.Sprintf("El freezer %s paso a estado %s", anterior.NumeroSerie, estado),
			"freezer", anterior.ID, "freezer")
	}
}

// EliminarFreezer removes a unit. A unit still attached to a client must be
// picked up first.
func (s *gormStore) EliminarFreezer(ctx context.Context, actor Actor, id uint) error {
	freezer, err := s.ObtenerFreezer(ctx, id)
	if err != nil {
		return err
	}
	if freezer.ClienteID != nil {
		return fmt.Errorf("el freezer %s tiene un cliente asignado: %w", freezer.NumeroSerie, ErrConflicto)
	}
	if err := s.db.WithContext(ctx).Delete(&model.Freezer{}, id).Error; err != nil {
		return err
	}
	s.rec.Registrar(ctx, actor.ID, actor.Nombre, fmt.Sprintf("Baja definitiva de freezer %s", freezer.NumeroSerie))
	return nil
}

// AsignarFreezer places an available unit on loan to a client.
func (s *gormStore) AsignarFreezer(ctx context.Context, actor Actor, id, clienteID uint) (*model.Freezer, error) {
	freezer, err := s.ObtenerFreezer(ctx, id)
	if err != nil {
		return nil, err
	}
	if freezer.Estado != model.EstadoDisponible {
		return nil, precondicion("solo un freezer %s puede asignarse; estado actual %s", model.EstadoDisponible, freezer.Estado)
	}
	var cliente model.Cliente
	if err := s.db.WithContext(ctx).First(&cliente, clienteID).Error; err != nil {
		return nil, traducirNoEncontrado(err)
	}

	if err := s.db.WithContext(ctx).Model(&model.Freezer{}).Where("id = ?", id).
		Updates(map[string]any{"estado": model.EstadoAsignado, "cliente_id": clienteID}).Error; err != nil {
		return nil, err
	}

	s.rec.Registrar(ctx, actor.ID, actor.Nombre,
		fmt.Sprintf("Freezer %s asignado a cliente %s", freezer.NumeroSerie, cliente.Nombre))
	s.rec.NotificarAdministradores(ctx, "Freezer asignado",
		fmt.Sprintf("El freezer %s fue asignado a %s", freezer.NumeroSerie, cliente.Nombre),
		"freezer", freezer.ID, "freezer")
	return s.ObtenerFreezer(ctx, id)
}

// DesasignarFreezer returns a unit on loan to the available pool.
func (s *gormStore) DesasignarFreezer(ctx context.Context, actor Actor, id uint) (*model.Freezer, error) {
	freezer, err := s.ObtenerFreezer(ctx, id)
	if err != nil {
		return nil, err
	}
	if freezer.Estado != model.EstadoAsignado {
		return nil, precondicion("solo un freezer %s puede desasignarse; estado actual %s", model.EstadoAsignado, freezer.Estado)
	}

	if err := s.db.WithContext(ctx).Model(&model.Freezer{}).Where("id = ?", id).
		Updates(map[string]any{"estado": model.EstadoDisponible, "cliente_id": nil}).Error; err != nil {
		return nil, err
	}

	s.rec.Registrar(ctx, actor.ID, actor.Nombre, fmt.Sprintf("Freezer %s desasignado", freezer.NumeroSerie))
	s.rec.NotificarAdministradores(ctx, "Freezer desasignado",
		fmt.Sprintf("El freezer %s volvio a estar disponible", freezer.NumeroSerie),
		"freezer", freezer.ID, "freezer")
	return s.ObtenerFreezer(ctx, id)
}

// ObtenerFreezer fetches a unit with its client preloaded.
func (s *gormStore) ObtenerFreezer(ctx context.Context, id uint) (*model.Freezer, error) {
	var freezer model.Freezer
	if err := s.db.WithContext(ctx).Preload("Cliente").First(&freezer, id).Error; err != nil {
		return nil, traducirNoEncontrado(err)
	}
	return &freezer, nil
}

// ListarFreezers returns a filtered page of units plus the unpaged total.
func (s *gormStore) ListarFreezers(ctx context.Context, filtro FiltroFreezers) ([]model.Freezer, int64, error) {
	p := filtro.Pagina.Normalizada()

	q := s.db.WithContext(ctx).Model(&model.Freezer{})
	if filtro.Estado != "" {
		q = q.Where("estado = ?", filtro.Estado)
	}
	if filtro.Tipo != "" {
		q = q.Where("tipo = ?", filtro.Tipo)
	}
	if filtro.Marca != "" {
		q = q.Where("marca = ?", filtro.Marca)
	}
	if filtro.ClienteID != 0 {
		q = q.Where("cliente_id = ?", filtro.ClienteID)
	}
	if filtro.Buscar != "" {
		patron := "%" + filtro.Buscar + "%"
		q = q.Where("numero_serie LIKE ? OR modelo LIKE ?", patron, patron)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var freezers []model.Freezer
	if err := q.Preload("Cliente").Order("id").
		Offset(p.offset()).Limit(p.PageSize).
		Find(&freezers).Error; err != nil {
		return nil, 0, err
	}
	return freezers, total, nil
}
