package store

import (
	"context"
	"fmt"

	"freezer-fleet-backend/internal/model"
)

// ClientePatch carries a partial client update.
type ClientePatch struct {
	Nombre       *string
	Direccion    *string
	Telefono     *string
	Email        *string
	Zona         *string
	Departamento *string
}

// CrearCliente inserts a new client location.
func (s *gormStore) CrearCliente(ctx context.Context, actor Actor, cliente *model.Cliente) error {
	if cliente.Nombre == "" {
		return validacion("nombre", "requerido")
	}
	if cliente.Cuit != "" {
		var dup int64
		if err := s.db.WithContext(ctx).Model(&model.Cliente{}).Where("cuit = ?", cliente.Cuit).Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return fmt.Errorf("cuit %s ya existe: %w", cliente.Cuit, ErrConflicto)
		}
	}
	if err := s.db.WithContext(ctx).Create(cliente).Error; err != nil {
		return err
	}
	s.rec.Registrar(ctx, actor.ID, actor.Nombre, fmt.Sprintf("Alta de cliente %s", cliente.Nombre))
	return nil
}

// ActualizarCliente applies a partial update to a client.
func (s *gormStore) ActualizarCliente(ctx context.Context, actor Actor, id uint, patch ClientePatch) (*model.Cliente, error) {
	var cliente model.Cliente
	if err := s.db.WithContext(ctx).First(&cliente, id).Error; err != nil {
		return nil, traducirNoEncontrado(err)
	}

	updates := map[string]any{}
	campo := func(nombre string, nuevo *string, actual string) {
		if nuevo != nil && *nuevo != actual {
			updates[nombre] = *nuevo
		}
	}
	campo("nombre", patch.Nombre, cliente.Nombre)
	campo("direccion", patch.Direccion, cliente.Direccion)
	campo("telefono", patch.Telefono, cliente.Telefono)
	campo("email", patch.Email, cliente.Email)
	campo("zona", patch.Zona, cliente.Zona)
	campo("departamento", patch.Departamento, cliente.Departamento)
	if len(updates) == 0 {
		return nil, ErrSinCambios
	}

	if err := s.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.rec.Registrar(ctx, actor.ID, actor.Nombre, fmt.Sprintf("Modificacion de cliente %s", cliente.Nombre))
	if err := s.db.WithContext(ctx).First(&cliente, id).Error; err != nil {
		return nil, err
	}
	return &cliente, nil
}

// EliminarCliente removes a client. A client that still holds freezers must
// have them picked up first.
func (s *gormStore) EliminarCliente(ctx context.Context, actor Actor, id uint) error {
	var cliente model.Cliente
	if err := s.db.WithContext(ctx).First(&cliente, id).Error; err != nil {
		return traducirNoEncontrado(err)
	}

	var enPrestamo int64
	if err := s.db.WithContext(ctx).Model(&model.Freezer{}).Where("cliente_id = ?", id).Count(&enPrestamo).Error; err != nil {
		return err
	}
	if enPrestamo > 0 {
		return fmt.Errorf("el cliente %s tiene %d freezers en prestamo: %w", cliente.Nombre, enPrestamo, ErrConflicto)
	}

	if err := s.db.WithContext(ctx).Delete(&model.Cliente{}, id).Error; err != nil {
		return err
	}
	s.rec.Registrar(ctx, actor.ID, actor.Nombre, fmt.Sprintf("Baja de cliente %s", cliente.Nombre))
	return nil
}

// ListarClientes returns a page of clients plus the total.
func (s *gormStore) ListarClientes(ctx context.Context, pagina Pagina) ([]model.Cliente, int64, error) {
	p := pagina.Normalizada()

	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Cliente{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clientes []model.Cliente
	if err := s.db.WithContext(ctx).Order("nombre").
		Offset(p.offset()).Limit(p.PageSize).
		Find(&clientes).Error; err != nil {
		return nil, 0, err
	}
	return clientes, total, nil
}
