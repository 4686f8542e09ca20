package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"freezer-fleet-backend/internal/model"
	"freezer-fleet-backend/internal/mw"
	"freezer-fleet-backend/internal/store"
)

type crearFreezerRequest struct {
	NumeroSerie      string    `json:"numero_serie" binding:"required"`
	Modelo           string    `json:"modelo" binding:"required"`
	Tipo             string    `json:"tipo" binding:"required"`
	Capacidad        int       `json:"capacidad" binding:"required"`
	Marca            string    `json:"marca"`
	FechaAdquisicion time.Time `json:"fecha_adquisicion"`
	Estado           string    `json:"estado"`
	Imagen           string    `json:"imagen"`
	ClienteID        *uint     `json:"cliente_id"`
}

// PostFreezer handles POST /api/freezers.
func (h *Handler) PostFreezer(c *gin.Context) {
	actor, _ := mw.ActorDe(c)

	var req crearFreezerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	freezer, err := h.store.CrearFreezer(c.Request.Context(), actor, store.FreezerAttrs{
		NumeroSerie:      req.NumeroSerie,
		Modelo:           req.Modelo,
		Tipo:             model.TipoFreezer(req.Tipo),
		Capacidad:        req.Capacidad,
		Marca:            req.Marca,
		FechaAdquisicion: req.FechaAdquisicion,
		Estado:           model.EstadoFreezer(req.Estado),
		Imagen:           req.Imagen,
		ClienteID:        req.ClienteID,
	})
	if err != nil {
		h.responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, freezer)
}

type actualizarFreezerRequest struct {
	NumeroSerie      *string    `json:"numero_serie"`
	Modelo           *string    `json:"modelo"`
	Tipo             *string    `json:"tipo"`
	Capacidad        *int       `json:"capacidad"`
	Marca            *string    `json:"marca"`
	FechaAdquisicion *time.Time `json:"fecha_adquisicion"`
	Estado           *string    `json:"estado"`
	Imagen           *string    `json:"imagen"`
	ClienteID        *uint      `json:"cliente_id"`
	QuitarCliente    bool       `json:"quitar_cliente"`
}

// PutFreezer handles PUT /api/freezers/:id.
func (h *Handler) PutFreezer(c *gin.Context) {
	actor, _ := mw.ActorDe(c)
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req actualizarFreezerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := store.FreezerPatch{
		NumeroSerie:      req.NumeroSerie,
		Modelo:           req.Modelo,
		Capacidad:        req.Capacidad,
		Marca:            req.Marca,
		FechaAdquisicion: req.FechaAdquisicion,
		Imagen:           req.Imagen,
		ClienteID:        req.ClienteID,
		QuitarCliente:    req.QuitarCliente,
	}
	if req.Tipo != nil {
		t := model.TipoFreezer(*req.Tipo)
		patch.Tipo = &t
	}
	if req.Estado != nil {
		e := model.EstadoFreezer(*req.Estado)
		patch.Estado = &e
	}

	freezer, err := h.store.ActualizarFreezer(c.Request.Context(), actor, id, patch)
	if err != nil {
		h.responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, freezer)
}

// GetFreezers handles GET /api/freezers.
func (h *Handler) GetFreezers(c *gin.Context) {
	var clienteID uint
	if v, ok := idQuery(c, "cliente_id"); ok {
		clienteID = v
	}
	freezers, total, err := h.store.ListarFreezers(c.Request.Context(), store.FiltroFreezers{
		Pagina:    paginaDe(c),
		Estado:    c.Query("estado"),
		Tipo:      c.Query("tipo"),
		Marca:     c.Query("marca"),
		ClienteID: clienteID,
		Buscar:    c.Query("buscar"),
	})
	if err != nil {
		h.responderError(c, err)
		return
	}
	listado(c, freezers, total)
}

// GetFreezer handles GET /api/freezers/:id.
func (h *Handler) GetFreezer(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	freezer, err := h.store.ObtenerFreezer(c.Request.Context(), id)
	if err != nil {
		h.responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, freezer)
}

// DeleteFreezer handles DELETE /api/freezers/:id.
func (h *Handler) DeleteFreezer(c *gin.Context) {
	actor, _ := mw.ActorDe(c)
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.EliminarFreezer(c.Request.Context(), actor, id); err != nil {
		h.responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type asignarFreezerRequest struct {
	ClienteID uint `json:"cliente_id" binding:"required"`
}

// PutAsignarFreezer handles PUT /api/freezers/:id/asignar.
func (h *Handler) PutAsignarFreezer(c *gin.Context) {
	actor, _ := mw.ActorDe(c)
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req asignarFreezerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	freezer, err := h.store.AsignarFreezer(c.Request.Context(), actor, id, req.ClienteID)
	if err != nil {
		h.responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, freezer)
}

// PatchDesasignarFreezer handles PATCH /api/freezers/:id/desasignar.
func (h *Handler) PatchDesasignarFreezer(c *gin.Context) {
	actor, _ := mw.ActorDe(c)
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	freezer, err := h.store.DesasignarFreezer(c.Request.Context(), actor, id)
	if err != nil {
		h.responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, freezer)
}
