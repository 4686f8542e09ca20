package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"freezer-fleet-backend/internal/model"
	"freezer-fleet-backend/internal/mw"
	"freezer-fleet-backend/internal/store"
)

type registrarMantenimientoRequest struct {
	FreezerID     uint      `json:"freezer_id" binding:"required"`
	UsuarioID     uint      `json:"usuario_id" binding:"required"`
	Fecha         time.Time `json:"fecha"`
	Descripcion   string    `json:"descripcion" binding:"required"`
	Tipo          string    `json:"tipo" binding:"required"`
	Observaciones string    `json:"observaciones"`
}

// PostMantenimiento handles POST /api/mantenimientos.
func (h *Handler) PostMantenimiento(c *gin.Context) {
	actor, _ := mw.ActorDe(c)

	var req registrarMantenimientoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	registro, err := h.store.RegistrarMantenimiento(c.Request.Context(), actor, store.MantenimientoNuevo{
		FreezerID:     req.FreezerID,
		UsuarioID:     req.UsuarioID,
		Fecha:         req.Fecha,
		Descripcion:   req.Descripcion,
		Tipo:          model.TipoMantenimiento(req.Tipo),
		Observaciones: req.Observaciones,
	})
	if err != nil {
		h.responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, registro)
}

type editarMantenimientoRequest struct {
	Descripcion   *string    `json:"descripcion"`
	Tipo          *string    `json:"tipo"`
	Fecha         *time.Time `json:"fecha"`
	Observaciones *string    `json:"observaciones"`
}

// PutMantenimiento handles PUT /api/mantenimientos/:id.
func (h *Handler) PutMantenimiento(c *gin.Context) {
	actor, _ := mw.ActorDe(c)
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req editarMantenimientoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := store.MantenimientoPatch{
		Descripcion:   req.Descripcion,
		Fecha:         req.Fecha,
		Observaciones: req.Observaciones,
	}
	if req.Tipo != nil {
		t := model.TipoMantenimiento(*req.Tipo)
		patch.Tipo = &t
	}

	registro, err := h.store.EditarMantenimiento(c.Request.Context(), actor, id, patch)
	if err != nil {
		h.responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, registro)
}

// GetMantenimientos handles GET /api/mantenimientos.
func (h *Handler) GetMantenimientos(c *gin.Context) {
	filtro := store.FiltroMantenimientos{
		Pagina: paginaDe(c),
		Tipo:   c.Query("tipo"),
	}
	if v, ok := idQuery(c, "freezer_id"); ok {
		filtro.FreezerID = v
	}
	if v, ok := idQuery(c, "usuario_id"); ok {
		filtro.UsuarioID = v
	}

	registros, total, err := h.store.ListarMantenimientos(c.Request.Context(), filtro)
	if err != nil {
		h.responderError(c, err)
		return
	}
	listado(c, registros, total)
}
