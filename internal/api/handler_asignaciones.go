package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"freezer-fleet-backend/internal/model"
	"freezer-fleet-backend/internal/mw"
	"freezer-fleet-backend/internal/store"
)

type crearAsignacionRequest struct {
	UsuarioID       uint      `json:"usuario_id" binding:"required"`
	FreezerID       uint      `json:"freezer_id" binding:"required"`
	FechaProgramada time.Time `json:"fecha_programada" binding:"required"`
	Tipo            string    `json:"tipo" binding:"required"`
	Observaciones   string    `json:"observaciones"`
}

// PostAsignacion handles POST /api/asignaciones-mantenimiento.
func (h *Handler) PostAsignacion(c *gin.Context) {
	actor, _ := mw.ActorDe(c)

	var req crearAsignacionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asignacion, err := h.store.CrearAsignacion(c.Request.Context(), actor, store.AsignacionNueva{
		UsuarioID:       req.UsuarioID,
		FreezerID:       req.FreezerID,
		FechaProgramada: req.FechaProgramada,
		Tipo:            model.TipoMantenimiento(req.Tipo),
		Observaciones:   req.Observaciones,
	})
	if err != nil {
		h.responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, asignacion)
}

// PostConfirmarAsignacion handles POST /api/asignaciones-mantenimiento/:id/confirmar.
func (h *Handler) PostConfirmarAsignacion(c *gin.Context) {
	actor, _ := mw.ActorDe(c)
	id, ok := idParam(c, "idAsignacion")
	if !ok {
		return
	}

	registro, err := h.store.ConfirmarAsignacion(c.Request.Context(), actor, id)
	if err != nil {
		h.responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "asignacion confirmada", "mantenimiento": registro})
}

type completarAsignacionRequest struct {
	Descripcion   string `json:"descripcion" binding:"required"`
	TipoRealizado string `json:"tipo_realizado" binding:"required"`
	Observaciones string `json:"observaciones"`
}

// PatchCompletarAsignacion handles
// PATCH /api/asignaciones-mantenimiento/:idAsignacion/completar.
func (h *Handler) PatchCompletarAsignacion(c *gin.Context) {
	actor, _ := mw.ActorDe(c)
	id, ok := idParam(c, "idAsignacion")
	if !ok {
		return
	}

	var req completarAsignacionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	registro, err := h.store.CompletarAsignacion(c.Request.Context(), actor, id, store.CompletarReq{
		Descripcion:   req.Descripcion,
		TipoRealizado: model.TipoMantenimiento(req.TipoRealizado),
		Observaciones: req.Observaciones,
	})
	if err != nil {
		h.responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "asignacion completada", "mantenimiento": registro})
}

type cambiarEstadoRequest struct {
	Estado string `json:"estado" binding:"required"`
}

// PatchEstadoAsignacion handles PATCH /api/asignaciones-mantenimiento/:id/estado.
func (h *Handler) PatchEstadoAsignacion(c *gin.Context) {
	actor, _ := mw.ActorDe(c)
	id, ok := idParam(c, "idAsignacion")
	if !ok {
		return
	}

	var req cambiarEstadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asignacion, err := h.store.CambiarEstadoAsignacion(c.Request.Context(), actor, id, req.Estado)
	if err != nil {
		h.responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, asignacion)
}

// DeleteAsignacion handles DELETE /api/asignaciones-mantenimiento/:id.
func (h *Handler) DeleteAsignacion(c *gin.Context) {
	actor, _ := mw.ActorDe(c)
	id, ok := idParam(c, "idAsignacion")
	if !ok {
		return
	}
	if err := h.store.EliminarAsignacion(c.Request.Context(), actor, id); err != nil {
		h.responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetAsignaciones handles GET /api/asignaciones-mantenimiento. Operators only
// see their own assignments; administrators see everything.
func (h *Handler) GetAsignaciones(c *gin.Context) {
	actor, _ := mw.ActorDe(c)

	filtro := store.FiltroAsignaciones{
		Pagina: paginaDe(c),
		Estado: c.Query("estado"),
	}
	if v, ok := idQuery(c, "freezer_id"); ok {
		filtro.FreezerID = v
	}
	if actor.EsAdministrador() {
		if v, ok := idQuery(c, "usuario_id"); ok {
			filtro.UsuarioID = v
		}
	} else {
		filtro.UsuarioID = actor.ID
	}

	asignaciones, total, err := h.store.ListarAsignaciones(c.Request.Context(), filtro)
	if err != nil {
		h.responderError(c, err)
		return
	}
	listado(c, asignaciones, total)
}
