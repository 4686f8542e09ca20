package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freezer-fleet-backend/internal/model"
	"freezer-fleet-backend/internal/mw"
	"freezer-fleet-backend/internal/store"
)

type registrarEventoRequest struct {
	FreezerID     uint   `json:"freezer_id" binding:"required"`
	ClienteID     uint   `json:"cliente_id"`
	Tipo          string `json:"tipo" binding:"required"`
	Observaciones string `json:"observaciones"`
}

// PostEvento handles POST /api/eventos.
func (h *Handler) PostEvento(c *gin.Context) {
	actor, _ := mw.ActorDe(c)

	var req registrarEventoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	evento, err := h.store.RegistrarEvento(c.Request.Context(), actor, store.EventoNuevo{
		FreezerID:     req.FreezerID,
		ClienteID:     req.ClienteID,
		Tipo:          model.TipoEvento(req.Tipo),
		Observaciones: req.Observaciones,
	})
	if err != nil {
		h.responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, evento)
}

type editarEventoRequest struct {
	Observaciones *string `json:"observaciones"`
	Tipo          *string `json:"tipo"`
	FreezerID     *uint   `json:"freezer_id"`
	ClienteID     *uint   `json:"cliente_id"`
}

// PutEvento handles PUT /api/eventos/:id. Only the observations can change;
// the store rejects anything else by field name.
func (h *Handler) PutEvento(c *gin.Context) {
	actor, _ := mw.ActorDe(c)
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req editarEventoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	evento, err := h.store.EditarEvento(c.Request.Context(), actor, id, store.EventoPatch{
		Observaciones: req.Observaciones,
		Tipo:          req.Tipo,
		FreezerID:     req.FreezerID,
		ClienteID:     req.ClienteID,
	})
	if err != nil {
		h.responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, evento)
}

// GetEventos handles GET /api/eventos.
func (h *Handler) GetEventos(c *gin.Context) {
	var freezerID uint
	if v, ok := idQuery(c, "freezer_id"); ok {
		freezerID = v
	}
	eventos, total, err := h.store.ListarEventos(c.Request.Context(), store.FiltroEventos{
		Pagina:    paginaDe(c),
		FreezerID: freezerID,
		Tipo:      c.Query("tipo"),
	})
	if err != nil {
		h.responderError(c, err)
		return
	}
	listado(c, eventos, total)
}
