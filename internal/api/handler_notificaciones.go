package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"freezer-fleet-backend/internal/model"
	"freezer-fleet-backend/internal/mw"
)

// GetNotificaciones handles GET /api/notificaciones: the actor's own inbox,
// newest first.
func (h *Handler) GetNotificaciones(c *gin.Context) {
	actor, _ := mw.ActorDe(c)
	p := paginaDe(c).Normalizada()

	db := h.store.DB().WithContext(c.Request.Context())
	q := db.Model(&model.Notificacion{}).Where("usuario_id = ?", actor.ID)
	if c.Query("no_leidas") == "true" {
		q = q.Where("leida = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		h.responderError(c, err)
		return
	}

	var notificaciones []model.Notificacion
	if err := q.Order("created_at DESC").
		Offset((p.Page - 1) * p.PageSize).Limit(p.PageSize).
		Find(&notificaciones).Error; err != nil {
		h.responderError(c, err)
		return
	}
	listado(c, notificaciones, total)
}

// PatchNotificacionLeida handles PATCH /api/notificaciones/:id/leida. Users
// can only mark their own messages.
func (h *Handler) PatchNotificacionLeida(c *gin.Context) {
	actor, _ := mw.ActorDe(c)
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	db := h.store.DB().WithContext(c.Request.Context())
	var n model.Notificacion
	if err := db.Where("id = ? AND usuario_id = ?", id, actor.ID).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notificacion no encontrada"})
			return
		}
		h.responderError(c, err)
		return
	}

	if err := db.Model(&n).Update("leida", true).Error; err != nil {
		h.responderError(c, err)
		return
	}
	n.Leida = true
	c.JSON(http.StatusOK, n)
}
