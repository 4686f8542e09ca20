package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"freezer-fleet-backend/internal/model"
	"freezer-fleet-backend/internal/mw"
)

type putSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	P256DH   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
}

// PutSubscription registers (or replaces) one of the actor's push
// subscriptions as a reminder-channel target.
func (h *Handler) PutSubscription(c *gin.Context) {
	actor, _ := mw.ActorDe(c)

	var req putSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subscription := model.PushSubscription{
		Endpoint:  req.Endpoint,
		P256DH:    req.P256DH,
		Auth:      req.Auth,
		UsuarioID: actor.ID,
	}
	if err := h.store.DB().WithContext(c.Request.Context()).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "usuario_id"}),
	}).Create(&subscription).Error; err != nil {
		h.responderError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

// GetSubscriptions lists the endpoints the actor has registered.
func (h *Handler) GetSubscriptions(c *gin.Context) {
	actor, _ := mw.ActorDe(c)

	var subs []model.PushSubscription
	if err := h.store.DB().WithContext(c.Request.Context()).
		Where("usuario_id = ?", actor.ID).
		Find(&subs).Error; err != nil {
		h.responderError(c, err)
		return
	}

	endpoints := make([]string, len(subs))
	for i, s := range subs {
		endpoints[i] = s.Endpoint
	}
	c.JSON(http.StatusOK, gin.H{"endpoints": endpoints})
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription removes one of the actor's subscriptions.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	actor, _ := mw.ActorDe(c)

	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := h.store.DB().WithContext(c.Request.Context())
	var sub model.PushSubscription
	if err := db.Where("endpoint = ? AND usuario_id = ?", req.Endpoint, actor.ID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
			return
		}
		h.responderError(c, err)
		return
	}
	if err := db.Delete(&sub).Error; err != nil {
		h.responderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
