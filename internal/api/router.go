package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"freezer-fleet-backend/config"
	"freezer-fleet-backend/internal/mw"
	"freezer-fleet-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, cfg.Server.Debug, cfg.Push.PublicKey)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)
	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)
	identidad := mw.Identidad(cfg.Auth.JWTSecret)

	api := r.Group("/api")
	api.Use(rateLimiter, identidad)
	{
		// Registry reads (any authenticated role)
		api.GET("/freezers", caching, handler.GetFreezers)
		api.GET("/freezers/:id", handler.GetFreezer)
		api.GET("/clientes", caching, handler.GetClientes)
		api.GET("/eventos", handler.GetEventos)
		api.GET("/asignaciones-mantenimiento", handler.GetAsignaciones)
		api.GET("/mantenimientos", handler.GetMantenimientos)

		// Event recording (admin or operator; the store decides the fan-out)
		api.POST("/eventos", handler.PostEvento)

		// Assignment workflow (assignee-gated inside the store)
		// Gin requires one parameter name per segment across these routes.
		api.POST("/asignaciones-mantenimiento/:idAsignacion/confirmar", handler.PostConfirmarAsignacion)
		api.PATCH("/asignaciones-mantenimiento/:idAsignacion/completar", handler.PatchCompletarAsignacion)
		api.PATCH("/asignaciones-mantenimiento/:idAsignacion/estado", handler.PatchEstadoAsignacion)

		// Inbox and reminder-channel subscriptions (own rows only)
		api.GET("/notificaciones", handler.GetNotificaciones)
		api.PATCH("/notificaciones/:id/leida", handler.PatchNotificacionLeida)
		api.GET("/subscriptions", handler.GetSubscriptions)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		// Administrator-only surface
		admin := api.Group("")
		admin.Use(mw.SoloAdministrador())
		{
			admin.POST("/freezers", handler.PostFreezer)
			admin.PUT("/freezers/:id", handler.PutFreezer)
			admin.DELETE("/freezers/:id", handler.DeleteFreezer)
			admin.PUT("/freezers/:id/asignar", handler.PutAsignarFreezer)
			admin.PATCH("/freezers/:id/desasignar", handler.PatchDesasignarFreezer)

			admin.POST("/clientes", handler.PostCliente)
			admin.PUT("/clientes/:id", handler.PutCliente)
			admin.DELETE("/clientes/:id", handler.DeleteCliente)

			admin.POST("/asignaciones-mantenimiento", handler.PostAsignacion)
			admin.DELETE("/asignaciones-mantenimiento/:idAsignacion", handler.DeleteAsignacion)

			admin.PUT("/eventos/:id", handler.PutEvento)

			admin.POST("/mantenimientos", handler.PostMantenimiento)
			admin.PUT("/mantenimientos/:id", handler.PutMantenimiento)
		}
	}

	return r
}
