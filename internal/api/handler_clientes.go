package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freezer-fleet-backend/internal/model"
	"freezer-fleet-backend/internal/mw"
	"freezer-fleet-backend/internal/store"
)

type crearClienteRequest struct {
	Nombre       string `json:"nombre" binding:"required"`
	Cuit         string `json:"cuit"`
	Direccion    string `json:"direccion"`
	Telefono     string `json:"telefono"`
	Email        string `json:"email"`
	Zona         string `json:"zona"`
	Departamento string `json:"departamento"`
}

// PostCliente handles POST /api/clientes.
func (h *Handler) PostCliente(c *gin.Context) {
	actor, _ := mw.ActorDe(c)

	var req crearClienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cliente := model.Cliente{
		Nombre:       req.Nombre,
		Cuit:         req.Cuit,
		Direccion:    req.Direccion,
		Telefono:     req.Telefono,
		Email:        req.Email,
		Zona:         req.Zona,
		Departamento: req.Departamento,
	}
	if err := h.store.CrearCliente(c.Request.Context(), actor, &cliente); err != nil {
		h.responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cliente)
}

type actualizarClienteRequest struct {
	Nombre       *string `json:"nombre"`
	Direccion    *string `json:"direccion"`
	Telefono     *string `json:"telefono"`
	Email        *string `json:"email"`
	Zona         *string `json:"zona"`
	Departamento *string `json:"departamento"`
}

// PutCliente handles PUT /api/clientes/:id.
func (h *Handler) PutCliente(c *gin.Context) {
	actor, _ := mw.ActorDe(c)
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req actualizarClienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cliente, err := h.store.ActualizarCliente(c.Request.Context(), actor, id, store.ClientePatch{
		Nombre:       req.Nombre,
		Direccion:    req.Direccion,
		Telefono:     req.Telefono,
		Email:        req.Email,
		Zona:         req.Zona,
		Departamento: req.Departamento,
	})
	if err != nil {
		h.responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, cliente)
}

// DeleteCliente handles DELETE /api/clientes/:id.
func (h *Handler) DeleteCliente(c *gin.Context) {
	actor, _ := mw.ActorDe(c)
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.EliminarCliente(c.Request.Context(), actor, id); err != nil {
		h.responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetClientes handles GET /api/clientes.
func (h *Handler) GetClientes(c *gin.Context) {
	clientes, total, err := h.store.ListarClientes(c.Request.Context(), paginaDe(c))
	if err != nil {
		h.responderError(c, err)
		return
	}
	listado(c, clientes, total)
}
