package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"freezer-fleet-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store          store.Store
	debug          bool
	vapidPublicKey string
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, debug bool, vapidPublicKey string) *Handler {
	return &Handler{store: s, debug: debug, vapidPublicKey: vapidPublicKey}
}

// paginaDe parses the page/pageSize query parameters.
func paginaDe(c *gin.Context) store.Pagina {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	return store.Pagina{Page: page, PageSize: pageSize}
}

// idParam parses a numeric path parameter.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identificador invalido"})
		return 0, false
	}
	return uint(id), true
}

// idQuery parses an optional numeric query parameter.
func idQuery(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// listado writes the standard list envelope. An empty page is still HTTP 200,
// with an explanatory message instead of a 404.
func listado[T any](c *gin.Context, data []T, total int64) {
	if data == nil {
		data = []T{}
	}
	body := gin.H{"data": data, "total": total}
	if len(data) == 0 {
		body["message"] = "no se encontraron resultados"
	}
	c.JSON(http.StatusOK, body)
}

// responderError maps the store's error taxonomy onto HTTP responses.
func (h *Handler) responderError(c *gin.Context, err error) {
	var vErr *store.ValidationError
	var pErr *store.PreconditionError

	switch {
	case errors.Is(err, store.ErrSinCambios):
		c.JSON(http.StatusOK, gin.H{"message": "nada para actualizar"})
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "campo": vErr.Campo})
	case errors.Is(err, store.ErrProhibido):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrConflicto):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &pErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": pErr.Regla})
	default:
		log.Printf("Unexpected error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		if h.debug {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error interno"})
	}
}
