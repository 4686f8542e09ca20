package mw

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"freezer-fleet-backend/internal/model"
	"freezer-fleet-backend/internal/store"
)

// ActorKey is the gin context key under which the authenticated actor is
// stored.
const ActorKey = "actor"

// extraerToken strips the "Bearer " prefix from an Authorization header.
func extraerToken(authHeader string) string {
	if strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// Identidad validates the bearer token and places the identity context in
// the request. Credential issuance lives outside this service; the token's
// claims (sub, nombre, rol) are trusted once the signature checks out.
func Identidad(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "falta el encabezado Authorization"})
			return
		}

		token, err := jwt.Parse(extraerToken(authHeader), func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token invalido"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token invalido"})
			return
		}

		actor, ok := actorDesdeClaims(claims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token sin identidad completa"})
			return
		}

		c.Set(ActorKey, actor)
		c.Next()
	}
}

func actorDesdeClaims(claims jwt.MapClaims) (store.Actor, bool) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return store.Actor{}, false
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return store.Actor{}, false
	}
	nombre, _ := claims["nombre"].(string)
	rol, _ := claims["rol"].(string)
	if nombre == "" || (rol != string(model.RolAdministrador) && rol != string(model.RolOperador)) {
		return store.Actor{}, false
	}
	return store.Actor{ID: uint(id), Nombre: nombre, Rol: model.Rol(rol)}, true
}

// SoloAdministrador rejects requests whose actor is not an administrator.
func SoloAdministrador() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorDe(c)
		if !ok || !actor.EsAdministrador() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "requiere rol administrador"})
			return
		}
		c.Next()
	}
}

// ActorDe extracts the authenticated actor from the gin context.
func ActorDe(c *gin.Context) (store.Actor, bool) {
	v, exists := c.Get(ActorKey)
	if !exists {
		return store.Actor{}, false
	}
	actor, ok := v.(store.Actor)
	return actor, ok
}
