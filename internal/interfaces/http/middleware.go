package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/servicehub/internal/domain/entity"
)

// Identity headers. Authentication happens upstream; the adapter trusts them.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

const actorKey = "actor"

// actorMiddleware builds the explicit Actor for the request from the identity headers
func actorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderUserID)
		role := entity.Role(c.GetHeader(HeaderUserRole))

		if id == "" || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing " + HeaderUserID + " or " + HeaderUserRole + " header",
			})
			return
		}
		if !role.IsValid() {
			c.AbortWithStatusJSON(http.StatusBadRequest, Response{
				Success: false,
				Error:   "unknown role " + string(role),
			})
			return
		}

		c.Set(actorKey, entity.Actor{ID: id, Role: role})
		c.Next()
	}
}

// requireOverride limits a route group to the override role
func requireOverride() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !actorFrom(c).Role.IsOverride() {
			c.AbortWithStatusJSON(http.StatusForbidden, Response{
				Success: false,
				Error:   "forbidden: requires " + entity.RoleSuperAdmin.String(),
			})
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) entity.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(entity.Actor); ok {
			return actor
		}
	}
	return entity.Actor{}
}
