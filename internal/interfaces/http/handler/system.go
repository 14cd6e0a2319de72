package handler

import (
	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping() error
}

// SystemHandler handles liveness and readiness endpoints
type SystemHandler struct {
	BaseHandler
	db      Pinger
	version string
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger, version string) *SystemHandler {
	return &SystemHandler{db: db, version: version}
}

// Ping is a plain liveness check
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, gin.H{"message": "pong"})
}

// Health reports service health including database connectivity
func (h *SystemHandler) Health(c *gin.Context) {
	status := "ok"
	database := "ok"
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			status = "degraded"
			database = "unreachable"
		}
	}

	h.Success(c, gin.H{
		"status":   status,
		"database": database,
		"version":  h.version,
	})
}
