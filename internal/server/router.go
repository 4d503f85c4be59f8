package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deedscan/deedscan/internal/common"
)

// NewRouter creates a configured Gin engine with the trigger routes.
func NewRouter(t *Trigger, mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/run", postRun(t))
	r.GET("/status", getStatus(t))

	return r
}

// postRun starts a batch run asynchronously; a run already in progress is
// rejected with a conflict.
func postRun(t *Trigger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := t.Start(c.Request.Context())
		if err != nil {
			if errors.Is(err, common.ErrConflict) {
				c.JSON(http.StatusConflict, gin.H{"status": "already running"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "started", "run_id": id.String()})
	}
}

func getStatus(t *Trigger) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := t.Status(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, st)
	}
}
