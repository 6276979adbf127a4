package server

import (
	"github.com/dmitrijs2005/sesdash/internal/logging"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine. Nothing is registered as a route: every
// request ends up in dispatch so that no path is left without an answer.
func NewRouter(fwd *Forwarder, static *Static, logger logging.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(logger.With("module", "http")))
	r.NoRoute(func(c *gin.Context) {
		if isProxied(c.Request.URL.Path) {
			fwd.Handle(c)
			return
		}
		static.Handle(c)
	})
	return r
}
