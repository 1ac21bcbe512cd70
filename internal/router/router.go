// Package router assembles the gin engine.
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wedding-memories/internal/handler"
)

type Options struct {
	// MediaDir is served under /media when set.
	MediaDir string
	Log      zerolog.Logger
}

// NewRouter wires middleware, static media and the API routes.
func NewRouter(h *handler.Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger(opts.Log), cors.Default())

	if opts.MediaDir != "" {
		r.Static("/media", opts.MediaDir)
	}
	h.Register(r)

	return r
}
