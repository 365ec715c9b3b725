package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthcheck", h.HealthCheck)

	api := r.Group("/api")
	{
		api.GET("/status", h.Status)
		api.GET("/items", h.Items)
		api.GET("/groups", h.Groups)
		api.POST("/refresh", h.Refresh)
	}
	return r
}

type Server struct {
	Engine *gin.Engine
	srv    *http.Server
}

func NewServer(addr string, h *Handler) *Server {
	e := NewRouter(h)
	return &Server{
		Engine: e,
		srv: &http.Server{
			Addr:              addr,
			Handler:           e,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Run blocks until the server stops; a graceful Shutdown is not an error.
func (s *Server) Run() error {
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
