// Package api serves the objective hierarchy over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/alexanderramin/objectives/internal/service"
	"github.com/alexanderramin/objectives/internal/telemetry"
)

// Options configures NewServer. A nil Metrics disables /metrics.
type Options struct {
	AllowedOrigins []string
	Metrics        *telemetry.Metrics
	Logger         *slog.Logger
}

// Server owns the gin engine with every route registered.
type Server struct {
	router *gin.Engine
}

func NewServer(objectives service.ObjectiveService, comments service.CommentService, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(telemetry.ServiceName))
	router.Use(requestIDMiddleware())
	router.Use(corsMiddleware(opts.AllowedOrigins))
	router.Use(accessLogMiddleware(logger))
	if opts.Metrics != nil {
		router.Use(metricsMiddleware(opts.Metrics))
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	RegisterRoutes(router, NewHandlers(objectives, comments, logger))
	return &Server{router: router}
}

// RegisterRoutes attaches every objective and comment route to r.
func RegisterRoutes(r gin.IRouter, h *Handlers) {
	r.GET("/health", h.HandleHealth)

	objectives := r.Group("/objectives")
	{
		objectives.POST("", h.HandleCreateObjective)
		objectives.GET("", h.HandleListObjectives)
		objectives.GET("/tree", h.HandleObjectiveForest)
		objectives.GET("/:id", h.HandleGetObjective)
		objectives.PUT("/:id", h.HandleReplaceObjective)
		objectives.PATCH("/:id", h.HandlePatchStatus)
		objectives.DELETE("/:id", h.HandleDeleteObjective)
		objectives.GET("/:id/tree", h.HandleGetSubtree)
		objectives.GET("/:id/history", h.HandleGetHistory)
		objectives.POST("/:id/rollup", h.HandleRollup)
		objectives.GET("/:id/comments", h.HandleListComments)
		objectives.POST("/:id/comments", h.HandleAddComment)
	}

	r.DELETE("/comments/:id", h.HandleDeleteComment)
}

func (s *Server) Handler() http.Handler {
	return s.router
}
