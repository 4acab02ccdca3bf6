package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"persona-server/internal/config"
	"persona-server/internal/interfaces/httpserver/handlers/embedhandler"
	middleware "persona-server/internal/interfaces/httpserver/middlewares"
	v1 "persona-server/internal/interfaces/httpserver/routes/v1"
)

type HTTPServer struct {
	engine  *gin.Engine
	v1Route *v1.V1Route
	embed   *embedhandler.EmbedHandler
	config  *config.Config
}

func NewHTTPServer(
	v1Route *v1.V1Route,
	embed *embedhandler.EmbedHandler,
	cfg *config.Config,
	logger zerolog.Logger,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	server := HTTPServer{
		gin.New(),
		v1Route,
		embed,
		cfg,
	}
	server.engine.Use(gin.Recovery())
	server.engine.Use(middleware.RequestID())
	server.engine.Use(middleware.TracingMiddleware(cfg.ServiceName))
	server.engine.Use(middleware.LoggingMiddleware(logger))
	server.engine.Use(middleware.MetricsMiddleware())
	server.engine.Use(middleware.CORSMiddleware())

	server.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	server.engine.GET("/readyz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	return &server
}

func (httpServer *HTTPServer) Run() error {
	root := httpServer.engine.Group("/")

	root.GET("/widget.js", httpServer.embed.WidgetScript)
	httpServer.v1Route.RegisterRouter(root)

	return httpServer.engine.Run(fmt.Sprintf(":%d", httpServer.config.HTTPPort))
}
