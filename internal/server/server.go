package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/optisols/Solveit-payslip-generator/internal/api"
	"github.com/optisols/Solveit-payslip-generator/internal/config"
	"github.com/optisols/Solveit-payslip-generator/internal/job"
	"github.com/optisols/Solveit-payslip-generator/internal/renderer"
)

// Server is the HTTP server wrapping the generation pipeline.
type Server struct {
	router *gin.Engine
	api    *api.Handler
}

// NewServer wires the pipeline and routes from configuration.
func NewServer(cfg *config.AppConfig, dataDir string, log zerolog.Logger) *Server {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	rend := renderer.NewRenderer(renderer.Options{FontPath: cfg.PDF.FontPath})
	generator := job.NewGenerator(rend, job.Options{
		Workers: cfg.Pipeline.Workers,
		Timeout: time.Duration(cfg.Pipeline.TimeoutSeconds) * time.Second,
	}, log)

	maxUpload := int64(cfg.Server.MaxUploadMB) << 20
	handler := api.NewHandler(generator, api.Options{
		ArchivesDir:    config.ArchivesDir(dataDir),
		RetainArchives: cfg.Data.RetainArchives,
		MaxUploadBytes: maxUpload,
	}, log)

	router := gin.New()
	router.Use(gin.Recovery())
	if maxUpload > 0 {
		router.MaxMultipartMemory = maxUpload
	}

	s := &Server{
		router: router,
		api:    handler,
	}
	s.setupRoutes(devMode)

	return s
}

// setupRoutes wires CORS, the API group and the non-API fallback.
func (s *Server) setupRoutes(devMode bool) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	// The upload form is a separate frontend. In dev mode it runs on
	// its own dev server; in packaged builds it is served by the
	// desktop shell, so anything non-API here is a 404.
	if devMode {
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
	} else {
		s.router.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"status": "not_found", "message": "no such route"})
		})
	}
}

// Run starts the server on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// URL returns the local URL for a configured port.
func URL(port int) string {
	return fmt.Sprintf("http://localhost:%d", port)
}
