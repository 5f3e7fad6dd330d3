// Package api exposes the generation pipeline over HTTP. Handlers
// translate job failures into structured JSON; raw internal traces never
// reach the caller.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/optisols/Solveit-payslip-generator/internal/job"
)

// Handler bundles the HTTP handlers and their collaborators.
type Handler struct {
	generator   *job.Generator
	archivesDir string
	retain      bool
	maxUpload   int64
	log         zerolog.Logger
}

// Options configures a Handler.
type Options struct {
	ArchivesDir    string // retention directory; side effect only
	RetainArchives bool
	MaxUploadBytes int64
}

// NewHandler creates the API handler.
func NewHandler(generator *job.Generator, opts Options, log zerolog.Logger) *Handler {
	return &Handler{
		generator:   generator,
		archivesDir: opts.ArchivesDir,
		retain:      opts.RetainArchives,
		maxUpload:   opts.MaxUploadBytes,
		log:         log,
	}
}

// RegisterRoutes mounts the API under the given group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/generate_payslip", h.GeneratePayslip)
	api.GET("/archives", h.ListArchives)
	api.GET("/archives/:name", h.DownloadArchive)
	api.GET("/health", h.Health)
}

// Health is the liveness probe.
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// failure is the structured error body: a human-readable message plus a
// machine-checkable status.
func failure(c *gin.Context, code int, status, message string) {
	c.JSON(code, gin.H{
		"status":  status,
		"message": message,
	})
}
