package api

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

type archiveInfo struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"sizeBytes"`
	CreatedAt string `json:"createdAt"`
}

// ListArchives lists retained zips, newest first.
// GET /api/archives
func (h *Handler) ListArchives(c *gin.Context) {
	if h.archivesDir == "" {
		c.JSON(http.StatusOK, gin.H{"archives": []archiveInfo{}})
		return
	}

	entries, err := os.ReadDir(h.archivesDir)
	if err != nil {
		failure(c, http.StatusInternalServerError, "internal_fault", "Could not list retained archives.")
		return
	}

	archives := make([]archiveInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".zip") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		archives = append(archives, archiveInfo{
			Name:      entry.Name(),
			SizeBytes: info.Size(),
			CreatedAt: info.ModTime().UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	sort.Slice(archives, func(i, j int) bool {
		return archives[i].CreatedAt > archives[j].CreatedAt
	})

	c.JSON(http.StatusOK, gin.H{"archives": archives})
}

// DownloadArchive re-downloads one retained zip.
// GET /api/archives/:name
func (h *Handler) DownloadArchive(c *gin.Context) {
	name := c.Param("name")

	// The name must be a bare retained-zip filename; anything that
	// resolves elsewhere is rejected.
	if name != filepath.Base(name) || !strings.HasPrefix(name, "Payslips_") || !strings.HasSuffix(name, ".zip") {
		failure(c, http.StatusBadRequest, "bad_request", "Invalid archive name.")
		return
	}

	path := filepath.Join(h.archivesDir, name)
	if _, err := os.Stat(path); err != nil {
		failure(c, http.StatusNotFound, "not_found", "No such archive.")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Header("Content-Type", "application/zip")
	c.File(path)
}
