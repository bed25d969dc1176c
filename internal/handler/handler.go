// Package handler exposes the catalog over HTTP.
package handler

import (
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"precios/catalog/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgUnknownCategory = "Unknown category"
	msgNotFound        = "Not found"
	msgInternal        = "Internal error"
)

type Handler struct {
	service *service.Service
}

func NewHandler(service *service.Service) *Handler {
	return &Handler{service: service}
}

// Catalog payloads go out with PureJSON so <, > and & stay literal.

// GET /api/categories
func (h *Handler) Categories(c *gin.Context) {
	c.PureJSON(http.StatusOK, gin.H{
		"ok":         true,
		"categories": h.service.Categories(c.Request.Context()),
	})
}

// GET /api/items?category=<name>
func (h *Handler) Items(c *gin.Context) {
	items, err := h.service.Items(c.Request.Context(), c.Query("category"))
	if err != nil {
		if errors.Is(err, service.ErrUnknownCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msgUnknownCategory})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": msgInternal})
		return
	}

	c.PureJSON(http.StatusOK, gin.H{"ok": true, "items": items})
}

// GET /api/search?q=<text>
func (h *Handler) Search(c *gin.Context) {
	c.PureJSON(http.StatusOK, gin.H{
		"ok":    true,
		"items": h.service.Search(c.Request.Context(), c.Query("q")),
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Static serves files under publicDir and answers every other GET with
// index.html so client-side routes resolve.
func Static(publicDir string) gin.HandlerFunc {
	root := http.Dir(publicDir)
	index := filepath.Join(publicDir, "index.html")

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": msgNotFound})
			return
		}

		name := path.Clean("/" + c.Request.URL.Path)
		if isFile(root, name) {
			c.File(filepath.Join(publicDir, filepath.FromSlash(name)))
			return
		}

		if _, err := os.Stat(index); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": msgNotFound})
			return
		}
		c.File(index)
	}
}

// isFile reports whether name is a regular file inside root. http.Dir
// rejects paths escaping root.
func isFile(root http.Dir, name string) bool {
	f, err := root.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	return err == nil && !info.IsDir()
}
