package http

import (
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListAddons runs a discovery pass over the addon roots
func (h *Handlers) ListAddons(c *gin.Context) {
	entries, err := h.factory.Registry().Discover()
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"addons":  entries,
		"count":   len(entries),
	})
}

// GetAddon describes one installed addon
func (h *Handlers) GetAddon(c *gin.Context) {
	svc := h.services(c)
	if svc == nil {
		return
	}
	reg := h.factory.Registry()
	_, registered := reg.Capabilities(svc.Identity.Name)

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"name":         svc.Identity.Name,
		"location":     svc.Identity.Location,
		"logical_path": svc.Identity.LogicalPath,
		"bundle":       svc.IsBundle(),
		"has_api":      reg.HasAPI(svc.Identity.Name),
		"registered":   registered,
	})
}

// GetConfig returns the addon's merged configuration
func (h *Handlers) GetConfig(c *gin.Context) {
	svc := h.services(c)
	if svc == nil {
		return
	}
	dir, _ := svc.Config.ConfigPath()

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"config":     svc.Config.Config(),
		"config_dir": dir,
	})
}

// CreateToken issues a form token in the visitor's session
func (h *Handlers) CreateToken(c *gin.Context) {
	svc := h.services(c)
	if svc == nil {
		return
	}
	token, err := svc.Tokens.Create()
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
	})
}

// ValidateToken consumes a form token
func (h *Handlers) ValidateToken(c *gin.Context) {
	svc := h.services(c)
	if svc == nil {
		return
	}

	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"valid":   svc.Tokens.Validate(req.Token),
	})
}

// ListCache lists cached files, optionally under ?sub= and matching ?pattern=
func (h *Handlers) ListCache(c *gin.Context) {
	svc := h.services(c)
	if svc == nil {
		return
	}
	sub := c.Query("sub")

	var (
		files []string
		err   error
	)
	if pattern := c.Query("pattern"); pattern != "" {
		files, err = svc.Cache.ListMatching(pattern, sub)
	} else {
		files, err = svc.Cache.ListAll(sub)
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"files":   files,
		"count":   len(files),
	})
}

// PurgeCache removes cached files. With ?older_than=<seconds> only files at
// least that old go; without it the whole directory (or ?sub=) is destroyed.
func (h *Handlers) PurgeCache(c *gin.Context) {
	svc := h.services(c)
	if svc == nil {
		return
	}
	sub := c.Query("sub")

	raw := c.Query("older_than")
	if raw == "" {
		if err := svc.Cache.Destroy(sub); err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "destroyed": true})
		return
	}

	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || seconds < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "older_than must be a non-negative number of seconds",
		})
		return
	}
	removed, err := svc.Cache.PurgeOlderThan(time.Duration(seconds)*time.Second, sub)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"removed": removed,
	})
}

// ServeAsset serves a file from the addon's bundled or installed directory
func (h *Handlers) ServeAsset(c *gin.Context) {
	svc := h.services(c)
	if svc == nil {
		return
	}

	file, ok := svc.Assets.Locate(c.Param("file"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "asset not found",
		})
		return
	}

	// Sniff only when the extension does not name a type; css and js
	// carry no magic bytes.
	if mime.TypeByExtension(filepath.Ext(file)) == "" {
		mtype, err := mimetype.DetectFile(file)
		if err != nil {
			svc.Log.Warn("Content type detection failed", zap.String("file", file), zap.Error(err))
		} else {
			c.Header("Content-Type", mtype.String())
		}
	}
	c.File(file)
}
