package api

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/msnews/leaderboard-comb/app/archive"
)

// Handler serves the generated artifacts; it reads the output file on each
// request so a concurrent regeneration is picked up without a restart.
type Handler struct {
	outputPath string
	archive    *archive.Archive
}

// NewHandler creates the artifact handler. archive may be nil when no run
// archive is configured.
func NewHandler(outputPath string, arch *archive.Archive) *Handler {
	return &Handler{outputPath: outputPath, archive: arch}
}

func (h *Handler) GetLeaderboard(c *gin.Context) {
	data, err := os.ReadFile(h.outputPath)
	if os.IsNotExist(err) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("Failed to read combined artifact", "path", h.outputPath, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if info, err := os.Stat(h.outputPath); err == nil {
		health["artifact"] = h.outputPath
		health["artifact_modified"] = info.ModTime().UTC().Format(time.RFC3339)
	}

	if h.archive != nil {
		if count, err := h.archive.RunCount(); err == nil {
			health["recorded_runs"] = count
		}
	}

	c.JSON(http.StatusOK, health)
}
