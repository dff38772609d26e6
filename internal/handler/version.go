package handler

import (
	"net/http"

	"github.com/GuoYangtuo/potato-timer/internal/config"
)

type VersionHandler struct {
	cfg *config.Config
}

func NewVersionHandler(cfg *config.Config) *VersionHandler {
	return &VersionHandler{cfg: cfg}
}

// Check handles GET /api/version/check?version=: tells the client whether
// a newer build exists and where to get it.
func (h *VersionHandler) Check(w http.ResponseWriter, r *http.Request) {
	clientVersion := queryInt(r, "version")

	writeJSON(w, http.StatusOK, "", map[string]any{
		"latestVersion": h.cfg.ClientVersion,
		"needsUpdate":   clientVersion < h.cfg.ClientVersion,
		"downloadUrl":   h.cfg.ClientDownloadURL,
		"updateLog":     h.cfg.ClientUpdateLog,
	})
}
