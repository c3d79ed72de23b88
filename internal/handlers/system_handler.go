package handlers

import (
	"net/http"

	"billing-export/internal/monitoring"
	"billing-export/pkg/utils"
)

type SystemHandler struct{}

func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

// GetSystemStats handles GET /api/system/stats
func (h *SystemHandler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, monitoring.CollectStats())
}
