package handlers

import (
	"net/http"

	"github.com/ramonehamilton/mtg-manabase/internal/api/response"
	"github.com/ramonehamilton/mtg-manabase/internal/metrics"
	"github.com/ramonehamilton/mtg-manabase/internal/version"
)

// SystemHandler serves process information.
type SystemHandler struct {
	metrics *metrics.Metrics
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(m *metrics.Metrics) *SystemHandler {
	if m == nil {
		m = metrics.New()
	}
	return &SystemHandler{metrics: m}
}

// GetVersion returns the build version.
func (h *SystemHandler) GetVersion(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{"version": version.GetVersion()})
}

// GetMetrics returns a snapshot of calculation and lookup statistics.
func (h *SystemHandler) GetMetrics(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, h.metrics.Stats())
}
