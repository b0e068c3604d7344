package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go.ngs.io/fstd2nc/internal/domain"
	"go.ngs.io/fstd2nc/internal/usecase"
)

// Handler handles HTTP requests for assembled datasets.
type Handler struct {
	datasetUC *usecase.DatasetUseCase
}

// NewHandler creates a new HTTP handler.
func NewHandler(datasetUC *usecase.DatasetUseCase) *Handler {
	return &Handler{
		datasetUC: datasetUC,
	}
}

// ListVariables handles GET /v1/files/:file/variables.
func (h *Handler) ListVariables(c *gin.Context) {
	summary, err := h.datasetUC.ListVariables(c.Request.Context(), c.Param("file"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetVariable handles GET /v1/files/:file/variables/:name.
func (h *Handler) GetVariable(c *gin.Context) {
	detail, err := h.datasetUC.DescribeVariable(c.Request.Context(), c.Param("file"), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// SampleVariable handles GET /v1/files/:file/variables/:name/sample.
func (h *Handler) SampleVariable(c *gin.Context) {
	req := usecase.SampleRequest{
		File:     c.Param("file"),
		Variable: c.Param("name"),
	}

	// Parse lat/lon.
	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon parameters are required"})
		return
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid latitude: %v", err)})
		return
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid longitude: %v", err)})
		return
	}
	req.Lat, req.Lon = lat, lon

	// Axis indices default to the first element.
	for _, p := range []struct {
		name string
		dst  *int
	}{{"t", &req.T}, {"f", &req.F}, {"z", &req.Z}} {
		s := c.Query(p.name)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s index: %v", p.name, err)})
			return
		}
		*p.dst = n
	}

	resp, err := h.datasetUC.Sample(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// writeError maps use case errors to status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrStructural):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
