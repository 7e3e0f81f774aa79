package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/packtrace/sdp-backend/internal/platform/apierr"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
	"github.com/packtrace/sdp-backend/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	log    *logger.Logger
	export *services.ExportService
}

func NewExportHandler(log *logger.Logger, export *services.ExportService) *ExportHandler {
	return &ExportHandler{log: log.With("handler", "ExportHandler"), export: export}
}

func (h *ExportHandler) ExportJSON(c *gin.Context) {
	var req services.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("Invalid request body"))
		return
	}
	payload, err := h.export.BuildPayload(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, "Export data prepared successfully", gin.H{"data": payload})
}

// ExportDownload streams the export as an xlsx workbook.
func (h *ExportHandler) ExportDownload(c *gin.Context) {
	var req services.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("Invalid request body"))
		return
	}
	buf, filename, err := h.export.BuildWorkbook(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
