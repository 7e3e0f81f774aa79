package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/packtrace/sdp-backend/internal/platform/apierr"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
	"github.com/packtrace/sdp-backend/internal/services"
)

type ComponentHandler struct {
	log       *logger.Logger
	ingest    *services.IngestService
	component *services.ComponentService
	sku       *services.SkuService
}

func NewComponentHandler(log *logger.Logger, ingest *services.IngestService, component *services.ComponentService, sku *services.SkuService) *ComponentHandler {
	return &ComponentHandler{
		log:       log.With("handler", "ComponentHandler"),
		ingest:    ingest,
		component: component,
		sku:       sku,
	}
}

// AddComponent runs the multipart ingestion pipeline.
func (h *ComponentHandler) AddComponent(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, apierr.Validation("Request must be multipart/form-data"))
		return
	}

	result, err := h.ingest.Ingest(c.Request.Context(), form, requestUser(c))
	if err != nil {
		h.log.Warn("Component ingestion failed", "request_id", requestID(c), "error", err)
		RespondError(c, err)
		return
	}

	h.log.Info("Component ingested",
		"request_id", requestID(c),
		"component_id", result.ComponentID,
		"action", result.Action,
		"files_uploaded", result.FileProcessing.TotalUploaded)
	Respond(c, http.StatusCreated, "Component added successfully", gin.H{"data": result})
}

func (h *ComponentHandler) GetComponentCodeData(c *gin.Context) {
	components, err := h.component.GetByCode(c.Request.Context(), c.Query("component_code"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, "Component data fetched successfully", gin.H{
		"components": components,
		"count":      len(components),
	})
}

type skuReferenceRequest struct {
	CmCode  string `json:"cm_code"`
	SkuCode string `json:"sku_code"`
}

// GetComponentsBySkuReference matches components whose comma-separated
// sku_code list contains the requested code. The route spelling is part of
// the outward contract and kept as is.
func (h *ComponentHandler) GetComponentsBySkuReference(c *gin.Context) {
	var req skuReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("Invalid request body"))
		return
	}
	components, err := h.sku.GetComponentsBySkuReference(c.Request.Context(), req.CmCode, req.SkuCode)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, "Components fetched successfully", gin.H{
		"components": components,
		"count":      len(components),
	})
}

func (h *ComponentHandler) SkuComponentMapping(c *gin.Context) {
	var req skuReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("Invalid request body"))
		return
	}
	mappings, err := h.component.GetMappingsWithComponents(c.Request.Context(), req.CmCode, req.SkuCode)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, "Mappings fetched successfully", gin.H{
		"mappings": mappings,
		"count":    len(mappings),
	})
}

func (h *ComponentHandler) Dashboard(c *gin.Context) {
	query := services.DashboardQuery{
		CmCode:      c.Param("cm_code"),
		Include:     services.ParseIncludeList(c.Query("include")),
		Period:      c.Query("period"),
		Search:      c.Query("search"),
		ComponentID: services.ParseComponentID(c.Query("component_id")),
	}
	data, err := h.component.Dashboard(c.Request.Context(), query)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, "Dashboard data fetched successfully", gin.H{"data": data})
}

func requestUser(c *gin.Context) string {
	if user := c.GetString("user_email"); user != "" {
		return user
	}
	return "system"
}

func requestID(c *gin.Context) string {
	return c.GetString("request_id")
}
