package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/packtrace/sdp-backend/internal/platform/apierr"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
	"github.com/packtrace/sdp-backend/internal/services"
)

type SkuHandler struct {
	log *logger.Logger
	sku *services.SkuService
}

func NewSkuHandler(log *logger.Logger, sku *services.SkuService) *SkuHandler {
	return &SkuHandler{log: log.With("handler", "SkuHandler"), sku: sku}
}

func (h *SkuHandler) GetAll(c *gin.Context) {
	skus, err := h.sku.GetAll(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, "SKU details fetched successfully", gin.H{
		"skus":  skus,
		"count": len(skus),
	})
}

func (h *SkuHandler) GetByCmCode(c *gin.Context) {
	skus, err := h.sku.GetByCmCode(c.Request.Context(), c.Param("cm_code"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, "SKU details fetched successfully", gin.H{
		"skus":  skus,
		"count": len(skus),
	})
}

func (h *SkuHandler) Insert(c *gin.Context) {
	var req services.SkuInsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("Invalid request body"))
		return
	}
	if skuType := c.Query("skutype"); skuType != "" {
		req.SkuType = skuType
	}
	if req.CreatedBy == nil {
		user := requestUser(c)
		req.CreatedBy = &user
	}

	sku, linked, err := h.sku.Insert(c.Request.Context(), req)
	if err != nil {
		h.log.Warn("SKU insert rejected", "request_id", requestID(c), "sku_code", req.SkuCode, "error", err)
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusCreated, "SKU added successfully", gin.H{
		"sku":               sku,
		"linked_components": linked,
	})
}

func (h *SkuHandler) Update(c *gin.Context) {
	var req services.SkuUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("Invalid request body"))
		return
	}
	result, err := h.sku.Update(c.Request.Context(), c.Param("sku_code"), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, "SKU updated successfully", gin.H{
		"sku":                result.Sku,
		"removed_components": result.RemovedComponents,
		"linked_components":  result.LinkedComponents,
	})
}

type isActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

func (h *SkuHandler) SetActive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("id must be an integer"))
		return
	}
	var req isActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		RespondError(c, apierr.Validation("is_active is required"))
		return
	}
	sku, err := h.sku.SetActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, "SKU status updated successfully", gin.H{"sku": sku})
}

type toggleStatusRequest struct {
	Type     string `json:"type"`
	ID       int    `json:"id"`
	IsActive *bool  `json:"is_active"`
}

// ToggleStatus flips the active flag on a SKU or component in one shared
// endpoint.
func (h *SkuHandler) ToggleStatus(c *gin.Context) {
	var req toggleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		RespondError(c, apierr.Validation("type, id and is_active are required"))
		return
	}
	record, err := h.sku.ToggleStatus(c.Request.Context(), req.Type, req.ID, *req.IsActive)
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, "Status updated successfully", gin.H{"record": record})
}

func (h *SkuHandler) ActiveYears(c *gin.Context) {
	years, err := h.sku.ActiveYears(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, "Active years fetched successfully", gin.H{"years": years})
}

func (h *SkuHandler) Descriptions(c *gin.Context) {
	descriptions, err := h.sku.GetDescriptions(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, "SKU descriptions fetched successfully", gin.H{
		"descriptions": descriptions,
		"count":        len(descriptions),
	})
}
