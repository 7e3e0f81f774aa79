package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/packtrace/sdp-backend/internal/platform/logger"
	"github.com/packtrace/sdp-backend/internal/services"
)

type MasterDataHandler struct {
	log        *logger.Logger
	masterData *services.MasterDataService
}

func NewMasterDataHandler(log *logger.Logger, masterData *services.MasterDataService) *MasterDataHandler {
	return &MasterDataHandler{log: log.With("handler", "MasterDataHandler"), masterData: masterData}
}

func (h *MasterDataHandler) GetBundle(c *gin.Context) {
	bundle, err := h.masterData.GetBundle(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, "Master data fetched successfully", gin.H{"data": bundle})
}

// Refresh drops the cached bundle and serves a fresh read, for use after
// reference tables were edited out of band.
func (h *MasterDataHandler) Refresh(c *gin.Context) {
	h.masterData.Invalidate(c.Request.Context())
	bundle, err := h.masterData.GetBundle(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	Respond(c, http.StatusOK, "Master data refreshed successfully", gin.H{"data": bundle})
}
