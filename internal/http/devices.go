package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nurpe/collection-calendar/internal/service"
)

type registerDeviceRequest struct {
	Token    string  `json:"token" binding:"required"`
	DeviceID *string `json:"device_id"`
	ZoneID   *string `json:"zone_id"`
}

type updateZoneRequest struct {
	ZoneID string `json:"zone_id" binding:"required"`
}

func (h *Handler) registerDevice(c *gin.Context) {
	var req registerDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	input := service.RegisterDeviceInput{Token: req.Token, DeviceID: req.DeviceID}
	if req.ZoneID != nil && strings.TrimSpace(*req.ZoneID) != "" {
		zoneID, err := uuid.Parse(strings.TrimSpace(*req.ZoneID))
		if err != nil {
			badRequest(c, "invalid zone_id")
			return
		}
		input.ZoneID = &zoneID
	}

	device, err := h.notifications.RegisterDevice(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

func (h *Handler) updateDeviceZone(c *gin.Context) {
	var req updateZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	zoneID, err := uuid.Parse(strings.TrimSpace(req.ZoneID))
	if err != nil {
		badRequest(c, "invalid zone_id")
		return
	}

	device, err := h.notifications.UpdateZone(c.Request.Context(), c.Param("token"), zoneID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

func (h *Handler) enableDevice(c *gin.Context) {
	device, err := h.notifications.Enable(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

func (h *Handler) disableDevice(c *gin.Context) {
	device, err := h.notifications.Disable(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}
