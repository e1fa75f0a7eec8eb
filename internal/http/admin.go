package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nurpe/collection-calendar/internal/http/middleware"
	"github.com/nurpe/collection-calendar/internal/service"
)

type createGarbageTypeRequest struct {
	Code     string `json:"code" binding:"required"`
	NamePT   string `json:"name_pt" binding:"required"`
	NameEN   string `json:"name_en" binding:"required"`
	NameES   string `json:"name_es" binding:"required"`
	ColorHex string `json:"color_hex" binding:"required"`
	Icon     string `json:"icon"`
}

type scheduleRequest struct {
	ZoneID        string  `json:"zone_id"`
	GarbageTypeID string  `json:"garbage_type_id" binding:"required"`
	DayOfWeek     *int    `json:"day_of_week" binding:"required"`
	WeekInterval  *int    `json:"week_interval"`
	StartDate     string  `json:"start_date" binding:"required"`
	EndDate       *string `json:"end_date"`
	IsActive      *bool   `json:"is_active"`
}

func (r scheduleRequest) toInput() (service.ScheduleInput, error) {
	var input service.ScheduleInput
	if strings.TrimSpace(r.ZoneID) != "" {
		zoneID, err := uuid.Parse(strings.TrimSpace(r.ZoneID))
		if err != nil {
			return input, service.ErrInvalidInput
		}
		input.ZoneID = zoneID
	}
	typeID, err := uuid.Parse(strings.TrimSpace(r.GarbageTypeID))
	if err != nil {
		return input, service.ErrInvalidInput
	}

	input.GarbageTypeID = typeID
	input.DayOfWeek = *r.DayOfWeek
	input.WeekInterval = 1
	if r.WeekInterval != nil {
		input.WeekInterval = *r.WeekInterval
	}
	input.StartDate = strings.TrimSpace(r.StartDate)
	if r.EndDate != nil && strings.TrimSpace(*r.EndDate) != "" {
		end := strings.TrimSpace(*r.EndDate)
		input.EndDate = &end
	}
	input.IsActive = r.IsActive
	return input, nil
}

func (h *Handler) createGarbageType(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createGarbageTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	gt, err := h.catalog.CreateGarbageType(c.Request.Context(), service.CreateGarbageTypeInput{
		Code:      req.Code,
		NamePT:    req.NamePT,
		NameEN:    req.NameEN,
		NameES:    req.NameES,
		ColorHex:  req.ColorHex,
		Icon:      req.Icon,
		Principal: principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gt)
}

func (h *Handler) listSchedules(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	zoneID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	rows, err := h.schedules.ListByZone(c.Request.Context(), principal, zoneID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": rows})
}

func (h *Handler) createSchedule(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		badRequest(c, "invalid zone_id or garbage_type_id")
		return
	}
	input.Principal = principal

	saved, err := h.schedules.Create(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) updateSchedule(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		badRequest(c, "invalid zone_id or garbage_type_id")
		return
	}
	input.Principal = principal

	saved, err := h.schedules.Update(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *Handler) deleteSchedule(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.schedules.Deactivate(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) replanNotifications(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	if !principal.IsAdmin() {
		h.handleError(c, service.ErrPermissionDenied)
		return
	}

	planned, err := h.notifications.ReplanAll(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"planned": planned})
}
