package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/collection-calendar/internal/schedule"
	"github.com/nurpe/collection-calendar/internal/service"
)

type Handler struct {
	calendar      *service.CalendarService
	catalog       *service.CatalogService
	schedules     *service.ScheduleService
	notifications *service.NotificationService
	log           zerolog.Logger
}

func NewHandler(
	calendar *service.CalendarService,
	catalog *service.CatalogService,
	schedules *service.ScheduleService,
	notifications *service.NotificationService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		calendar:      calendar,
		catalog:       catalog,
		schedules:     schedules,
		notifications: notifications,
		log:           log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/healthz", h.health)

	router.GET("/cities", h.listCities)
	router.GET("/cities/:id", h.getCity)
	router.GET("/zones/:id", h.getZone)
	router.GET("/garbage-types", h.listGarbageTypes)

	zones := router.Group("/zones/:id")
	zones.GET("/calendar/day", h.calendarDay)
	zones.GET("/calendar/week", h.calendarWeek)
	zones.GET("/calendar/month", h.calendarMonth)
	zones.GET("/next", h.nextCollections)
	zones.GET("/export/xlsx", h.exportXLSX)
	zones.GET("/export/pdf", h.exportPDF)
	zones.GET("/calendar.ics", h.exportICS)
	zones.GET("/feed", h.deviceFeed)

	router.POST("/devices", h.registerDevice)
	router.PUT("/devices/:token/zone", h.updateDeviceZone)
	router.POST("/devices/:token/enable", h.enableDevice)
	router.POST("/devices/:token/disable", h.disableDevice)

	admin := router.Group("/admin")
	admin.Use(authMiddleware)
	admin.POST("/garbage-types", h.createGarbageType)
	admin.GET("/zones/:id/schedules", h.listSchedules)
	admin.POST("/schedules", h.createSchedule)
	admin.PUT("/schedules/:id", h.updateSchedule)
	admin.DELETE("/schedules/:id", h.deleteSchedule)
	admin.POST("/notifications/replan", h.replanNotifications)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// queryDate returns the zero Date when the parameter is absent.
func queryDate(c *gin.Context, name string) (schedule.Date, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return schedule.Date{}, true
	}
	date, err := schedule.ParseDate(raw)
	if err != nil {
		badRequest(c, "invalid "+name+", expected YYYY-MM-DD")
		return schedule.Date{}, false
	}
	return date, true
}

func queryInt(c *gin.Context, name string) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return n, true
}

func sendFile(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
