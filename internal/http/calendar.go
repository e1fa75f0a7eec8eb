package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/collection-calendar/internal/service"
)

func (h *Handler) listCities(c *gin.Context) {
	cities, err := h.catalog.ListCities(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cities": cities})
}

func (h *Handler) getCity(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	city, err := h.catalog.GetCity(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, city)
}

func (h *Handler) getZone(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	zone, err := h.catalog.GetZone(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, zone)
}

func (h *Handler) listGarbageTypes(c *gin.Context) {
	types, err := h.catalog.ListGarbageTypes(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"garbage_types": types})
}

func (h *Handler) calendarDay(c *gin.Context) {
	zoneID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	date, ok := queryDate(c, "date")
	if !ok {
		return
	}
	day, err := h.calendar.Day(c.Request.Context(), zoneID, date)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (h *Handler) calendarWeek(c *gin.Context) {
	zoneID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	date, ok := queryDate(c, "date")
	if !ok {
		return
	}
	view, err := h.calendar.Week(c.Request.Context(), zoneID, date)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) calendarMonth(c *gin.Context) {
	zoneID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	date, ok := queryDate(c, "date")
	if !ok {
		return
	}
	view, err := h.calendar.Month(c.Request.Context(), zoneID, date)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) nextCollections(c *gin.Context) {
	zoneID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	date, ok := queryDate(c, "date")
	if !ok {
		return
	}
	next, err := h.calendar.Next(c.Request.Context(), zoneID, date)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"next": next})
}

func (h *Handler) exportXLSX(c *gin.Context) {
	zoneID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	date, ok := queryDate(c, "date")
	if !ok {
		return
	}
	result, err := h.calendar.ExportMonthXLSX(c.Request.Context(), zoneID, date, c.Query("lang"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, result)
}

func (h *Handler) exportPDF(c *gin.Context) {
	zoneID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	date, ok := queryDate(c, "date")
	if !ok {
		return
	}
	result, err := h.calendar.ExportMonthPDF(c.Request.Context(), zoneID, date, c.Query("lang"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, result)
}

func (h *Handler) exportICS(c *gin.Context) {
	zoneID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	from, ok := queryDate(c, "from")
	if !ok {
		return
	}
	days, ok := queryInt(c, "days")
	if !ok {
		return
	}
	result, err := h.calendar.ExportICS(c.Request.Context(), zoneID, service.ICSOptions{
		From:         from,
		Days:         days,
		Language:     c.Query("lang"),
		ReminderTime: strings.TrimSpace(c.Query("reminder")),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, result)
}

func (h *Handler) deviceFeed(c *gin.Context) {
	zoneID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	days, ok := queryInt(c, "days")
	if !ok {
		return
	}
	feed, err := h.calendar.DeviceFeed(c.Request.Context(), zoneID, days)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.String(http.StatusOK, feed)
}
