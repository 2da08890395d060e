package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/production"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/services"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/tracing"
)

// PlanningHandler serves resolved plans and production analytics
type PlanningHandler struct {
	planning  *services.PlanningService
	analytics *services.AnalyticsService
	tracer    tracing.Tracer
}

// NewPlanningHandler creates a new planning handler
func NewPlanningHandler(planning *services.PlanningService, analytics *services.AnalyticsService, tracer tracing.Tracer) *PlanningHandler {
	return &PlanningHandler{
		planning:  planning,
		analytics: analytics,
		tracer:    tracer,
	}
}

// RangeQuery holds the bounds of a range request
type RangeQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

// HandleResolve returns the plan that applies to one date
func (h *PlanningHandler) HandleResolve(c *gin.Context) {
	plan, err := h.planning.Resolve(c.Request.Context(), c.Param("date"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// HandleRange returns one resolved plan per day of the range
func (h *PlanningHandler) HandleRange(c *gin.Context) {
	q, ok := h.bindRange(c)
	if !ok {
		return
	}
	days, err := h.planning.ResolveRange(c.Request.Context(), q.Start, q.End)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

// HandleSummary returns the headline indicators of the range
func (h *PlanningHandler) HandleSummary(c *gin.Context) {
	q, ok := h.bindRange(c)
	if !ok {
		return
	}
	summary, err := h.analytics.Summary(c.Request.Context(), q.Start, q.End)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// HandleTimeline returns cost and revenue bucketed by period
func (h *PlanningHandler) HandleTimeline(c *gin.Context) {
	q, ok := h.bindRange(c)
	if !ok {
		return
	}
	period, err := production.ParsePeriod(c.Query("period"))
	if err != nil {
		WriteError(c, NewValidationError(err.Error()))
		return
	}
	points, err := h.analytics.Timeline(c.Request.Context(), q.Start, q.End, period)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// HandleTopItems ranks the items of the range by revenue
func (h *PlanningHandler) HandleTopItems(c *gin.Context) {
	q, ok := h.bindRange(c)
	if !ok {
		return
	}
	n := 10
	if raw := c.Query("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			WriteError(c, NewValidationError("n must be a non-negative integer"))
			return
		}
		n = v
	}
	items, err := h.analytics.TopItems(c.Request.Context(), q.Start, q.End, n)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// HandleExport downloads the per-item totals of the range as CSV
func (h *PlanningHandler) HandleExport(c *gin.Context) {
	q, ok := h.bindRange(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.analytics.ExportCSV(c.Request.Context(), &buf, q.Start, q.End); err != nil {
		WriteError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="production_%s_%s.csv"`, q.Start, q.End))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// RegisterRoutes registers the handler's routes
func (h *PlanningHandler) RegisterRoutes(rg *gin.RouterGroup) {
	planning := rg.Group("/planning")
	planning.GET("", h.HandleRange)
	planning.GET("/summary", h.HandleSummary)
	planning.GET("/timeline", h.HandleTimeline)
	planning.GET("/top-items", h.HandleTopItems)
	planning.GET("/export", h.HandleExport)
	planning.GET("/:date", h.HandleResolve)
}

func (h *PlanningHandler) bindRange(c *gin.Context) (RangeQuery, bool) {
	var q RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		WriteError(c, NewValidationError("start and end are required"))
		return q, false
	}
	h.tracer.AddAttribute(c.Request.Context(), "range", q.Start+".."+q.End)
	return q, true
}
