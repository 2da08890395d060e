package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/models"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/services"
)

// PlanHandler handles saved production plans
type PlanHandler struct {
	plans *services.PlanService
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(plans *services.PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

// SavePlanRequest is the body of PUT /plans/:date
type SavePlanRequest struct {
	Items []models.ProductionItem `json:"items"`
}

// HandleList returns every saved plan
func (h *PlanHandler) HandleList(c *gin.Context) {
	plans, err := h.plans.List(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// HandleGet returns the plan saved for a date
func (h *PlanHandler) HandleGet(c *gin.Context) {
	plan, err := h.plans.Get(c.Request.Context(), c.Param("date"))
	if err != nil {
		WriteError(c, err)
		return
	}
	if plan == nil {
		WriteError(c, NewError("no plan saved for "+c.Param("date"), http.StatusNotFound, "NOT_FOUND"))
		return
	}
	c.JSON(http.StatusOK, plan)
}

// HandleGetOrDefault returns the saved plan or an unsaved copy of the catalog
func (h *PlanHandler) HandleGetOrDefault(c *gin.Context) {
	plan, err := h.plans.GetOrDefault(c.Request.Context(), c.Param("date"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// HandleSave upserts the plan for a date
func (h *PlanHandler) HandleSave(c *gin.Context) {
	var req SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteError(c, NewValidationError(err.Error()))
		return
	}

	plan, err := h.plans.Save(c.Request.Context(), models.ProductionPlan{
		Date:  c.Param("date"),
		Items: req.Items,
	})
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// HandleDelete removes the plan saved for a date
func (h *PlanHandler) HandleDelete(c *gin.Context) {
	if err := h.plans.Delete(c.Request.Context(), c.Param("date")); err != nil {
		WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers the handler's routes
func (h *PlanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	plans := rg.Group("/plans")
	plans.GET("", h.HandleList)
	plans.GET("/:date", h.HandleGet)
	plans.PUT("/:date", h.HandleSave)
	plans.DELETE("/:date", h.HandleDelete)
	plans.GET("/:date/default", h.HandleGetOrDefault)
}
