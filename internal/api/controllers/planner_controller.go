package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"tripweaver/internal/models/request_models"
	"tripweaver/internal/services"
	"tripweaver/pkg/utils"
)

type PlannerController struct {
	plannerService services.PlannerServiceInterface
}

func NewPlannerController(plannerService services.PlannerServiceInterface) *PlannerController {
	return &PlannerController{
		plannerService: plannerService,
	}
}

func (p *PlannerController) PlanTour(c *gin.Context) {
	var req request_models.PlanTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid plan request: "+err.Error())
		return
	}

	result, err := p.plannerService.PlanTour(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Tour planned successfully")
}
