package controllers

import (
	"net/http"

	"github.com/walpass/health-tracker-app/services"

	"github.com/gin-gonic/gin"
)

type TrendController struct {
	trends *services.TrendService
}

func NewTrendController(trends *services.TrendService) *TrendController {
	return &TrendController{trends: trends}
}

func (tc *TrendController) Weight(c *gin.Context) {
	series, err := tc.trends.WeightTrend(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, series)
}

func (tc *TrendController) BMI(c *gin.Context) {
	series, err := tc.trends.BMITrend(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, series)
}
