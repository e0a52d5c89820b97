package controllers

import (
	"net/http"
	"strconv"

	"campsite-backend/services"
	"campsite-backend/utils"

	"github.com/gin-gonic/gin"
)

type WeatherController struct {
	Weather *services.WeatherService
}

func NewWeatherController(weather *services.WeatherService) *WeatherController {
	return &WeatherController{Weather: weather}
}

// GET /api/weather/forecast?campsite_id=&days=
func (ctl *WeatherController) Forecast(c *gin.Context) {
	raw := c.Query("campsite_id")
	if raw == "" {
		badRequest(c, "campsite_id is required")
		return
	}
	campsiteID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || campsiteID == 0 {
		badRequest(c, "Invalid campsite_id")
		return
	}

	days := services.DefaultForecastDays
	if v := c.Query("days"); v != "" {
		if days, err = strconv.Atoi(v); err != nil {
			badRequest(c, "Invalid days")
			return
		}
	}

	fc, err := ctl.Weather.Forecast(c.Request.Context(), uint(campsiteID), days)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"campsite":   fc.Campsite,
		"weather":    fc.Weather,
		"api_source": fc.APISource,
		"api_url":    fc.APIURL,
		"cached":     fc.Cached,
	})
}
