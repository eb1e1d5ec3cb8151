package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/robvandam12/breus-sub011/pkg/api/mw"
)

// NewRouter creates and configures a new Gin router.
// A nil gatherer leaves /metrics unregistered.
func NewRouter(handler *Handler, gatherer prometheus.Gatherer, ratePerSec float64, burst int) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(ratePerSec), burst)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/availability/evaluate", handler.PostEvaluate)
		api.GET("/availability", handler.GetAvailability)

		api.GET("/personnel/conflicts", handler.GetConflicts)
		api.GET("/personnel/conflicts/:userId", handler.GetUserConflict)
		api.GET("/personnel/available", handler.GetAvailablePersonnel)
	}

	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return r
}
