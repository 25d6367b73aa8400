package controllers

import (
	"net/http"
	"time"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	dash *services.DashboardService
}

func NewDashboardController(dash *services.DashboardService) *DashboardController {
	return &DashboardController{dash: dash}
}

// GET /dashboard?date=YYYY-MM-DD
func (dc *DashboardController) Summary(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	date := time.Now()
	if s := c.Query("date"); s != "" {
		var err error
		if date, err = time.Parse("2006-01-02", s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format. Use YYYY-MM-DD"})
			return
		}
	}

	summary, err := dc.dash.DailySummary(c.Request.Context(), userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GET /dashboard/trends?from=YYYY-MM-DD&to=YYYY-MM-DD (defaults: last 30 days)
func (dc *DashboardController) Trends(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	to := time.Now()
	from := to.AddDate(0, 0, -29)

	if s := c.Query("from"); s != "" {
		var err error
		if from, err = time.Parse("2006-01-02", s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' date. Use YYYY-MM-DD"})
			return
		}
	}
	if s := c.Query("to"); s != "" {
		var err error
		if to, err = time.Parse("2006-01-02", s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' date. Use YYYY-MM-DD"})
			return
		}
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'to' must not be before 'from'"})
		return
	}

	points, err := dc.dash.Trends(c.Request.Context(), userID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, points)
}
