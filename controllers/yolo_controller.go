package controllers

import (
	"errors"
	"net/http"
	"time"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type YoloController struct {
	yolo *services.YoloService
}

func NewYoloController(yolo *services.YoloService) *YoloController {
	return &YoloController{yolo: yolo}
}

// POST /yolo-days  {"date": "YYYY-MM-DD", "note": "..."}
func (yc *YoloController) Declare(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req struct {
		Date string `json:"date"`
		Note string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	date := time.Now()
	if req.Date != "" {
		var err error
		if date, err = time.Parse("2006-01-02", req.Date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format. Use YYYY-MM-DD"})
			return
		}
	}

	day, err := yc.yolo.Declare(c.Request.Context(), userID, date, req.Note)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, day)
}

// DELETE /yolo-days/:date
func (yc *YoloController) Undo(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format. Use YYYY-MM-DD"})
		return
	}

	err = yc.yolo.Undo(c.Request.Context(), userID, date)
	if errors.Is(err, services.ErrYoloDayNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "yolo day not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /yolo-days?from=YYYY-MM-DD&to=YYYY-MM-DD (defaults: last 30 days)
func (yc *YoloController) List(c *gin.Context) {
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

	days, err := yc.yolo.List(c.Request.Context(), userID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, days)
}
