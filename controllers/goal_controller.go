package controllers

import (
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type GoalController struct {
	goals *services.GoalService
}

func NewGoalController(goals *services.GoalService) *GoalController {
	return &GoalController{goals: goals}
}

// GET /goals
func (gc *GoalController) Get(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	goal, err := gc.goals.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, goal)
}

// PUT /goals
func (gc *GoalController) Update(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req struct {
		Calories float64  `json:"calories" binding:"required"`
		Protein  float64  `json:"protein"`
		Carbs    float64  `json:"carbs"`
		Fat      *float64 `json:"fat"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// default missing to 0
	fat := 0.0
	if req.Fat != nil {
		fat = *req.Fat
	}

	goal, err := gc.goals.Upsert(c.Request.Context(), userID, req.Calories, req.Protein, req.Carbs, fat)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, goal)
}
