package routes

import (
	"net/http"

	"backend/controllers"
	"backend/middlewares"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Controllers bundles everything the router mounts.
type Controllers struct {
	Nutrition *controllers.NutritionController
	Entries   *controllers.FoodEntryController
	Goals     *controllers.GoalController
	Dashboard *controllers.DashboardController
	Yolo      *controllers.YoloController
	Events    *controllers.EventsController
}

func SetupRouter(db *gorm.DB, jwtSecret string, ctl Controllers) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware(db, jwtSecret))
	{
		api.POST("/nutrition/resolve", ctl.Nutrition.Resolve)

		api.POST("/entries", ctl.Entries.Create)
		api.GET("/entries", ctl.Entries.List)
		api.DELETE("/entries/:id", ctl.Entries.Delete)

		api.GET("/goals", ctl.Goals.Get)
		api.PUT("/goals", ctl.Goals.Update)

		api.GET("/dashboard", ctl.Dashboard.Summary)
		api.GET("/dashboard/trends", ctl.Dashboard.Trends)

		api.POST("/yolo-days", ctl.Yolo.Declare)
		api.DELETE("/yolo-days/:date", ctl.Yolo.Undo)
		api.GET("/yolo-days", ctl.Yolo.List)

		api.GET("/ws", ctl.Events.Subscribe)
	}

	return r
}
