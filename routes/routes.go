package routes

import (
	"nutriplan/controllers"

	"github.com/gin-gonic/gin"
)

func SetupRouter(
	users *controllers.UserController,
	logs *controllers.DailyLogController,
	plans *controllers.MealPlanController,
	supplements *controllers.SupplementController,
) *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")

	u := api.Group("/users")
	{
		u.POST("", users.Register)
		u.GET("", users.ListUsers)
		u.GET("/:userId", users.GetProfile)
		u.PUT("/:userId", users.UpdateProfile)
		u.DELETE("/:userId", users.DeleteUser)
		u.GET("/:userId/stats", users.GetUserStats)
	}

	d := api.Group("/daily-logs")
	{
		d.POST("", logs.CreateLog)
		d.GET("", logs.GetLog)
		d.PUT("/:logId", logs.UpdateLog)
	}

	m := api.Group("/meal-plans")
	{
		m.POST("/generate", plans.GeneratePlan)
		// keyed by daily log, not plan id: the 1:1 link makes the log the
		// natural lookup handle
		m.GET("/by-log/:dailyLogId", plans.GetPlan)
		m.PUT("/:planId", plans.UpdatePlan)
	}

	s := api.Group("/supplements")
	{
		s.POST("", supplements.AddSupplement)
		s.GET("/user/:userId", supplements.GetUserSupplements)
		s.PUT("/:supplementId", supplements.UpdateSupplement)
		s.DELETE("/:supplementId", supplements.DeleteSupplement)
	}

	return r
}
