package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/AlexTheWizardL/nutrisnap-backend/internal/adapters/http/api/v1/handlers"
	authmw "github.com/AlexTheWizardL/nutrisnap-backend/internal/adapters/http/middleware"
)

type Router struct {
	auth      *handlers.AuthHandler
	users     *handlers.UserHandler
	meals     *handlers.MealHandler
	nutrition *handlers.NutritionHandler
	food      *handlers.FoodAnalysisHandler
	authMW    echo.MiddlewareFunc
}

func NewRouter(
	auth *handlers.AuthHandler,
	users *handlers.UserHandler,
	meals *handlers.MealHandler,
	nutrition *handlers.NutritionHandler,
	food *handlers.FoodAnalysisHandler,
	authMW echo.MiddlewareFunc,
) *Router {
	return &Router{auth: auth, users: users, meals: meals, nutrition: nutrition, food: food, authMW: authMW}
}

func (r *Router) Register(g *echo.Group) {
	auth := g.Group("/auth")
	auth.POST("/signup", r.auth.Signup)
	auth.POST("/login", r.auth.Login)
	auth.GET("/google", r.auth.GoogleAuth)
	auth.GET("/google/callback", r.auth.GoogleCallback)
	auth.POST("/telegram", r.auth.TelegramAuth)

	users := g.Group("/users", r.authMW)
	users.GET("/me", r.users.GetMe)
	users.PATCH("/me", r.users.UpdateMe)

	admin := users.Group("", authmw.RequireRole("admin"))
	admin.GET("", r.users.List)
	admin.GET("/:id", r.users.Get)
	admin.PATCH("/:id", r.users.Update)
	admin.DELETE("/:id", r.users.Delete)

	meals := g.Group("/meals", r.authMW)
	meals.POST("", r.meals.Create)
	meals.GET("", r.meals.List)
	meals.GET("/summary/daily", r.meals.DailySummary)
	meals.GET("/summary/weekly", r.meals.WeeklySummary)
	meals.GET("/stats", r.meals.Stats)
	meals.GET("/:id", r.meals.Get)
	meals.DELETE("/:id", r.meals.Delete)

	nutrition := g.Group("/nutrition", r.authMW)
	nutrition.GET("/goal", r.nutrition.GetGoal)
	nutrition.PUT("/goal", r.nutrition.UpsertGoal)
	nutrition.GET("/progress", r.nutrition.Progress)

	food := g.Group("/food-analysis", r.authMW)
	food.POST("/analyze", r.food.Analyze)
}
