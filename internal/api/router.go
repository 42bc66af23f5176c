package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"weekly-meal-planner/internal/app"
	"weekly-meal-planner/internal/logger"
	"weekly-meal-planner/internal/observability"
)

const (
	requestTimeout = 60 * time.Second
	maxBodySize    = 2 << 20
)

// NewRouter builds the HTTP API. webhook, when non-nil, receives Telegram updates.
func NewRouter(a *app.App, webhook http.Handler, log *logger.Logger) *gin.Engine {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("component", "api")

	cfg := a.Config()
	if cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(Recovery(log))
	router.Use(requestid.New())
	router.Use(otelgin.Middleware(observability.ServiceName))
	router.Use(Logger(log))

	origins := cfg.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	router.Use(cors.New(corsCfg))
	router.Use(func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
		c.Next()
	})

	h := &handlers{app: a, log: log}

	router.GET("/health", h.health)
	if webhook != nil {
		router.POST("/webhook", gin.WrapH(webhook))
	}

	v1 := router.Group("/api", Timeout(requestTimeout))
	{
		v1.GET("/meals", h.listMeals)
		v1.POST("/meals", h.addMeal)
		v1.POST("/meals/clip", h.clipMeal)
		v1.DELETE("/meals/:id", h.deleteMeal)

		v1.POST("/plans/generate", h.generatePlan)
		v1.GET("/plans", h.listPlans)
		v1.POST("/plans", h.savePlan)
		v1.GET("/plans/:id", h.getPlan)
		v1.DELETE("/plans/:id", h.deletePlan)
		v1.GET("/plans/:id/grocery", h.checklist)
		v1.PUT("/plans/:id/grocery/:ingredient", h.setChecked)
		v1.GET("/plans/:id/export", h.exportPlan)
		v1.POST("/plans/:id/publish", h.publishPlan)

		v1.POST("/sync/ghost", h.syncGhost)
		v1.GET("/metrics", h.metrics)
	}

	return router
}
