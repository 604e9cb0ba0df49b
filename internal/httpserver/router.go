package httpserver

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"habitud/internal/config"
	"habitud/internal/handler"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Category     *handler.CategoryHandler
	Habit        *handler.HabitHandler
	Record       *handler.RecordHandler
	Analytics    *handler.AnalyticsHandler
	Notification *handler.NotificationHandler
}

func NewRouter(h Handlers, cfg *config.Config, logger *zap.Logger, db *pgxpool.Pool) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogMiddleware(logger))
	r.Use(MetricsMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health endpoints
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/auth/register", h.Auth.Register)
	r.POST("/auth/login", h.Auth.Login)
	r.GET("/notifications/vapid-public-key", h.Notification.VAPIDPublicKey)

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(cfg.JWT.Secret))
	{
		auth.GET("/usuarios/me", h.User.Me)
		auth.PUT("/usuarios/me", h.User.UpdateMe)
		auth.DELETE("/usuarios/me", h.User.DeleteMe)

		auth.POST("/categorias", h.Category.Create)
		auth.GET("/categorias", h.Category.List)
		auth.GET("/categorias/:id", h.Category.Get)
		auth.PUT("/categorias/:id", h.Category.Update)
		auth.DELETE("/categorias/:id", h.Category.Delete)

		auth.POST("/habitos", h.Habit.Create)
		auth.GET("/habitos", h.Habit.List)
		auth.GET("/habitos/:id", h.Habit.Get)
		auth.PUT("/habitos/:id", h.Habit.Update)
		auth.DELETE("/habitos/:id", h.Habit.Delete)

		auth.GET("/registros", h.Record.List)
		auth.GET("/registros/fecha/:fecha", h.Record.GetByDate)
		auth.PUT("/registros/:id", h.Record.Update)
		auth.DELETE("/registros/:id", h.Record.Delete)

		auth.PUT("/progresos/:id", h.Record.UpdateProgress)
		auth.POST("/progresos/toggle/:id", h.Record.ToggleProgress)

		auth.GET("/calendario/:year/:month", h.Record.MonthCalendar)
		auth.GET("/calendario/:year/:month/habito/:habitoID", h.Record.HabitMonthCalendar)

		auth.GET("/analisis/rendimiento", h.Analytics.DailyPerformance)
		auth.GET("/analisis/cumplimiento", h.Analytics.HabitCompliance)

		auth.POST("/notifications/subscribe", h.Notification.Subscribe)
		auth.POST("/notifications/unsubscribe", h.Notification.Unsubscribe)
		auth.GET("/notifications/preferences", h.Notification.GetPreferences)
		auth.PUT("/notifications/preferences", h.Notification.UpdatePreferences)
		auth.POST("/notifications/test", h.Notification.SendTest)
	}

	return r
}
