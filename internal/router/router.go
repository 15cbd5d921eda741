package router

import (
	"time"

	"github.com/Akila-Wasalathilaka/cognihire/internal/config"
	"github.com/Akila-Wasalathilaka/cognihire/internal/handlers"
	"github.com/Akila-Wasalathilaka/cognihire/internal/repository"
	"github.com/Akila-Wasalathilaka/cognihire/internal/services"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitExceeded(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again later.")
}

// limiter builds a per-IP in-memory rate limiter.
func limiter(limit uint, per time.Duration) gin.HandlerFunc {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  per,
		Limit: limit,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: rateLimitExceeded,
		KeyFunc:      keyFunc,
	})
}

func Setup(
	log *zap.Logger,
	users *repository.UserRepo,
	sessions *services.SessionService,
	items *services.ItemService,
	telemetry *services.TelemetryService,
) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     config.Conf.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
	})

	authHandler := handlers.NewAuthHandler(log, users)
	userHandler := handlers.NewUserHandler(log, users)
	assessmentHandler := handlers.NewAssessmentHandler(log, sessions)
	itemHandler := handlers.NewItemHandler(log, items)
	telemetryHandler := handlers.NewTelemetryHandler(log, telemetry)

	// Login is throttled hard; telemetry ingest allows a steady event stream
	// but caps runaway clients.
	loginLimiter := limiter(5, time.Minute)
	telemetryLimiter := limiter(120, time.Minute)

	api := router.Group("/api")
	api.POST("/auth/login", loginLimiter, authHandler.Login)

	authorized := api.Group("/")
	authorized.Use(AuthRequired(log))
	{
		authorized.GET("/auth/me", authHandler.Me)

		// The candidate's own active assessment; kept off the /assessments
		// tree so the static segment cannot collide with :id.
		authorized.GET("/candidate/assessment", assessmentHandler.Current)

		assessments := authorized.Group("/assessments")
		{
			assessments.GET("/:id", assessmentHandler.Get)
			assessments.GET("/:id/items", assessmentHandler.Items)
			assessments.POST("/:id/start", assessmentHandler.Start)
		}

		assessmentItems := authorized.Group("/items")
		{
			assessmentItems.POST("/:id/activate", itemHandler.Activate)
			assessmentItems.POST("/:id/submit", itemHandler.Submit)
		}

		events := authorized.Group("/telemetry")
		{
			events.POST("/events", telemetryLimiter, telemetryHandler.Ingest)
			events.POST("/heartbeat/:id", telemetryLimiter, telemetryHandler.Heartbeat)
		}

		admin := authorized.Group("/")
		admin.Use(AdminOnly())
		{
			admin.POST("/assessments", assessmentHandler.Create)
			admin.GET("/assessments", assessmentHandler.List)
			admin.DELETE("/assessments/:id", assessmentHandler.Delete)

			admin.POST("/users", userHandler.CreateCandidate)
			admin.GET("/users", userHandler.ListCandidates)

			admin.POST("/telemetry/integrity/:id/flag", telemetryHandler.ManualFlag)
			admin.GET("/telemetry/integrity/:id/report", telemetryHandler.Report)
			admin.GET("/telemetry/events/:id", telemetryHandler.Events)
			admin.GET("/telemetry/stats/:id", telemetryHandler.Stats)
		}
	}

	return router
}
