package router

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"ccis-go/internal/config"
	"ccis-go/internal/handlers"
	"ccis-go/internal/models"
	"ccis-go/internal/services"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitExceeded(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
}

func Setup(log *zap.Logger, notifier *services.Notifier, tiers *models.TierSet) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions("ccis_session", store))

	router.Use(CSRFProtection())
	router.Use(UserLoaderMiddleware(log))

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

	// Handlers and routes
	authHandler := handlers.NewAuthHandler(log)
	sessionHandler := handlers.NewSessionHandler(log, notifier)
	interactionHandler := handlers.NewInteractionHandler(log, notifier, tiers)
	resultsHandler := handlers.NewResultsHandler(log)

	authLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	authLimiter := ratelimit.RateLimiter(authLimitStore, &ratelimit.Options{
		ErrorHandler: rateLimitExceeded,
		KeyFunc:      keyFunc,
	})

	// Telemetry arrives in bursts while a learner works a task; the ceiling
	// only guards against runaway clients.
	ingestLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 120,
	})
	ingestLimiter := ratelimit.RateLimiter(ingestLimitStore, &ratelimit.Options{
		ErrorHandler: rateLimitExceeded,
		KeyFunc:      keyFunc,
	})

	api := router.Group("/api")

	api.GET("/csrf", func(c *gin.Context) {
		token, _ := c.Get("csrf_token")
		c.JSON(http.StatusOK, gin.H{"csrfToken": token})
	})

	api.POST("/auth/register", authLimiter, authHandler.Register)
	api.POST("/auth/login", authLimiter, authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	authorized := api.Group("/")
	authorized.Use(AuthRequired())
	{
		sessionRoutes := authorized.Group("/sessions")
		{
			sessionRoutes.POST("", sessionHandler.Create)
			sessionRoutes.POST("/:id/start", sessionHandler.Start)
			sessionRoutes.POST("/:id/pause", sessionHandler.Pause)
			sessionRoutes.POST("/:id/resume", sessionHandler.Resume)
			sessionRoutes.POST("/:id/complete", sessionHandler.Complete)
			sessionRoutes.POST("/:id/terminate", sessionHandler.Terminate)
			sessionRoutes.POST("/:id/review", sessionHandler.MarkUnderReview)
			sessionRoutes.GET("/:id/progress", sessionHandler.Progress)
			sessionRoutes.GET("/:id/analytics", sessionHandler.Analytics)

			sessionRoutes.POST("/:id/interactions", interactionHandler.Create)
		}

		interactionRoutes := authorized.Group("/interactions")
		{
			interactionRoutes.POST("/:id/hints", ingestLimiter, interactionHandler.RecordHint)
			interactionRoutes.POST("/:id/errors", ingestLimiter, interactionHandler.RecordError)
			interactionRoutes.POST("/:id/self-assessments", ingestLimiter, interactionHandler.RecordSelfAssessment)
			interactionRoutes.POST("/:id/resources", ingestLimiter, interactionHandler.RecordResourceAccess)
			interactionRoutes.POST("/:id/consultations", ingestLimiter, interactionHandler.RecordConsultation)
			interactionRoutes.POST("/:id/abandon", interactionHandler.Abandon)
			interactionRoutes.POST("/:id/flag", interactionHandler.FlagForReview)
			interactionRoutes.POST("/:id/complete", interactionHandler.Complete)
			interactionRoutes.GET("/:id/signal", interactionHandler.Signal)
		}

		resultsRoutes := authorized.Group("/results")
		{
			resultsRoutes.GET("/metrics", resultsHandler.Metrics)
			resultsRoutes.GET("/timeline", resultsHandler.Timeline)
			resultsRoutes.GET("/correlation", resultsHandler.Correlation)
		}
	}

	return router
}
