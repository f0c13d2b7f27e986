package router

import (
	"net/http"

	"clinscore/internal/config"
	"clinscore/internal/handlers"
	"clinscore/internal/repository"
	"clinscore/internal/services"
	"clinscore/internal/utils"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// Deps are the long-lived services the routes need. Results is nil when
// persistence is disabled.
type Deps struct {
	Store   *services.SessionStore
	Results *repository.ResultRepository
}

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error":   "too many requests, try again later",
		"resetAt": info.ResetTime,
	})
}

func Setup(log *zap.Logger, deps Deps) *gin.Engine {
	conf := config.Get()

	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	secret := conf.Server.SessionSecret
	if secret == "" {
		generated, err := utils.GenerateSecureToken(32)
		if err != nil {
			log.Fatal("Failed to generate session secret", zap.Error(err))
		}
		log.Warn("No session secret configured; using a random one, cookies will not survive a restart")
		secret = generated
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   conf.Server.SecureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   conf.Server.CookieMaxAge,
	})
	router.Use(sessions.Sessions("clinscore", store))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
	})
	router.Use(func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		c.Next()
	})

	router.Use(CSRFProtection())
	router.Use(ActiveSessionLoader(log, deps.Store))

	// Persistence is optional; pass untyped nils so handlers see it as off.
	var (
		saver  handlers.ResultSaver
		reader handlers.ResultReader
	)
	if deps.Results != nil {
		saver, reader = deps.Results, deps.Results
	}

	instrumentsHandler := handlers.NewInstrumentsHandler(log)
	assessmentHandler := handlers.NewAssessmentHandler(log, deps.Store, saver)
	resultsHandler := handlers.NewResultsHandler(log, reader)

	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  conf.RateLimit.Window,
		Limit: conf.RateLimit.Limit,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	api := router.Group("/api")
	{
		instrumentRoutes := api.Group("/instruments")
		{
			instrumentRoutes.GET("", instrumentsHandler.List)
			instrumentRoutes.GET("/:id", instrumentsHandler.Get)
			instrumentRoutes.GET("/:id/bands", instrumentsHandler.Bands)
			instrumentRoutes.POST("/:id/score", limiter, instrumentsHandler.Score)
		}

		sessionRoutes := api.Group("/session")
		{
			sessionRoutes.GET("", assessmentHandler.Show)
			sessionRoutes.POST("/start", limiter, assessmentHandler.Start)
			sessionRoutes.POST("/answer", assessmentHandler.Answer)
			sessionRoutes.POST("/advance", assessmentHandler.Advance)
			sessionRoutes.POST("/retreat", assessmentHandler.Retreat)
			sessionRoutes.POST("/reset", assessmentHandler.Reset)
			sessionRoutes.GET("/result", assessmentHandler.Result)
		}

		resultRoutes := api.Group("/results")
		{
			resultRoutes.GET("", resultsHandler.List)
			resultRoutes.GET("/chart", resultsHandler.Chart)
		}
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "liveSessions": deps.Store.Len()})
	})

	return router
}
