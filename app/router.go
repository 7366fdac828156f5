// Package app builds the HTTP router and wires it to the services
package app

import (
	"context"
	"net/http"
	"time"

	"pathfinder/guide-api/app/analytics"
	"pathfinder/guide-api/app/guidance"
	"pathfinder/guide-api/app/root"
	"pathfinder/guide-api/app/user"
	"pathfinder/guide-api/config"
	"pathfinder/guide-api/internal"
	"pathfinder/guide-api/pkg/middleware"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

// Room for the multipart framing around the file itself
const multipartOverhead = 1 << 20

// Setup prepares the logger and every dependency, starts the background
// scheduler and returns the router. The caller closes the returned deps.
func Setup(ctx context.Context, cfg *config.Config) (*gin.Engine, *internal.Deps, error) {
	makeLogger(cfg.LogLevel)

	d, err := internal.NewDeps(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	d.Scheduler.Start()

	return NewRouter(d), d, nil
}

func NewRouter(d *internal.Deps) *gin.Engine {
	cfg := d.Config
	store := persist.NewMemoryStore(time.Minute)

	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == http.MethodHead
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := middleware.RequestID(c); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := middleware.UserID(c); v != nil {
					fields = append(fields, zap.Uint("userID", *v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = 5 << 20

	jwt := middleware.NewJWTMiddleware(d.Tokens)
	optionalJWT := middleware.NewOptionalJWTMiddleware(d.Tokens)
	cacheFor := func(sec int) gin.HandlerFunc {
		return cacheByPathAndOrigin(store, time.Second*time.Duration(sec))
	}

	// GET /			-> Reports the service status
	router.GET("/", cacheFor(30), func(c *gin.Context) { root.Status(c, d) })

	m := router.Group("/api")
	if cfg.RateLimit > 0 {
		m.Use(middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit,
			Burst:             cfg.RateLimit * 2,
		}))
	}
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)
	}

	a := m.Group("/auth", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/auth/register	-> Registers a new user and logs them in
		a.POST("/register", func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /api/auth/login		-> Logs in a user and returns a JWT token
		a.POST("/login", func(c *gin.Context) { user.UserLogin(c, d) })

		// GET /api/auth/me		-> Returns the user the token belongs to
		a.GET("/me", jwt, func(c *gin.Context) { user.UserFetch(c, d) })
	}

	// POST /api/upload_resume		-> Stores a résumé
	m.POST("/upload_resume",
		optionalJWT,
		middleware.BodySizeLimiter(cfg.Upload.MaxSize+multipartOverhead),
		func(c *gin.Context) { guidance.UploadResume(c, d) },
	)

	// GET /api/uploads/:id			-> Downloads a stored résumé
	m.GET("/uploads/:id", func(c *gin.Context) { guidance.DownloadUpload(c, d) })

	// POST /api/ai/recommend		-> Creates a guidance session
	m.POST("/ai/recommend", optionalJWT, middleware.BodySizeLimiter(1<<20), func(c *gin.Context) { guidance.Recommend(c, d) })

	// POST /api/analytics/event		-> Records an analytics event
	m.POST("/analytics/event", optionalJWT, middleware.BodySizeLimiter(1<<20), func(c *gin.Context) { analytics.RecordEvent(c, d) })

	if cfg.Admin.Enabled() {
		// * /admin/...			-> Data model console
		d.Admin.Mount(router.Group("/admin", gin.BasicAuth(gin.Accounts{
			cfg.Admin.Username: cfg.Admin.Password,
		})))
	} else {
		zap.L().Info("Admin console disabled, set ADMIN_USERNAME and ADMIN_PASSWORD to enable it")
	}

	return router
}

// cacheByPathAndOrigin keeps one entry per path and Origin. The query
// string is left out so it can't be used to fill the store, and Origin
// is part of the key since the CORS headers are cached too.
func cacheByPathAndOrigin(store persist.CacheStore, ttl time.Duration) gin.HandlerFunc {
	return cache.Cache(store, ttl, cache.WithCacheStrategyByRequest(func(c *gin.Context) (bool, cache.Strategy) {
		return true, cache.Strategy{
			CacheKey: cacheKey(c.Request),
		}
	}))
}

func cacheKey(r *http.Request) string {
	return r.URL.Path + "|" + r.Header.Get("Origin")
}

func makeLogger(level string) {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}
