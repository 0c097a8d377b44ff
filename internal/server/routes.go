package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	slogGin "github.com/samber/slog-gin"

	"github.com/lorekeep/lorekeep/internal/server/handlers/csvimport"
	"github.com/lorekeep/lorekeep/internal/server/handlers/jobstatus"
	"github.com/lorekeep/lorekeep/internal/server/middlewares"
	"github.com/lorekeep/lorekeep/internal/version"
)

func SetupRoutes(cfg *Config, svc *Services) http.Handler {
	r := gin.New()

	importH := csvimport.New(svc.CSV, svc.Engine, svc.Pages, svc.Reports, time.Duration(cfg.Import.JobDelay))
	jobsH := jobstatus.New(svc.Engine)

	httpLogger := slog.Default().WithGroup("http")
	r.Use(slogGin.NewWithConfig(httpLogger, slogGin.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
	}))
	r.Use(gin.Recovery())
	r.Use(gzip.Gzip(gzip.BestSpeed))
	r.Use(cors.Default())
	r.Use(secure.New(secure.Config{
		ContentTypeNosniff: true,
		FrameDeny:          true,
	}))

	r.GET("/", IndexHandler)
	r.GET("/healthz", HealthHandler)

	v1 := r.Group("/api/v1")
	v1.Use(middlewares.JWTAuth(svc.Auth))
	{
		imports := v1.Group("/import")
		imports.POST("/preview", middlewares.RateLimiter(cfg.HTTP.PreviewRateLimit), importH.Preview)
		imports.POST("/start", importH.Start)
		imports.GET("/reports/:id", importH.GetReport)

		v1.GET("/jobs/queues", jobsH.Queues)
		v1.GET("/jobs/queues/:name", jobsH.Queue)
		v1.GET("/jobs/status", jobsH.Feed)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "not found",
		})
	})

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error": "method not allowed",
		})
	})

	return r.Handler()
}

func IndexHandler(ctx *gin.Context) {
	ctx.String(http.StatusOK, version.Detailed())
}

func HealthHandler(ctx *gin.Context) {
	ctx.PureJSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}
