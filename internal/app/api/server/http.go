package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/subtrackhq/subtrack/docs"
	"github.com/subtrackhq/subtrack/internal/app/api/handlers"
	mw "github.com/subtrackhq/subtrack/internal/app/api/middleware"
	"github.com/subtrackhq/subtrack/internal/app/service/approval"
	"github.com/subtrackhq/subtrack/internal/app/service/directory"
	"github.com/subtrackhq/subtrack/internal/app/service/document"
	"github.com/subtrackhq/subtrack/internal/app/service/notification"
	"github.com/subtrackhq/subtrack/internal/app/service/report"
	subsvc "github.com/subtrackhq/subtrack/internal/app/service/subscription"
	"github.com/subtrackhq/subtrack/internal/platform/ocr"
	cfgpkg "github.com/subtrackhq/subtrack/pkg/config"
	metrics "github.com/subtrackhq/subtrack/pkg/metrics"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

type RouteDeps struct {
	fx.In

	Log          *zap.SugaredLogger
	Cfg          *cfgpkg.Config
	Directory    *directory.Service
	Subscription *subsvc.Service
	Approval     *approval.Service
	Notification *notification.Service
	Document     *document.Service
	Report       *report.Service
	OCR          *ocr.Client
}

func registerRoutes(r *gin.Engine, d RouteDeps) {
	// Prometheus metrics
	if d.Cfg != nil && d.Cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: d.Log,
		})
		p.SetListenAddress(d.Cfg.MetricsAddr)
		p.Use(r)

		d.Log.Infow("metrics started", "addr", d.Cfg.MetricsAddr)
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Everything under /api/v1 requires a verified identity token
	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.AuthMiddleware(d.Cfg.Auth.JWTSecret), mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware())

	handlers.RegisterUserRoutes(apiV1, d.Directory)
	handlers.RegisterDepartmentRoutes(apiV1, d.Directory)
	handlers.RegisterSubscriptionRoutes(apiV1, d.Subscription, d.Approval, d.Directory)
	handlers.RegisterApprovalRoutes(apiV1, d.Approval, d.Directory)
	handlers.RegisterDocumentRoutes(apiV1, d.Document, d.Directory)
	handlers.RegisterNotificationRoutes(apiV1, d.Notification, d.Directory)
	handlers.RegisterReportRoutes(apiV1, d.Report, d.Directory)
	handlers.RegisterOCRRoutes(apiV1, d.OCR, d.Directory)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
