package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/fitstack/gymdesk/internal/config"
	"github.com/fitstack/gymdesk/internal/dashboard"
	dashboarddomain "github.com/fitstack/gymdesk/internal/dashboard/domain"
	"github.com/fitstack/gymdesk/internal/member"
	memberdomain "github.com/fitstack/gymdesk/internal/member/domain"
	"github.com/fitstack/gymdesk/internal/observability"
	obslogger "github.com/fitstack/gymdesk/internal/observability/logger"
	obsmetrics "github.com/fitstack/gymdesk/internal/observability/metrics"
	"github.com/fitstack/gymdesk/internal/payment"
	paymentdomain "github.com/fitstack/gymdesk/internal/payment/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	member.Module,
	payment.Module,
	dashboard.Module,
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	memberSvc    memberdomain.Service
	paymentSvc   paymentdomain.Service
	dashboardSvc dashboarddomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	MemberSvc    memberdomain.Service
	PaymentSvc   paymentdomain.Service
	DashboardSvc dashboarddomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		memberSvc:    p.MemberSvc,
		paymentSvc:   p.PaymentSvc,
		dashboardSvc: p.DashboardSvc,
	}

	s.registerAPIRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/dashboard", s.GetDashboard)

	// -------- Members --------
	api.GET("/members", s.ListMembers)
	api.POST("/members", s.CreateMember)
	api.GET("/members/must-pay", s.ListMustPayMembers)
	api.GET("/members/:id", s.GetMemberProfile)
	api.DELETE("/members/:id", s.DeleteMember)

	// -------- Payments --------
	api.POST("/members/:id/payments", s.RecordPayment)
	api.GET("/payments/this-month", s.ListPaidThisMonth)

	if !s.cfg.IsProduction() {
		api.POST("/test/cleanup", s.TestCleanup)
	}
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: s.Engine(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
