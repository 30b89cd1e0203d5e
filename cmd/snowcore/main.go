package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/template"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"snowcore/internal/chat"
	"snowcore/internal/config"
	"snowcore/internal/diag"
	"snowcore/internal/handlers"
	"snowcore/internal/history"
	"snowcore/internal/middleware"
	"snowcore/internal/notify"
	"snowcore/internal/poller"
	"snowcore/internal/upstream"
	"snowcore/internal/version"

	// Card packages register themselves with the screen registry.
	_ "snowcore/internal/cards/analytics"
	_ "snowcore/internal/cards/controls"
	_ "snowcore/internal/cards/copilot"
	_ "snowcore/internal/cards/graphview"
	_ "snowcore/internal/cards/overview"
	_ "snowcore/internal/cards/sensors"
	_ "snowcore/internal/cards/telemetry"
)

func main() {
	// A local .env is optional; real deployments set SNOWCORE_* directly.
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		charmlog.Fatal("invalid configuration", "err", err)
	}

	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		Prefix:          "snowcore",
	})
	if lvl, err := charmlog.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	client := upstream.NewClient(cfg.APIBaseURL, cfg.PropagationBaseURL, cfg.RequestTimeout, logger)
	feeds := &poller.Feeds{}
	hist := history.NewStore()

	hub := middleware.NewHub(logger)
	go hub.Run()

	monitor := diag.NewMonitor(logger)
	monitor.Start()

	p := poller.New(client, feeds, hist, hub, cfg.SensorInterval, cfg.TelemetryInterval, logger)
	if cfg.AlertWebhookURL != "" {
		p.SetAlerts(notify.NewAlerter(cfg.AlertWebhookURL, logger))
	}
	p.Start(context.Background())

	chatSvc := chat.NewService(client, logger)

	rateLimiter := middleware.NewRateLimiter(
		rate.Every(time.Minute/time.Duration(cfg.RateLimitPerMinute)), cfg.RateLimitBurst)

	h := handlers.New(cfg, client, feeds, hist, p, chatSvc, hub, monitor, logger)
	r := setupRouter(rateLimiter)
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Info("starting server", "version", version.String(), "addr", cfg.ListenAddr, "api", cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	p.Stop()
	monitor.Stop()
	rateLimiter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "err", err)
	}
	logger.Info("server exited")
}

func setupRouter(rateLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))

	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(rateLimiter.Middleware())

	r.SetFuncMap(template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
		"usd": func(v float64) string { return fmt.Sprintf("$%.0f", v) },
		"json": func(v any) (string, error) {
			b, err := json.Marshal(v)
			return string(b), err
		},
	})
	r.LoadHTMLGlob("templates/**/*")
	r.Static("/static", "./static")

	return r
}
