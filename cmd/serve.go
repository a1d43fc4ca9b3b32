package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/guptarajStha/restaurant-web/billing"
	"github.com/guptarajStha/restaurant-web/config"
	"github.com/guptarajStha/restaurant-web/feed"
	"github.com/guptarajStha/restaurant-web/finance"
	"github.com/guptarajStha/restaurant-web/handlers"
	"github.com/guptarajStha/restaurant-web/logger"
	"github.com/guptarajStha/restaurant-web/middleware"
	"github.com/guptarajStha/restaurant-web/ordering"
	"github.com/guptarajStha/restaurant-web/routes"
	"github.com/guptarajStha/restaurant-web/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Example: `  # Serve on the port from PORT (default 8080)
  restaurant-web serve

  # Override the port
  restaurant-web serve --port 9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("port", "", "Port to listen on (overrides PORT)")
}

// app is everything a running server needs
type app struct {
	router *gin.Engine
	hub    *feed.Hub
}

func buildApp(c *config.Config, st *store.Store) *app {
	hub := feed.NewHub(st, c.Feed.Limit, logger.WithComponent("feed"))
	orders := ordering.NewService(ordering.FromStore(st), hub, logger.WithComponent("ordering"))
	bills := billing.NewEngine(billing.FromStore(st), billing.Options{
		TaxRate:             c.Billing.TaxRate,
		ReleaseTablesOn:     billing.TableRelease(c.Billing.ReleaseTablesOn),
		MergeDeleteAttempts: c.Billing.MergeDeleteAttempts,
		RetryDelay:          100 * time.Millisecond,
	}, logger.WithComponent("billing"))
	reporter := finance.NewReporter(finance.PaidBillIncome{Bills: st}, st)

	h := handlers.New(handlers.Deps{
		Store:     st,
		Orders:    orders,
		Bills:     bills,
		Feed:      hub,
		Finance:   reporter,
		JWTSecret: c.Auth.JWTSecret,
		FeedLimit: c.Feed.Limit,
		Log:       logger.WithComponent("http"),
	})

	gin.SetMode(c.App.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger.WithComponent("http")), middleware.CORS())
	routes.SetupRoutes(r, h, c.Auth)
	return &app{router: r, hub: hub}
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	port := cfg.App.Port
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		port = p
	}

	db, err := config.OpenDB(&cfg.Database, logger.WithComponent("gorm"))
	if err != nil {
		return err
	}
	if err := config.Migrate(db); err != nil {
		return err
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("database ready")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := buildApp(cfg, store.New(db))
	go a.hub.Run(ctx)

	if cfg.Feed.AMQPURL != "" {
		bridge, err := feed.DialAMQP(cfg.Feed.AMQPURL, cfg.Feed.AMQPExchange, logger.WithComponent("amqp"))
		if err != nil {
			// the API works without the broker; only the fanout is lost
			log.Warn().Err(err).Msg("order feed bridge disabled")
		} else {
			detach := bridge.Attach(a.hub, cfg.Feed.Limit)
			defer func() {
				detach()
				bridge.Close()
			}()
		}
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: a.router,
		// streams end when the server is told to stop
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
