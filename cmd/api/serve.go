package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"crafts-store/internal/cart"
	"crafts-store/internal/handlers"
	"crafts-store/internal/middleware"
	"crafts-store/internal/repository"
	"crafts-store/internal/routes"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if a.db != nil {
		if err := repository.EnsureIndexes(ctx, a.db); err != nil {
			a.logger.Warn("ensure indexes failed", zap.Error(err))
		}
	}
	go a.catalog.Run(ctx)

	if !a.cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	// Carrito y checkout comparten el bloqueo por sesión.
	locks := cart.NewLocks()
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(a.logger.Named("http")), middleware.CORS(a.cfg.CORSOrigins))

	routes.RegisterRoutes(router, routes.Handlers{
		Storefront: &handlers.StorefrontHandler{
			Catalog:         a.catalog,
			Currency:        a.cfg.Currency,
			WhatsAppNumber:  a.cfg.WhatsAppNumber,
			WhatsAppMessage: a.cfg.WhatsAppMessage,
			Logger:          a.logger,
		},
		Cart:     &handlers.CartHandler{Storage: a.cartStorage, Locks: locks, Catalog: a.catalog, Currency: a.cfg.Currency, Logger: a.logger.Named("cart")},
		Checkout: &handlers.CheckoutHandler{Storage: a.cartStorage, Locks: locks, Rules: a.shippingRules(), Logger: a.logger.Named("checkout")},
		Admin:    &handlers.AdminHandler{Admin: a.admin, Logger: a.logger.Named("admin")},
	}, routes.Options{
		JWTSecret:     []byte(a.cfg.JWTSecret),
		Maintenance:   a.cfg.MaintenanceMode,
		SecureCookies: !a.cfg.Development,
	})

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server running", zap.String("port", a.cfg.Port), zap.Bool("maintenance", a.cfg.MaintenanceMode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
