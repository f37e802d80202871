package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/flightledger/api"
	"github.com/Domenick1991/flightledger/config"
	"github.com/Domenick1991/flightledger/internal/service/catalog"
	"github.com/Domenick1991/flightledger/internal/service/ledger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, catalogSvc catalog.FlightCatalog, ledgerSvc ledger.BookingLedger) error {
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, catalogSvc, ledgerSvc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, catalogSvc catalog.FlightCatalog, ledgerSvc ledger.BookingLedger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	flightsGroup := router.Group("/flights")
	api.NewFlightHandler(catalogSvc).Register(flightsGroup)
	api.NewBookingHandler(ledgerSvc).Register(flightsGroup)
	api.NewReviewHandler(ledgerSvc).Register(flightsGroup)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/ledger.swagger.json"),
		)))
	}

	return router
}
