package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/Domenick1991/aviabooking/api"
	"github.com/Domenick1991/aviabooking/config"
	"github.com/Domenick1991/aviabooking/docs"
	"github.com/Domenick1991/aviabooking/internal/metrics"
	"github.com/Domenick1991/aviabooking/internal/service/airplanes"
	"github.com/Domenick1991/aviabooking/internal/service/booking"
	"github.com/Domenick1991/aviabooking/internal/service/flights"
	"github.com/Domenick1991/aviabooking/internal/service/status"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Services struct {
	Airplanes airplanes.AirplaneUseCase
	Flights   flights.FlightUseCase
	Bookings  booking.BookingUseCase
	Status    status.StatusUseCase
}

// Run serves the HTTP API and blocks until ctx is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services, m *metrics.Metrics) error {
	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      NewRouter(cfg.HTTP, svc, m),
		ReadTimeout:  cfg.HTTP.ReadTimeout(),
		WriteTimeout: cfg.HTTP.WriteTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("http: listening on %s base_path=%s", cfg.HTTP.Address, cfg.HTTP.BasePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		log.Printf("http: server stopped")
		return nil
	}
}

// NewRouter mounts the API under cfg.BasePath and the metrics and docs endpoints at the root.
func NewRouter(cfg config.HTTPConfig, svc Services, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(nil), api.Metrics(m))

	group := router.Group(cfg.BasePath)
	api.NewAirplaneHandler(svc.Airplanes).Register(group)
	api.NewFlightHandler(svc.Flights).Register(group)
	api.NewBookingHandler(svc.Bookings).Register(group)
	api.NewStatusHandler(svc.Status).Register(group)

	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}
	if cfg.Docs {
		router.GET("/openapi.json", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/json", docs.OpenAPI)
		})
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/openapi.json"))))
	}
	return router
}
