package rest

import (
	"context"
	"net/http"
	core_port "property-service/internal/core/port"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

func NewServer(port string,
	corsAllowedOrigins []string,
	propertyHandler *PropertyHandler,
	locationHandler *LocationHandler,
	baseLogger core_port.LoggerPort) *Server {

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           NewRouter(corsAllowedOrigins, propertyHandler, locationHandler, baseLogger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger,
	}
}

func NewRouter(corsAllowedOrigins []string,
	propertyHandler *PropertyHandler,
	locationHandler *LocationHandler,
	baseLogger core_port.LoggerPort) http.Handler {

	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	if len(corsAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", traceIDHeader},
			ExposedHeaders: []string{traceIDHeader},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", Healthz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/properties", propertyHandler.FindProperties)
		r.Get("/properties/{slug}", propertyHandler.GetProperty)
		r.Get("/locations", locationHandler.GetLocations)
	})

	return r
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", core_port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
