package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
)

// Services bundles the business services served over HTTP.
type Services struct {
	Users    *service.UserService
	Items    *service.ItemService
	Requests *service.RequestService
	Bookings *service.BookingService
}

type pinger interface {
	Ping(ctx context.Context) error
}

// HTTPServer exposes the REST API.
type HTTPServer struct {
	services    Services
	pinger      pinger
	quota       domain.QuotaRepository
	quotaLimit  int
	quotaWindow time.Duration
	limiter     *clientLimiter
	validate    *validator.Validate
	router      *httprouter.Router
	server      *http.Server
	log         zerolog.Logger
}

func NewHTTPServer(cfg *config.Config, services Services, db pinger, quota domain.QuotaRepository, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		services:   services,
		pinger:     db,
		quota:      quota,
		quotaLimit: cfg.RateLimit.UserRequests,
		limiter:    newClientLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		validate:   newValidator(),
		router:     httprouter.New(),
		log:        zerolog.Nop(),
	}
	if logger != nil {
		srv.log = logger.With().Str("component", "http").Logger()
	}
	srv.quotaWindow = time.Minute
	if cfg.RateLimit.UserWindow != "" {
		if d, err := time.ParseDuration(cfg.RateLimit.UserWindow); err == nil && d > 0 {
			srv.quotaWindow = d
		}
	}

	srv.routes()

	handler := withRequestID(srv.recoverer(srv.logging(srv.rateLimit(srv.router))))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) handle(method, path string, h httprouter.Handle) {
	s.router.Handle(method, path, observed(path, h))
}

func (s *HTTPServer) routes() {
	s.router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "not found")
	})
	s.router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.handle(http.MethodGet, "/healthz", s.handleHealth)

	s.handle(http.MethodPost, "/users", s.createUser)
	s.handle(http.MethodGet, "/users", s.listUsers)
	s.handle(http.MethodGet, "/users/:id", s.getUser)
	s.handle(http.MethodPatch, "/users/:id", s.updateUser)
	s.handle(http.MethodDelete, "/users/:id", s.deleteUser)

	// httprouter cannot mix a static segment and a wildcard at the same
	// level, so /items/search, /bookings/owner and /requests/all are
	// dispatched from the :id handlers.
	s.handle(http.MethodPost, "/items", s.createItem)
	s.handle(http.MethodGet, "/items", s.listOwnerItems)
	s.handle(http.MethodGet, "/items/:id", s.getItemOrSearch)
	s.handle(http.MethodPatch, "/items/:id", s.updateItem)
	s.handle(http.MethodPost, "/items/:id/comment", s.postComment)

	s.handle(http.MethodPost, "/bookings", s.createBooking)
	s.handle(http.MethodGet, "/bookings", s.listBookerBookings)
	s.handle(http.MethodGet, "/bookings/:id", s.getBookingOrOwnerList)
	s.handle(http.MethodPatch, "/bookings/:id", s.updateBookingStatus)

	s.handle(http.MethodPost, "/requests", s.createRequest)
	s.handle(http.MethodGet, "/requests", s.listOwnRequests)
	s.handle(http.MethodGet, "/requests/:id", s.getRequestOrAll)
}

// Handler returns the fully wrapped handler.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			s.log.Error().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, &s.log, err)
}
