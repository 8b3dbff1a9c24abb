package api

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

const requestIDHeader = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = iota

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestID propagates or assigns X-Request-ID.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *HTTPServer) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		s.log.Info().
			Str("request_id", requestIDFrom(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func (s *HTTPServer) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error().
					Interface("panic", rec).
					Str("request_id", requestIDFrom(r.Context())).
					Str("path", r.URL.Path).
					Msg("handler panicked")
				writeMessage(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// rateLimit applies the per-client token bucket and then the per-user quota.
// A failing quota store lets the request through.
func (s *HTTPServer) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(clientKey(r)) {
			metrics.IncRateLimited("client")
			writeMessage(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		if s.quota != nil && s.quotaLimit > 0 {
			if id, err := strconv.ParseInt(strings.TrimSpace(r.Header.Get(models.UserIDHeader)), 10, 64); err == nil {
				allowed, err := s.quota.CheckRateLimit(r.Context(), id, s.quotaLimit, s.quotaWindow)
				if err != nil {
					s.log.Warn().Err(err).Int64("user_id", id).Msg("quota check failed")
				} else if !allowed {
					metrics.IncRateLimited("user")
					writeMessage(w, http.StatusTooManyRequests, "too many requests")
					return
				}
			}
		}

		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

// observed records metrics under the route pattern rather than the raw path.
func observed(route string, h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		start := time.Now()
		recorder, ok := w.(*statusRecorder)
		if !ok {
			recorder = &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		}
		h(recorder, r, ps)
		metrics.ObserveHTTP(route, r.Method, recorder.status, time.Since(start))
	}
}
