package muxhandlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// AccessLogConfig configures AccessLog.
type AccessLogConfig struct {
	// SkipPaths are not logged, e.g. health probes.
	SkipPaths []string

	// SlowThreshold marks requests taking longer with slow=true. Zero
	// disables the check.
	SlowThreshold time.Duration
}

// AccessLog writes one line per request. Responses with status 5xx are
// logged at error level, 4xx at warn and everything else at info.
func AccessLog(logger zerolog.Logger, cfg AccessLogConfig) mux.MiddlewareFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}

			next.ServeHTTP(sw, r)

			latency := time.Since(start)
			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}

			event := logger.Info()
			switch {
			case status >= http.StatusInternalServerError:
				event = logger.Error()
			case status >= http.StatusBadRequest:
				event = logger.Warn()
			}

			if id := RequestIDFromContext(r.Context()); id != "" {
				event = event.Str("request_id", id)
			}
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					event = event.Str("route", tpl)
				}
			}

			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", sw.written).
				Dur("latency", latency).
				Bool("slow", cfg.SlowThreshold > 0 && latency > cfg.SlowThreshold).
				Msg("request")
		})
	}
}

// statusWriter records the status code and the body size.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written int
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.status == 0 {
		sw.status = code
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if sw.status == 0 {
		sw.status = http.StatusOK
	}

	n, err := sw.ResponseWriter.Write(b)
	sw.written += n
	return n, err
}

// Unwrap returns the underlying ResponseWriter for http.ResponseController.
func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}
