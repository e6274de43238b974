package middleware

import (
	"context"
	"net/http"
	"time"

	"fieldnote/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// AccessLogOptions configures the request log
type AccessLogOptions struct {
	// Slow logs requests at or above this duration at warn; 0 turns it off
	Slow time.Duration
	// Log picks the logger for a request, logger.C when nil
	Log func(ctx context.Context) *logger.Logger
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// AccessLogZerolog writes one line per request. Session paths are logged by
// route pattern so ids stay in the session field. Server errors log at error,
// rejected input and slow requests at warn
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	pick := opt.Log
	if pick == nil {
		pick = logger.C
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)
			took := time.Since(start)

			log := pick(r.Context())
			ev := log.Info()
			switch {
			case rec.status >= http.StatusInternalServerError:
				ev = log.Error()
			case rec.status >= http.StatusBadRequest, opt.Slow > 0 && took >= opt.Slow:
				ev = log.Warn()
			}
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if p := rc.RoutePattern(); p != "" {
					ev = ev.Str("route", p)
				}
				if id := rc.URLParam("id"); id != "" {
					ev = ev.Str("session", id)
				}
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Int("bytes", rec.size).
				Dur("took", took).
				Msg("request")
		})
	}
}
