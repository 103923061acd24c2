package service

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// routes are the paths served by Handler. Any other path is labeled otherRoute
// so the request metrics keep a fixed set of series.
var routes = map[string]bool{
	"/health":  true,
	"/dataset": true,
	"/metrics": true,
}

const otherRoute = "other"

func routeLabel(path string) string {
	if routes[path] {
		return path
	}
	return otherRoute
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// middleware logs HTTP request details and records Prometheus metrics
func (api *APIServer) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		api.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("duration", duration),
			zap.String("remote", r.RemoteAddr),
		)

		route := routeLabel(r.URL.Path)
		api.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		api.requestDuration.WithLabelValues(r.Method, route).Observe(duration.Seconds())
	})
}
