// ABOUTME: HTTP logging middleware for the editor server in the session log's key=value style.
// ABOUTME: Each line carries the matched chi route and, for session routes, the session id.
package editor

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// statusRecorder captures what a handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

// requestLogger logs one line per request after the router has matched it, so the
// route pattern and URL params are known.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		log.Print(requestLine(r, rec, time.Since(start)))
	})
}

func requestLine(r *http.Request, rec *statusRecorder, elapsed time.Duration) string {
	status := rec.status
	if status == 0 {
		status = http.StatusOK
	}
	route := "unmatched"
	var b strings.Builder
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			route = p
		}
		if id := rctx.URLParam("id"); id != "" {
			fmt.Fprintf(&b, " session=%s", id)
		}
		if v := rctx.URLParam("nodeID"); v != "" {
			fmt.Fprintf(&b, " node_id=%s", v)
		}
		if v := rctx.URLParam("connID"); v != "" {
			fmt.Fprintf(&b, " connection_id=%s", v)
		}
	}
	return fmt.Sprintf("component=editor.http method=%s route=%s%s status=%d bytes=%d duration=%s",
		r.Method, route, b.String(), status, rec.bytes, elapsed.Round(time.Microsecond))
}
