package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	requestIDKey    contextKey = "requestID"
	requestIDHeader            = "X-Request-ID"
)

// RequestLogger assigns every request an id, echoes it in the X-Request-ID
// response header and logs the completed request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		slog.Info("request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// RequestIDFromContext returns the id assigned by RequestLogger, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Recoverer turns a panic in a handler into a generic 500 response. Recovery
// itself is chi's; the stack trace goes to slog through a chi log entry and
// the empty 500 gets the JSON error body. Internals are never sent to the client.
func Recoverer(next http.Handler) http.Handler {
	recoverer := chimw.Recoverer(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := &panicLogEntry{requestID: RequestIDFromContext(r.Context())}
		pw := &panicResponseWriter{ResponseWriter: w, entry: entry}
		recoverer.ServeHTTP(pw, chimw.WithLogEntry(r, entry))
	})
}

// panicLogEntry implements chimw.LogEntry. Only Panic is used; access logging
// is done by RequestLogger.
type panicLogEntry struct {
	requestID string
	panicked  bool
}

func (e *panicLogEntry) Write(int, int, http.Header, time.Duration, interface{}) {}

func (e *panicLogEntry) Panic(v interface{}, stack []byte) {
	e.panicked = true
	slog.Error("panic serving request",
		"request_id", e.requestID,
		"panic", v,
		"stack", string(stack),
	)
}

// panicResponseWriter adds the JSON body to the 500 chimw.Recoverer writes
// after a panic, unless the handler had already started its response.
type panicResponseWriter struct {
	http.ResponseWriter
	entry       *panicLogEntry
	wroteHeader bool
}

func (w *panicResponseWriter) WriteHeader(status int) {
	if w.entry.panicked && !w.wroteHeader {
		w.wroteHeader = true
		w.Header().Set("Content-Type", "application/json")
		w.ResponseWriter.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w.ResponseWriter).Encode(map[string]string{"error": "internal server error"})
		return
	}
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *panicResponseWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}
