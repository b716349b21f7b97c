package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/KOFI-GYIMAH/hacktrack/pkg/errors"
	"github.com/KOFI-GYIMAH/hacktrack/pkg/logger"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rr *responseRecorder) WriteHeader(code int) {
	rr.statusCode = code
	rr.ResponseWriter.WriteHeader(code)
}

// * RequestID reuses an incoming X-Request-ID or mints one, and echoes it back
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rr := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rr, r)

		logger.Info("[%s] %s %s %d %s", RequestIDFrom(r.Context()), r.Method, r.RequestURI, rr.statusCode, time.Since(start))
	})
}

// * Recover turns a handler panic into a 500 error response
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				errors.WriteHTTPError(w, errors.New(
					"INTERNAL_PANIC",
					"Internal server error",
					fmt.Sprintf("request %s panicked", RequestIDFrom(r.Context())),
					fmt.Errorf("%v", p),
					errors.LevelFatal,
				))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
