// Package middleware defines the HTTP middlewares for the query server.
package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	mylog "github.com/skysurvey-io/sia-obscore/internal/logger"
	"github.com/skysurvey-io/sia-obscore/internal/votable"
)

func Logging(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = mylog.NewID()
				w.Header().Set("X-Request-ID", reqID)
			}
			ctx := mylog.WithRequestID(r.Context(), reqID)
			ctx = mylog.WithComponent(ctx, "http")
			l.LogAttrs(ctx, slog.LevelDebug, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

// UppercaseParams folds query parameter names to upper case so handlers can
// match them case-insensitively. Values are left untouched.
func UppercaseParams() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if r.URL.RawQuery != "" {
				if q, err := url.ParseQuery(r.URL.RawQuery); err == nil {
					up := make(url.Values, len(q))
					for name, values := range q {
						key := strings.ToUpper(name)
						up[key] = append(up[key], values...)
					}
					r.URL.RawQuery = up.Encode()
				}
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

// Recover turns panics into a VOTable error document with status 500.
func Recover() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("panic recovered", "err", rec)
					w.Header().Set("Content-Type", "text/xml")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write(votable.ErrorDocument("internal server error"))
				}
			}()
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

func CORS() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
