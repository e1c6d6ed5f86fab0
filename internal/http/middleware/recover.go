package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/pribylovaa/spacetraveling/internal/http/errors"
	logctx "github.com/pribylovaa/spacetraveling/internal/pkg/log"
)

// Recover перехватывает panic и отвечает 500 через fallback
// (страница ошибки для HTML-маршрутов). fallback == nil -> JSON-ошибка.
// Детали паники пишутся в лог и не уходят клиенту.
func Recover(fallback http.HandlerFunc) Middleware {
	if fallback == nil {
		fallback = func(w http.ResponseWriter, r *http.Request) {
			apierrors.WriteError(w, r, errors.New("internal"))
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logctx.From(r.Context()).LogAttrs(r.Context(), slog.LevelError, "panic",
					slog.String("path", r.URL.Path),
					slog.Any("reason", rec),
				)
				fallback(w, r)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
