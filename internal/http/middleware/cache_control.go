package middleware

import (
	"fmt"
	"net/http"
	"time"
)

// CacheControl выставляет Cache-Control для успешных GET-ответов,
// если обработчик не задал его сам. max-age равен интервалу перевыборки
// страницы: браузер и CDN не держат её дольше сервера.
func CacheControl(maxAge time.Duration) Middleware {
	secs := int(maxAge.Seconds())
	value := fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d", secs, secs)

	return func(next http.Handler) http.Handler {
		if maxAge <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			rw := wrap(w)
			rw.onHeader(func(h http.Header, status int) {
				if status == http.StatusOK && h.Get("Cache-Control") == "" {
					h.Set("Cache-Control", value)
				}
			})
			next.ServeHTTP(rw, r)
		})
	}
}
