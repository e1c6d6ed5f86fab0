// middleware — net/http мидлвары сайта: восстановление после паники,
// X-Request-Id, логирование, дедлайн запроса и Cache-Control страниц.
package middleware

import "net/http"

// Middleware — стандартный net/http мидлвар.
type Middleware func(http.Handler) http.Handler

// responseWriter запоминает статус и размер ответа. Хуки onHeader
// вызываются один раз, прямо перед отправкой заголовков.
type responseWriter struct {
	http.ResponseWriter
	status int
	count  int
	hooks  []func(h http.Header, status int)
}

// wrap возвращает общий для всей цепочки responseWriter:
// Logging и CacheControl работают с одним и тем же объектом.
func wrap(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w}
}

func (w *responseWriter) onHeader(fn func(h http.Header, status int)) {
	w.hooks = append(w.hooks, fn)
}

func (w *responseWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
		for _, fn := range w.hooks {
			fn(w.Header(), code)
		}
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.WriteHeader(http.StatusOK)
	}

	n, err := w.ResponseWriter.Write(p)
	w.count += n
	return n, err
}

// Unwrap даёт http.ResponseController доступ к исходному writer.
func (w *responseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
