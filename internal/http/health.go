package http

import (
	"net/http"
	"sync/atomic"
)

// Health — пробы процесса для оркестратора.
//
// /livez отвечает 200, пока процесс жив. /healthz отвечает 200 только после
// SetReady(true): сервер уже принимает запросы во время предсборки,
// но в балансировщик попадает после неё.
type Health struct {
	ready atomic.Bool
}

// SetReady переключает готовность.
func (h *Health) SetReady(v bool) { h.ready.Store(v) }

// Live — обработчик /livez.
func (h *Health) Live(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready — обработчик /healthz.
func (h *Health) Ready(w http.ResponseWriter, _ *http.Request) {
	if !h.ready.Load() {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
