package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fitmatch/engine/internal/config"
)

// StartHTTPServer boots the HTTP server and registers all provided services
// under /api/v1, plus the operational endpoints.
func StartHTTPServer(cfg *config.Config, registrars ...Registrar) error {
	root := mux.NewRouter()

	root.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	root.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	api := root.PathPrefix("/api/v1").Subrouter()
	for _, r := range registrars {
		r.Register(api)
	}

	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv.ListenAndServe()
}
