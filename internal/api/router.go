package api

import (
	"commute-eta-service/internal/api/handlers"
	"net/http"

	"github.com/sirupsen/logrus"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(svc handlers.Estimator, whitelist bool, log logrus.FieldLogger) http.Handler {
	mux := http.NewServeMux()

	etaHandler := &handlers.ETAHandler{Service: svc, Whitelist: whitelist}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/eta", etaHandler.ETA)
	mux.HandleFunc("/places", etaHandler.Places)

	return requestIDMiddleware(log, loggingMiddleware(mux))
}
