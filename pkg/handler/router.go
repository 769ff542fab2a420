package handler

import "net/http"

func NewRouter(app *AppContext) *http.ServeMux {
	mux := http.NewServeMux()

	// Error route
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	mux.HandleFunc("POST /search", app.SearchHandler)
	mux.HandleFunc("GET /health", app.HealthCheck)

	// API routes
	mux.HandleFunc("POST /api/v1/search", app.SearchHandler)
	mux.HandleFunc("GET /api/v1/health", app.HealthCheck)
	mux.HandleFunc("GET /api/v1/models", app.ListModelsHandler)
	mux.HandleFunc("GET /api/v1/models/{model_id}", app.GetModelHandler)

	return mux
}
