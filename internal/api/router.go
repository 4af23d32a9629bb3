package api

import (
	"net/http"

	"github.com/erazemk/lostfound/internal/analysis"
	"github.com/erazemk/lostfound/internal/store"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(items store.Items, svc *analysis.Service) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{Store: items}
	analyze := analysis.NewHandler(svc)

	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("POST /api/items", itemsHandler.Create)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("GET /api/items/{id}/photo", itemsHandler.GetPhoto)
	mux.HandleFunc("GET /api/categories", itemsHandler.Categories)

	// Called from browsers on other origins; the handler sets CORS headers.
	mux.Handle("OPTIONS /api/analyze-item-details", analyze)
	mux.Handle("POST /api/analyze-item-details", analyze)

	return mux
}
