package analysis

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// maxRequestBytes bounds the request body; title and description are short.
const maxRequestBytes = 64 << 10

// Handler serves the analysis endpoint to browsers on any origin.
type Handler struct {
	svc *Service
}

// NewHandler returns a handler backed by svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func setCORS(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORS(w.Header())

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "OPTIONS, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req Request
	body := io.LimitReader(r.Body, maxRequestBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		slog.Error("error in analyze-item-details", "error", err)
		writeError(w, http.StatusInternalServerError, "invalid request body")
		return
	}

	raw, err := h.svc.Analyze(r.Context(), req)
	if err != nil {
		slog.Error("error in analyze-item-details", "error", err, "mode", req.Mode)
		msg := "failed to analyze item details"
		if errors.Is(err, ErrNotConfigured) {
			msg = ErrNotConfigured.Error()
		}
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
