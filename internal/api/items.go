package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/erazemk/lostfound/internal/browse"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/report"
	"github.com/erazemk/lostfound/internal/store"
	"github.com/erazemk/lostfound/internal/submission"
)

// ItemsHandler handles item report endpoints.
type ItemsHandler struct {
	Store store.Items
}

type createItemRequest struct {
	report.Draft
	Status string `json:"status"`
}

// List handles GET /api/items?q=&category=&status=.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.ListItems(r.Context())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	q := r.URL.Query()
	items = browse.Apply(items, browse.Filter{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
	})
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items. The report goes through the same
// submission flow as the web form.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status, ok := model.ParseStatus(req.Status)
	if !ok {
		jsonError(w, http.StatusBadRequest, "status must be lost or found")
		return
	}

	flow := submission.NewFlow(h.Store)
	flow.SetItemType(status)
	flow.SetDraft(req.Draft)

	out, err := flow.Submit(r.Context())
	switch {
	case errors.Is(err, submission.ErrInProgress):
		jsonError(w, http.StatusConflict, err.Error())
	case err != nil:
		jsonError(w, http.StatusInternalServerError, "failed to report item")
	case out.State == submission.Rejected:
		jsonResponse(w, http.StatusUnprocessableEntity, map[string]any{"errors": out.Violations})
	case out.State == submission.Persisted:
		jsonResponse(w, http.StatusCreated, out.Item)
	default:
		jsonError(w, http.StatusInternalServerError, "failed to report item")
	}
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.Store.GetItem(r.Context(), id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// GetPhoto handles GET /api/items/{id}/photo.
func (h *ItemsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	servePhoto(w, r, h.Store, id)
}

// servePhoto writes an item's photo, or a JSON 404 if it has none.
func servePhoto(w http.ResponseWriter, r *http.Request, items store.Items, id int64) {
	data, mime, err := items.GetItemPhoto(r.Context(), id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}

// Categories handles GET /api/categories.
func (h *ItemsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, model.Categories)
}
