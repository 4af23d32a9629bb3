package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/lostfound/internal/browse"
	"github.com/erazemk/lostfound/internal/model"
)

// BrowsePage handles GET /browse?q=&category=&status=.
func (s *Server) BrowsePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := browse.Filter{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
	}

	items, err := s.Items.ListItems(r.Context())
	if err != nil {
		slog.Error("failed to list items", "error", err)
	}
	shown := browse.Apply(items, filter)

	s.Templates.Render(w, "browse.html", &struct {
		PageData
		Filter     browse.Filter
		Categories []string
		Items      []model.Item
		Totals     browse.Totals
		Failed     bool
	}{
		PageData:   PageData{Title: "Browse Items", Nav: "browse", Notice: GetNotice(r.Context())},
		Filter:     filter,
		Categories: model.Categories,
		Items:      shown,
		Totals:     browse.Count(shown),
		Failed:     err != nil,
	})
}
