package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/lostfound/internal/browse"
	"github.com/erazemk/lostfound/internal/model"
)

// recentCount is how many of the newest reports the dashboard shows.
const recentCount = 3

// Dashboard handles GET /.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	items, err := s.Items.ListItems(r.Context())
	if err != nil {
		slog.Error("failed to list items for dashboard", "error", err)
	}

	s.Templates.Render(w, "dashboard.html", &struct {
		PageData
		Recent     []model.Item
		Categories []browse.CategoryCount
		Totals     browse.Totals
		Failed     bool
	}{
		PageData:   PageData{Title: "Campus Lost & Found", Nav: "home", Notice: GetNotice(r.Context())},
		Recent:     browse.Recent(items, recentCount),
		Categories: browse.CategoryCounts(items),
		Totals:     browse.Count(items),
		Failed:     err != nil,
	})
}
