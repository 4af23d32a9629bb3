package web

import (
	"net/http"
	"time"

	"github.com/erazemk/lostfound/internal/advisor"
	"github.com/erazemk/lostfound/internal/store"
	"github.com/erazemk/lostfound/internal/submission"
	webembed "github.com/erazemk/lostfound/web"
)

// NewRouter creates the web page router with all page routes registered.
// Options are passed to every description advisor the report page opens.
func NewRouter(items store.Items, forms *submission.Registry, analyzer advisor.Analyzer, opts ...advisor.Option) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Items:     items,
		Forms:     forms,
		Live:      NewLiveHandler(analyzer, opts...),
		Templates: templates,
		now:       time.Now,
	}

	mux := http.NewServeMux()

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	mux.HandleFunc("GET /{$}", s.Dashboard)
	mux.HandleFunc("GET /browse", s.BrowsePage)

	mux.HandleFunc("GET /report", s.ReportPage)
	mux.HandleFunc("POST /report", s.ReportSubmit)
	mux.Handle("GET /report/live", s.Live)

	mux.HandleFunc("GET /items/{id}", s.ItemDetailPage)
	mux.HandleFunc("GET /items/{id}/photo", s.ItemPhotoGet)

	return FlashMiddleware(mux), nil
}
