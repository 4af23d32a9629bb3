package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/lostfound/internal/imaging"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/report"
	"github.com/erazemk/lostfound/internal/submission"
)

// fieldPhoto is the violation key for a rejected photo upload.
const fieldPhoto = "photo"

type reportPage struct {
	PageData
	Token      string
	ItemType   model.Status
	Draft      report.Draft
	Violations report.Violations
	HasPhoto   bool
	Categories []string
	Today      string
	Limits     map[string]int
}

func (s *Server) renderReport(w http.ResponseWriter, status int, token string, flow *submission.Flow, v report.Violations, n *submission.Notice) {
	s.Templates.RenderStatus(w, status, "report.html", &reportPage{
		PageData:   PageData{Title: "Report an Item", Nav: "report", Notice: n},
		Token:      token,
		ItemType:   flow.ItemType(),
		Draft:      flow.Draft(),
		Violations: v,
		HasPhoto:   flow.HasPhoto(),
		Categories: model.Categories,
		Today:      s.now().Format(report.DateLayout),
		Limits: map[string]int{
			report.FieldTitle:       report.MaxTitle,
			report.FieldDescription: report.MaxDescription,
			report.FieldLocation:    report.MaxLocation,
			report.FieldContactInfo: report.MaxContactInfo,
		},
	})
}

// ReportPage handles GET /report. Every page load starts a new submission.
func (s *Server) ReportPage(w http.ResponseWriter, r *http.Request) {
	token, flow := s.Forms.New()
	s.renderReport(w, http.StatusOK, token, flow, nil, GetNotice(r.Context()))
}

// ReportSubmit handles POST /report.
func (s *Server) ReportSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxPhotoBytes+1<<20)
	if err := r.ParseMultipartForm(imaging.MaxPhotoBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "request too large", http.StatusBadRequest)
		return
	}

	token, flow := s.Forms.Get(r.FormValue("form_token"))
	if flow.State() == submission.Persisting {
		s.renderInProgress(w, token, flow)
		return
	}

	status, _ := model.ParseStatus(r.FormValue("item_type"))
	flow.SetItemType(status)
	flow.SetDraft(report.Draft{
		Title:       r.FormValue(report.FieldTitle),
		Description: r.FormValue(report.FieldDescription),
		Category:    r.FormValue(report.FieldCategory),
		Location:    r.FormValue(report.FieldLocation),
		Date:        r.FormValue(report.FieldDate),
		ContactInfo: r.FormValue(report.FieldContactInfo),
	})

	if r.FormValue("remove_photo") != "" {
		flow.SetPhoto(nil, "")
	}
	if file, hdr, err := r.FormFile(fieldPhoto); err == nil {
		defer file.Close()
		if hdr.Size > 0 {
			photo, err := imaging.Normalize(file)
			if err != nil {
				slog.Warn("rejected report photo", "error", err, "filename", hdr.Filename)
				s.renderReport(w, http.StatusUnprocessableEntity, token, flow,
					report.Violations{fieldPhoto: err.Error()},
					&submission.Notice{Kind: submission.NoticeDestructive, Title: "Photo not accepted", Message: err.Error()})
				return
			}
			flow.SetPhoto(photo.Data, photo.MIME)
		}
	}

	out, err := flow.Submit(r.Context())
	if errors.Is(err, submission.ErrInProgress) {
		s.renderInProgress(w, token, flow)
		return
	}
	if err != nil {
		slog.Error("failed to submit report", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	switch out.State {
	case submission.Persisted:
		setFlash(w, out.Notice)
		http.Redirect(w, r, out.Redirect, http.StatusSeeOther)
	case submission.Rejected:
		s.renderReport(w, http.StatusUnprocessableEntity, token, flow, out.Violations, out.Notice)
	default:
		s.renderReport(w, http.StatusInternalServerError, token, flow, nil, out.Notice)
	}
}

func (s *Server) renderInProgress(w http.ResponseWriter, token string, flow *submission.Flow) {
	s.renderReport(w, http.StatusConflict, token, flow, nil, &submission.Notice{
		Kind:    submission.NoticeDestructive,
		Title:   "Already submitting",
		Message: "This report is already being saved.",
	})
}
