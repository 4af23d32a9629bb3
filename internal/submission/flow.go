// Package submission drives a single item report from form state to a stored item.
package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/report"
)

// RedirectDelay is how long the success notice stays up before the browse view opens.
const RedirectDelay = 1500 * time.Millisecond

// BrowsePath is where a successful submission navigates to.
const BrowsePath = "/browse"

// ErrInProgress is returned when Submit is called while an insert is outstanding.
var ErrInProgress = errors.New("submission already in progress")

var submissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lostfound_submissions_total",
		Help: "Item report submissions by outcome.",
	},
	[]string{"outcome"},
)

// State is the position of a submission in its lifecycle.
type State int

// Submission states.
const (
	Idle State = iota
	Validating
	Rejected
	Persisting
	Persisted
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Rejected:
		return "rejected"
	case Persisting:
		return "persisting"
	case Persisted:
		return "persisted"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// NoticeKind selects how a notice is presented.
type NoticeKind string

// Notice kinds.
const (
	NoticeSuccess     NoticeKind = "success"
	NoticeDestructive NoticeKind = "destructive"
)

// Notice is a dismissable message shown to the user.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
}

// Inserter is the part of the item store a submission needs.
type Inserter interface {
	CreateItem(ctx context.Context, item model.NewItem) (*model.Item, error)
}

// Outcome is the result of one Submit call.
type Outcome struct {
	State      State
	Item       *model.Item
	Violations report.Violations
	Notice     *Notice
	// Redirect is set once the item is stored.
	Redirect      string
	RedirectDelay time.Duration
}

// Flow holds the form state of one submission instance.
type Flow struct {
	store Inserter
	now   func() time.Time

	mu         sync.Mutex
	state      State
	itemType   model.Status
	draft      report.Draft
	violations report.Violations
	notice     *Notice
	photo      []byte
	photoMIME  string
}

// NewFlow returns an idle flow that stores items through store.
func NewFlow(store Inserter) *Flow {
	return &Flow{store: store, now: time.Now}
}

// The setters below leave the form untouched while an insert is outstanding,
// so the values being stored are the ones kept on failure.

// SetItemType chooses whether the item was lost or found.
func (f *Flow) SetItemType(s model.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Persisting {
		f.itemType = s
	}
}

// SetDraft replaces the form fields.
func (f *Flow) SetDraft(d report.Draft) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Persisting {
		f.draft = d
	}
}

// SetPhoto attaches a normalized photo to the report. A nil photo removes it.
func (f *Flow) SetPhoto(data []byte, mime string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Persisting {
		f.photo, f.photoMIME = data, mime
	}
}

// ItemType returns the chosen item type, or "" if none is chosen.
func (f *Flow) ItemType() model.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.itemType
}

// Draft returns the current form fields.
func (f *Flow) Draft() report.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// HasPhoto reports whether a photo is attached.
func (f *Flow) HasPhoto() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.photo) > 0
}

// State returns the current lifecycle state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Violations returns the per-field messages of the last rejected submit.
func (f *Flow) Violations() report.Violations {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.violations
}

// Submit validates the form and, if it passes, stores exactly one item.
// Only one insert may be outstanding per flow; a concurrent call returns
// ErrInProgress without touching the store.
func (f *Flow) Submit(ctx context.Context) (*Outcome, error) {
	f.mu.Lock()
	if f.state == Persisting {
		f.mu.Unlock()
		return nil, ErrInProgress
	}

	if f.itemType == "" {
		out := f.rejectLocked(nil, &Notice{
			Kind:    NoticeDestructive,
			Title:   "Please select item type",
			Message: "Choose whether you lost or found an item",
		})
		f.mu.Unlock()
		submissionsTotal.WithLabelValues("no_type").Inc()
		return out, nil
	}

	f.state = Validating
	violations := report.Validate(f.draft, f.now())
	if !violations.OK() {
		out := f.rejectLocked(violations, &Notice{
			Kind:    NoticeDestructive,
			Title:   "Please fix the highlighted fields",
			Message: fmt.Sprintf("%d field(s) need attention", len(violations)),
		})
		f.mu.Unlock()
		submissionsTotal.WithLabelValues("rejected").Inc()
		return out, nil
	}

	item := f.draft.NewItem(f.itemType)
	if len(f.photo) > 0 {
		item.Photo, item.PhotoMIME = f.photo, f.photoMIME
	}
	status := f.itemType
	f.state = Persisting
	f.violations = nil
	f.notice = nil
	f.mu.Unlock()

	created, err := f.store.CreateItem(ctx, item)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		slog.Error("failed to store item report", "error", err, "status", status)
		f.state = Failed
		f.notice = &Notice{
			Kind:    NoticeDestructive,
			Title:   "Error",
			Message: "Failed to report item. Please try again.",
		}
		submissionsTotal.WithLabelValues("failed").Inc()
		return &Outcome{State: Failed, Notice: f.notice}, nil
	}

	slog.Info("item reported", "id", created.ID, "status", created.Status, "category", created.Category)
	f.state = Persisted
	f.notice = &Notice{
		Kind:    NoticeSuccess,
		Title:   "Item reported successfully!",
		Message: fmt.Sprintf("Your %s item has been added to the database.", status),
	}
	f.draft = report.Draft{}
	f.itemType = ""
	f.photo, f.photoMIME = nil, ""
	submissionsTotal.WithLabelValues("persisted").Inc()
	return &Outcome{
		State:         Persisted,
		Item:          created,
		Notice:        f.notice,
		Redirect:      BrowsePath,
		RedirectDelay: RedirectDelay,
	}, nil
}

func (f *Flow) rejectLocked(v report.Violations, n *Notice) *Outcome {
	f.state = Rejected
	f.violations = v
	f.notice = n
	return &Outcome{State: Rejected, Violations: v, Notice: n}
}
