package submission

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/report"
)

// fakeStore records inserts. If block is set, CreateItem waits for it to close.
type fakeStore struct {
	mu      sync.Mutex
	inserts []model.NewItem
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (s *fakeStore) CreateItem(ctx context.Context, item model.NewItem) (*model.Item, error) {
	s.mu.Lock()
	s.inserts = append(s.inserts, item)
	n := int64(len(s.inserts))
	s.mu.Unlock()

	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.block != nil {
		<-s.block
	}
	if s.err != nil {
		return nil, s.err
	}
	return &model.Item{
		ID:          n,
		Title:       item.Title,
		Description: item.Description,
		Category:    item.Category,
		Location:    item.Location,
		Date:        item.Date,
		ContactInfo: item.ContactInfo,
		Status:      item.Status,
		CreatedAt:   time.Now(),
	}, nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inserts)
}

func newTestFlow(s *fakeStore) *Flow {
	f := NewFlow(s)
	f.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func phoneDraft() report.Draft {
	return report.Draft{
		Title:       "iPhone 13",
		Description: "blue, cracked back",
		Category:    "Electronics",
		Location:    "Library",
		Date:        "2024-01-01",
		ContactInfo: "a@b.edu",
	}
}

func TestSubmitWithoutItemTypeNeverInserts(t *testing.T) {
	s := &fakeStore{}
	f := newTestFlow(s)
	f.SetDraft(phoneDraft())

	out, err := f.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Rejected, out.State)
	require.NotNil(t, out.Notice)
	assert.Equal(t, "Please select item type", out.Notice.Title)
	assert.Zero(t, s.count())
	assert.Equal(t, phoneDraft(), f.Draft(), "form stays as typed")
}

func TestSubmitValidReportInsertsOnceAndResets(t *testing.T) {
	s := &fakeStore{}
	f := newTestFlow(s)
	f.SetItemType(model.StatusFound)
	d := phoneDraft()
	d.Title = "  iPhone 13 "
	d.ContactInfo = "a@b.edu\n"
	f.SetDraft(d)

	out, err := f.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Persisted, out.State)
	require.Equal(t, 1, s.count())
	assert.Equal(t, model.NewItem{
		Title:       "iPhone 13",
		Description: "blue, cracked back",
		Category:    "Electronics",
		Location:    "Library",
		Date:        "2024-01-01",
		ContactInfo: "a@b.edu",
		Status:      model.StatusFound,
	}, s.inserts[0])

	assert.Equal(t, report.Draft{}, f.Draft())
	assert.Equal(t, model.Status(""), f.ItemType())
	assert.Equal(t, BrowsePath, out.Redirect)
	assert.GreaterOrEqual(t, out.RedirectDelay, time.Duration(0))
	assert.Equal(t, NoticeSuccess, out.Notice.Kind)
	assert.Equal(t, "Your found item has been added to the database.", out.Notice.Message)
}

func TestSubmitInvalidEmailRejectedBeforeInsert(t *testing.T) {
	s := &fakeStore{}
	f := newTestFlow(s)
	f.SetItemType(model.StatusLost)
	d := phoneDraft()
	d.ContactInfo = "not-an-email"
	f.SetDraft(d)

	out, err := f.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Rejected, out.State)
	assert.Zero(t, s.count())
	require.Len(t, out.Violations, 1)
	assert.Contains(t, out.Violations, report.FieldContactInfo)
	assert.Equal(t, out.Violations, f.Violations())
}

func TestRepeatedInvalidSubmitGivesSameMessages(t *testing.T) {
	s := &fakeStore{}
	f := newTestFlow(s)
	f.SetItemType(model.StatusLost)
	f.SetDraft(report.Draft{Title: "Keys", ContactInfo: "nope"})

	first, err := f.Submit(context.Background())
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := f.Submit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, first.Violations, again.Violations)
	}
	assert.Zero(t, s.count())
}

func TestSubmitStoreFailurePreservesForm(t *testing.T) {
	s := &fakeStore{err: errors.New("connection refused")}
	f := newTestFlow(s)
	f.SetItemType(model.StatusLost)
	f.SetDraft(phoneDraft())
	f.SetPhoto([]byte("jpeg"), "image/jpeg")

	out, err := f.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Failed, out.State)
	assert.Equal(t, NoticeDestructive, out.Notice.Kind)
	assert.Empty(t, out.Redirect)
	assert.Equal(t, phoneDraft(), f.Draft())
	assert.Equal(t, model.StatusLost, f.ItemType())

	// A manual retry issues a second insert with the same values.
	s.err = nil
	out, err = f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Persisted, out.State)
	require.Equal(t, 2, s.count())
	assert.Equal(t, s.inserts[0], s.inserts[1])
	assert.Equal(t, []byte("jpeg"), s.inserts[1].Photo)
}

func TestSubmitWhilePersistingIsRefused(t *testing.T) {
	s := &fakeStore{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	f := newTestFlow(s)
	f.SetItemType(model.StatusLost)
	f.SetDraft(phoneDraft())

	done := make(chan *Outcome)
	go func() {
		out, _ := f.Submit(context.Background())
		done <- out
	}()

	<-s.entered
	assert.Equal(t, Persisting, f.State())

	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInProgress)

	close(s.block)
	out := <-done
	assert.Equal(t, Persisted, out.State)
	assert.Equal(t, 1, s.count())
}

func TestEditsWhilePersistingDoNotReplaceStoredForm(t *testing.T) {
	s := &fakeStore{
		err:     errors.New("connection refused"),
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	f := newTestFlow(s)
	f.SetItemType(model.StatusLost)
	f.SetDraft(phoneDraft())
	f.SetPhoto([]byte("jpeg"), "image/jpeg")

	done := make(chan *Outcome)
	go func() {
		out, _ := f.Submit(context.Background())
		done <- out
	}()
	<-s.entered

	f.SetItemType(model.StatusFound)
	f.SetDraft(report.Draft{Title: "Umbrella"})
	f.SetPhoto(nil, "")

	close(s.block)
	out := <-done
	require.Equal(t, Failed, out.State)
	assert.Equal(t, phoneDraft(), f.Draft())
	assert.Equal(t, model.StatusLost, f.ItemType())
	assert.True(t, f.HasPhoto())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "persisting", Persisting.String())
	assert.Equal(t, "state(42)", State(42).String())
}
