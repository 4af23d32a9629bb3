package store

import (
	"context"
	"os"
	"testing"

	"github.com/erazemk/lostfound/internal/db"
	"github.com/erazemk/lostfound/internal/model"
)

// newTestPostgres connects to LOSTFOUND_TEST_DATABASE_URL and empties the items
// table. The test is skipped when the variable is unset.
func newTestPostgres(t *testing.T) *Postgres {
	t.Helper()

	url := os.Getenv("LOSTFOUND_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("LOSTFOUND_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.OpenPostgres(ctx, url)
	if err != nil {
		t.Fatalf("opening postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.EnsurePostgresSchema(ctx, pool); err != nil {
		t.Fatalf("ensuring schema: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE items`); err != nil {
		t.Fatalf("truncating items: %v", err)
	}
	return NewPostgres(pool)
}

func TestPostgresCreateListGet(t *testing.T) {
	s := newTestPostgres(t)
	ctx := context.Background()

	first := newLostPhone()
	first.Location = ""
	if _, err := s.CreateItem(ctx, first); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	second := newLostPhone()
	second.Title = "Calculus textbook"
	second.Status = model.StatusFound
	second.Photo = []byte("jpeg")
	second.PhotoMIME = "image/jpeg"
	created, err := s.CreateItem(ctx, second)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if created.Date != "2024-01-01" || !created.HasPhoto() {
		t.Errorf("unexpected item: %+v", created)
	}

	items, err := s.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 2 || items[0].ID != created.ID {
		t.Fatalf("expected newest first, got %+v", items)
	}
	if items[1].Location != "" {
		t.Errorf("expected empty location, got %q", items[1].Location)
	}

	got, err := s.GetItem(ctx, created.ID)
	if err != nil || got == nil || got.Status != model.StatusFound {
		t.Errorf("GetItem = %+v, %v", got, err)
	}

	data, mime, err := s.GetItemPhoto(ctx, created.ID)
	if err != nil || string(data) != "jpeg" || mime != "image/jpeg" {
		t.Errorf("GetItemPhoto = %q, %q, %v", data, mime, err)
	}

	missing, err := s.GetItem(ctx, created.ID+1000)
	if err != nil || missing != nil {
		t.Errorf("expected nil for missing item, got %+v, %v", missing, err)
	}
}
