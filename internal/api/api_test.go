package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/erazemk/lostfound/internal/analysis"
	"github.com/erazemk/lostfound/internal/db"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

type stubCompleter struct {
	reply string
}

func (s stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return s.reply, nil
}

func setupTestServer(t *testing.T, completer analysis.Completer) (*httptest.Server, *store.SQLite) {
	t.Helper()
	items := store.NewSQLite(db.NewTestDB(t))
	router := NewRouter(items, analysis.NewService(completer))
	server := httptest.NewServer(LoggingMiddleware(router))
	t.Cleanup(server.Close)
	return server, items
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func seed(t *testing.T, items *store.SQLite, title, category string, status model.Status) *model.Item {
	t.Helper()
	item, err := items.CreateItem(context.Background(), model.NewItem{
		Title:       title,
		Description: title + " description",
		Category:    category,
		Date:        "2024-01-01",
		ContactInfo: "a@b.edu",
		Status:      status,
	})
	if err != nil {
		t.Fatalf("seeding %s: %v", title, err)
	}
	return item
}

func validReport() map[string]string {
	return map[string]string{
		"title":       " iPhone 13 ",
		"description": "blue, cracked back",
		"category":    "Electronics",
		"location":    "Library",
		"date":        "2024-01-01",
		"contactInfo": "a@b.edu",
		"status":      "found",
	}
}

func TestCreateItem(t *testing.T) {
	server, items := setupTestServer(t, nil)

	resp := postJSON(t, server.URL+"/api/items", validReport())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var item model.Item
	json.NewDecoder(resp.Body).Decode(&item)
	if item.ID == 0 || item.Title != "iPhone 13" || item.Status != model.StatusFound {
		t.Errorf("unexpected item: %+v", item)
	}
	if item.ContactInfo != "a@b.edu" {
		t.Errorf("expected contact_info a@b.edu, got %q", item.ContactInfo)
	}

	stored, _ := items.ListItems(context.Background())
	if len(stored) != 1 {
		t.Errorf("expected 1 stored item, got %d", len(stored))
	}
}

func TestCreateItemMissingStatus(t *testing.T) {
	server, items := setupTestServer(t, nil)

	body := validReport()
	delete(body, "status")
	resp := postJSON(t, server.URL+"/api/items", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}

	stored, _ := items.ListItems(context.Background())
	if len(stored) != 0 {
		t.Errorf("no item should be stored, got %d", len(stored))
	}
}

func TestCreateItemValidationErrors(t *testing.T) {
	server, items := setupTestServer(t, nil)

	body := validReport()
	body["contactInfo"] = "not-an-email"
	resp := postJSON(t, server.URL+"/api/items", body)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}

	var out struct {
		Errors map[string]string `json:"errors"`
	}
	json.NewDecoder(resp.Body).Decode(&out)
	if len(out.Errors) != 1 || out.Errors["contactInfo"] == "" {
		t.Errorf("expected only a contactInfo error, got %v", out.Errors)
	}

	stored, _ := items.ListItems(context.Background())
	if len(stored) != 0 {
		t.Errorf("no item should be stored, got %d", len(stored))
	}
}

func TestCreateItemInvalidBody(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	resp, err := http.Post(server.URL+"/api/items", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestListItemsFilters(t *testing.T) {
	server, items := setupTestServer(t, nil)
	seed(t, items, "Calc", "Books", model.StatusLost)
	time.Sleep(time.Millisecond)
	seed(t, items, "Physics", "Books", model.StatusFound)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Physics", "Calc"}},
		{"?status=lost", []string{"Calc"}},
		{"?category=Books&q=PHYS", []string{"Physics"}},
		{"?category=All&status=all", []string{"Physics", "Calc"}},
		{"?category=Keys", []string{}},
	}

	for _, tt := range tests {
		resp, err := http.Get(server.URL + "/api/items" + tt.query)
		if err != nil {
			t.Fatalf("GET %s: %v", tt.query, err)
		}
		var got []model.Item
		json.NewDecoder(resp.Body).Decode(&got)
		resp.Body.Close()

		titles := []string{}
		for _, it := range got {
			titles = append(titles, it.Title)
		}
		if strings.Join(titles, ",") != strings.Join(tt.want, ",") {
			t.Errorf("GET /api/items%s = %v, want %v", tt.query, titles, tt.want)
		}
	}
}

func TestGetItem(t *testing.T) {
	server, items := setupTestServer(t, nil)
	item := seed(t, items, "Keys", "Keys", model.StatusLost)

	resp, _ := http.Get(server.URL + "/api/items/" + itoa(item.ID))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got model.Item
	json.NewDecoder(resp.Body).Decode(&got)
	resp.Body.Close()
	if got.Title != "Keys" || got.ContactInfo != "a@b.edu" {
		t.Errorf("unexpected item: %+v", got)
	}

	for path, want := range map[string]int{
		"/api/items/9999": http.StatusNotFound,
		"/api/items/abc":  http.StatusBadRequest,
	} {
		resp, _ := http.Get(server.URL + path)
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Errorf("GET %s: expected %d, got %d", path, want, resp.StatusCode)
		}
	}
}

func TestGetItemPhoto(t *testing.T) {
	server, items := setupTestServer(t, nil)
	plain := seed(t, items, "Keys", "Keys", model.StatusLost)
	withPhoto, err := items.CreateItem(context.Background(), model.NewItem{
		Title: "Bag", Description: "black", Category: "Bags", Date: "2024-01-01",
		ContactInfo: "a@b.edu", Status: model.StatusFound,
		Photo: []byte{0xff, 0xd8, 0xff}, PhotoMIME: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("creating item: %v", err)
	}

	resp, _ := http.Get(server.URL + "/api/items/" + itoa(withPhoto.ID) + "/photo")
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/jpeg" {
		t.Errorf("expected 200 image/jpeg, got %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !bytes.Equal(data, []byte{0xff, 0xd8, 0xff}) {
		t.Errorf("unexpected photo bytes %v", data)
	}

	resp, _ = http.Get(server.URL + "/api/items/" + itoa(plain.ID) + "/photo")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for item without photo, got %d", resp.StatusCode)
	}
}

func TestCategories(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	resp, err := http.Get(server.URL + "/api/categories")
	if err != nil {
		t.Fatalf("GET categories: %v", err)
	}
	defer resp.Body.Close()
	var got []string
	json.NewDecoder(resp.Body).Decode(&got)
	if strings.Join(got, ",") != strings.Join(model.Categories, ",") {
		t.Errorf("unexpected categories %v", got)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	server, _ := setupTestServer(t, stubCompleter{reply: `{"score":64,"suggestions":[],"strengths":[],"missingDetails":[]}`})

	req, _ := http.NewRequest(http.MethodOptions, server.URL+"/api/analyze-item-details", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("preflight: got %d, origin %q", resp.StatusCode, resp.Header.Get("Access-Control-Allow-Origin"))
	}

	resp = postJSON(t, server.URL+"/api/analyze-item-details", map[string]string{"title": "Keys", "itemType": "lost"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out map[string]any
	json.NewDecoder(resp.Body).Decode(&out)
	if out["score"] != float64(64) {
		t.Errorf("expected score 64, got %v", out["score"])
	}
}

func TestAnalyzeEndpointNotConfigured(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	resp := postJSON(t, server.URL+"/api/analyze-item-details", map[string]string{"title": "Keys", "itemType": "lost"})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("error responses must carry CORS headers")
	}
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"/":                   "/",
		"/api/items":          "/api/items",
		"/api/items/42":       "/api/items/{id}",
		"/api/items/42/photo": "/api/items/{id}/photo",
		"/api/items/x":        "/api/items/{invalid}",
		"/items/7":            "/items/{id}",
		"/items/7/anything":   "other",
		"/static/style.css":   "/static/*",
		"/wp-admin/setup.php": "other",
		"/report/live":        "/report/live",
	}
	for in, want := range tests {
		if got := normalizePath(in); got != want {
			t.Errorf("normalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
