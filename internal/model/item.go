package model

import "time"

// Item is a single lost-or-found report as stored in the items table.
type Item struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location,omitempty"`
	Date        string    `json:"date"`
	ContactInfo string    `json:"contact_info"`
	Status      Status    `json:"status"`
	PhotoMIME   string    `json:"photo_mime,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasPhoto reports whether a photo was attached when the item was reported.
func (i Item) HasPhoto() bool {
	return i.PhotoMIME != ""
}

// NewItem is the payload of a single insert. The store assigns ID and CreatedAt.
type NewItem struct {
	Title       string
	Description string
	Category    string
	Location    string
	Date        string
	ContactInfo string
	Status      Status
	Photo       []byte
	PhotoMIME   string
}

// Status is set once when an item is reported and never changes.
type Status string

// Item statuses.
const (
	StatusLost  Status = "lost"
	StatusFound Status = "found"
)

// ParseStatus returns the status named by s, or false if s is not lost or found.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusLost, StatusFound:
		return Status(s), true
	}
	return "", false
}

// Categories is the fixed, ordered set of item categories.
var Categories = []string{
	"Electronics",
	"Books",
	"Clothing",
	"Bags",
	"Keys",
	"Documents",
	"Jewelry",
	"Other",
}

// IsCategory reports whether c is one of Categories (exact, case-sensitive match).
func IsCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
