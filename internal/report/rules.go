// Package report holds the rules every item report must satisfy before it is stored.
package report

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/erazemk/lostfound/internal/model"
)

// Field length limits, counted in code points.
const (
	MaxTitle       = 200
	MaxDescription = 1000
	MaxLocation    = 200
	MaxContactInfo = 255
)

// DateLayout is the calendar date format used by forms and storage.
const DateLayout = "2006-01-02"

// Field names used as keys in Violations.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldLocation    = "location"
	FieldDate        = "date"
	FieldContactInfo = "contactInfo"
)

// Draft is the raw, untrimmed state of a report form.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	ContactInfo string `json:"contactInfo"`
}

// Trimmed returns a copy of d with surrounding whitespace removed from every field.
func (d Draft) Trimmed() Draft {
	return Draft{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Category:    strings.TrimSpace(d.Category),
		Location:    strings.TrimSpace(d.Location),
		Date:        strings.TrimSpace(d.Date),
		ContactInfo: strings.TrimSpace(d.ContactInfo),
	}
}

// NewItem builds the insert payload from the trimmed draft.
func (d Draft) NewItem(status model.Status) model.NewItem {
	t := d.Trimmed()
	return model.NewItem{
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Location:    t.Location,
		Date:        t.Date,
		ContactInfo: t.ContactInfo,
		Status:      status,
	}
}

// Violations maps a field name to a single human-readable message.
type Violations map[string]string

// OK reports whether there are no violations.
func (v Violations) OK() bool {
	return len(v) == 0
}

// Validate checks every field of d independently and collects all violations.
// today is the reference date for the "not in the future" rule; only its
// calendar date (in its own location) is used.
func Validate(d Draft, today time.Time) Violations {
	d = d.Trimmed()
	v := Violations{}

	switch n := utf8.RuneCountInString(d.Title); {
	case n == 0:
		v[FieldTitle] = "Title is required"
	case n > MaxTitle:
		v[FieldTitle] = "Title must be less than 200 characters"
	}

	switch n := utf8.RuneCountInString(d.Description); {
	case n == 0:
		v[FieldDescription] = "Description is required"
	case n > MaxDescription:
		v[FieldDescription] = "Description must be less than 1000 characters"
	}

	switch {
	case d.Category == "":
		v[FieldCategory] = "Category is required"
	case !model.IsCategory(d.Category):
		v[FieldCategory] = "Category must be one of the listed categories"
	}

	if utf8.RuneCountInString(d.Location) > MaxLocation {
		v[FieldLocation] = "Location must be less than 200 characters"
	}

	if msg := checkDate(d.Date, today); msg != "" {
		v[FieldDate] = msg
	}

	switch n := utf8.RuneCountInString(d.ContactInfo); {
	case n == 0:
		v[FieldContactInfo] = "Contact information is required"
	case n > MaxContactInfo:
		v[FieldContactInfo] = "Contact information must be less than 255 characters"
	case !IsEmail(d.ContactInfo):
		v[FieldContactInfo] = "Please enter a valid email address"
	}

	return v
}

func checkDate(s string, today time.Time) string {
	if s == "" {
		return "Date is required"
	}
	date, err := time.Parse(DateLayout, s)
	if err != nil {
		return "Date must be in YYYY-MM-DD format"
	}
	y, m, dd := today.Date()
	if date.After(time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)) {
		return "Date cannot be in the future"
	}
	return ""
}

// IsEmail reports whether s is a bare email address (no display name, no
// angle brackets) with a dotted domain.
func IsEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	domain := s[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
