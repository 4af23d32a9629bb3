package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/lostfound/internal/model"
)

// SQLite stores items in a local SQLite database.
type SQLite struct {
	DB *sql.DB
}

// NewSQLite returns an item store backed by db. The schema must already exist.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{DB: db}
}

const itemColumns = `id, title, description, category, location, date, contact_info, status, photo_mime, created_at`

// CreateItem inserts a new item.
func (s *SQLite) CreateItem(ctx context.Context, item model.NewItem) (*model.Item, error) {
	var photoMIME sql.NullString
	if len(item.Photo) > 0 {
		photoMIME = sql.NullString{String: item.PhotoMIME, Valid: true}
	}

	result, err := s.DB.ExecContext(ctx,
		`INSERT INTO items (title, description, category, location, date, contact_info, status, photo, photo_mime)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Title, item.Description, item.Category, nullString(item.Location), item.Date,
		item.ContactInfo, string(item.Status), item.Photo, photoMIME,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return s.GetItem(ctx, id)
}

// GetItem returns an item by ID.
func (s *SQLite) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items, newest first.
func (s *SQLite) ListItems(ctx context.Context) ([]model.Item, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetItemPhoto returns an item's photo data and MIME type.
func (s *SQLite) GetItemPhoto(ctx context.Context, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := s.DB.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM items WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item photo: %w", err)
	}
	return photo, mime.String, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*model.Item, error) {
	item := &model.Item{}
	var location, photoMIME sql.NullString
	var status string
	err := row.Scan(&item.ID, &item.Title, &item.Description, &item.Category, &location,
		&item.Date, &item.ContactInfo, &status, &photoMIME, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	item.Location = location.String
	item.PhotoMIME = photoMIME.String
	item.Status = model.Status(status)
	return item, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
