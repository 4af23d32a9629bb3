package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/erazemk/lostfound/internal/model"
)

// Postgres stores items in a hosted Postgres database.
type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgres returns an item store backed by pool. The schema must already exist.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{Pool: pool}
}

const pgItemColumns = `id, title, description, category, COALESCE(location, ''), date::text,
	contact_info, status, COALESCE(photo_mime, ''), created_at`

// CreateItem inserts a new item.
func (s *Postgres) CreateItem(ctx context.Context, item model.NewItem) (*model.Item, error) {
	date, err := time.Parse("2006-01-02", item.Date)
	if err != nil {
		return nil, fmt.Errorf("parsing item date: %w", err)
	}

	var location, photoMIME *string
	if item.Location != "" {
		location = &item.Location
	}
	if len(item.Photo) > 0 {
		photoMIME = &item.PhotoMIME
	}

	row := s.Pool.QueryRow(ctx,
		`INSERT INTO items (title, description, category, location, date, contact_info, status, photo, photo_mime)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+pgItemColumns,
		item.Title, item.Description, item.Category, location, date,
		item.ContactInfo, string(item.Status), item.Photo, photoMIME,
	)
	created, err := scanPgItem(row)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	return created, nil
}

// GetItem returns an item by ID.
func (s *Postgres) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+pgItemColumns+` FROM items WHERE id = $1`, id)
	item, err := scanPgItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items, newest first.
func (s *Postgres) ListItems(ctx context.Context) ([]model.Item, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+pgItemColumns+` FROM items ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanPgItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetItemPhoto returns an item's photo data and MIME type.
func (s *Postgres) GetItemPhoto(ctx context.Context, id int64) ([]byte, string, error) {
	var photo []byte
	var mime string
	err := s.Pool.QueryRow(ctx,
		`SELECT photo, COALESCE(photo_mime, '') FROM items WHERE id = $1`, id,
	).Scan(&photo, &mime)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item photo: %w", err)
	}
	return photo, mime, nil
}

func scanPgItem(row pgx.Row) (*model.Item, error) {
	item := &model.Item{}
	var status string
	err := row.Scan(&item.ID, &item.Title, &item.Description, &item.Category, &item.Location,
		&item.Date, &item.ContactInfo, &status, &item.PhotoMIME, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	item.Status = model.Status(status)
	return item, nil
}
