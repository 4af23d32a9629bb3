// Package store persists item reports. It is the sole assigner of item IDs
// and creation timestamps.
package store

import (
	"context"

	"github.com/erazemk/lostfound/internal/model"
)

// Items is the storage collaborator: a single-row insert and an ordered read.
type Items interface {
	// CreateItem inserts one item and returns it as stored.
	CreateItem(ctx context.Context, item model.NewItem) (*model.Item, error)
	// GetItem returns an item by ID, or nil if it does not exist.
	GetItem(ctx context.Context, id int64) (*model.Item, error)
	// ListItems returns every item, newest first.
	ListItems(ctx context.Context) ([]model.Item, error)
	// GetItemPhoto returns an item's photo and MIME type, or nil data if it has none.
	GetItemPhoto(ctx context.Context, id int64) ([]byte, string, error)
}
