package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/studyreview/pkg/models"
)

const itemColumns = `i.id, i.collection_id, i.front, i.back, i.is_active,
	COALESCE(c.is_active, TRUE) AS collection_active`

// ItemRepository reads reviewable items and their collections
type ItemRepository struct {
	db *sqlx.DB
}

// NewItemRepository creates a new repository instance
func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// ResolveItem returns an item with its collection state, or models.ErrItemNotFound
func (r *ItemRepository) ResolveItem(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	query := r.db.Rebind(`
		SELECT ` + itemColumns + `
		FROM items i
		LEFT JOIN collections c ON c.id = i.collection_id
		WHERE i.id = ?
	`)

	var item models.Item
	err := r.db.GetContext(ctx, &item, query, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

// CreateCollection inserts a new collection
func (r *ItemRepository) CreateCollection(ctx context.Context, collection *models.Collection) error {
	if collection.ID == uuid.Nil {
		collection.ID = uuid.New()
	}
	collection.CreatedAt = time.Now().UTC()

	query := r.db.Rebind(`INSERT INTO collections (id, name, is_active, created_at) VALUES (?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query, collection.ID, collection.Name, collection.Active, collection.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// CreateItem inserts a new item
func (r *ItemRepository) CreateItem(ctx context.Context, item *models.Item) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	query := r.db.Rebind(`
		INSERT INTO items (id, collection_id, front, back, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.CollectionID,
		item.Front,
		item.Back,
		item.Active,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// SetItemActive toggles whether an item takes part in reviews
func (r *ItemRepository) SetItemActive(ctx context.Context, itemID uuid.UUID, active bool) error {
	query := r.db.Rebind(`UPDATE items SET is_active = ? WHERE id = ?`)
	result, err := r.db.ExecContext(ctx, query, active, itemID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrItemNotFound
	}
	return nil
}

// SetCollectionActive toggles whether the items of a collection take part in reviews
func (r *ItemRepository) SetCollectionActive(ctx context.Context, collectionID uuid.UUID, active bool) error {
	query := r.db.Rebind(`UPDATE collections SET is_active = ? WHERE id = ?`)
	result, err := r.db.ExecContext(ctx, query, active, collectionID)
	if err != nil {
		return fmt.Errorf("failed to update collection: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("collection %s not found", collectionID)
	}
	return nil
}
