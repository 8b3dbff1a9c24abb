package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"shareit/internal/models"
)

const itemColumns = `id, name, description, available, owner_id, request_id`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row scanner) (*models.Item, error) {
	var (
		item      models.Item
		requestID sql.NullInt64
	)
	if err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Available, &item.OwnerID, &requestID); err != nil {
		return nil, err
	}
	if requestID.Valid {
		id := requestID.Int64
		item.RequestID = &id
	}
	return &item, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	query := `INSERT INTO items (name, description, available, owner_id, request_id) VALUES (?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		item.Name,
		item.Description,
		item.Available,
		item.OwnerID,
		nullableID(item.RequestID),
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", classify(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	item.ID = id
	return nil
}

// PatchItem applies patch to the item if it belongs to ownerID. An item owned
// by someone else is reported as ErrNotFound.
func (db *DB) PatchItem(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch) (*models.Item, error) {
	var updated *models.Item
	err := db.RunInTx(ctx, func(ctx context.Context, tx DBTX) error {
		item, err := scanItem(tx.QueryRowContext(ctx,
			`SELECT `+itemColumns+` FROM items WHERE id = ? AND owner_id = ?`, itemID, ownerID))
		if err != nil {
			return classify(err)
		}

		patch.Apply(item)
		_, err = tx.ExecContext(ctx,
			`UPDATE items SET name = ?, description = ?, available = ? WHERE id = ?`,
			item.Name, item.Description, item.Available, item.ID)
		if err != nil {
			return classify(err)
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to patch item %d: %w", itemID, err)
	}
	return updated, nil
}

func (db *DB) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get item %d: %w", id, classify(err))
	}
	return item, nil
}

func (db *DB) GetItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = ? ORDER BY id LIMIT ? OFFSET ?`
	return db.queryItems(ctx, query, ownerID, page.Limit(), page.Offset())
}

// SearchItems returns available items whose name or description contains
// text, ignoring case.
func (db *DB) SearchItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error) {
	pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
	query := `SELECT ` + itemColumns + ` FROM items
              WHERE available = 1
                AND (lower_unicode(name) LIKE ? ESCAPE '\' OR lower_unicode(description) LIKE ? ESCAPE '\')
              ORDER BY id LIMIT ? OFFSET ?`
	return db.queryItems(ctx, query, pattern, pattern, page.Limit(), page.Offset())
}

func (db *DB) GetItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]*models.Item, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + itemColumns + ` FROM items WHERE request_id IN (` + placeholders(len(requestIDs)) + `) ORDER BY id`
	return db.queryItems(ctx, query, int64Args(requestIDs)...)
}

func (db *DB) queryItems(ctx context.Context, query string, args ...interface{}) ([]*models.Item, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
