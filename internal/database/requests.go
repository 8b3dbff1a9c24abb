package database

import (
	"context"
	"fmt"

	"shareit/internal/models"
)

const requestColumns = `id, description, requestor_id, created`

func (db *DB) CreateRequest(ctx context.Context, req *models.ItemRequest) error {
	query := `INSERT INTO requests (description, requestor_id, created) VALUES (?, ?, ?)`
	result, err := db.ExecContext(ctx, query, req.Description, req.RequestorID, utc(req.Created))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", classify(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	req.ID = id
	return nil
}

func (db *DB) GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error) {
	var req models.ItemRequest
	err := db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = ?`, id).
		Scan(&req.ID, &req.Description, &req.RequestorID, &req.Created)
	if err != nil {
		return nil, fmt.Errorf("failed to get request %d: %w", id, classify(err))
	}
	return &req, nil
}

func (db *DB) GetRequestsByRequestor(ctx context.Context, userID int64) ([]*models.ItemRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE requestor_id = ? ORDER BY created DESC, id DESC`
	return db.queryRequests(ctx, query, userID)
}

// GetRequestsOfOthers pages through requests made by anyone but userID,
// newest first.
func (db *DB) GetRequestsOfOthers(ctx context.Context, userID int64, page models.Page) ([]*models.ItemRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE requestor_id <> ?
              ORDER BY created DESC, id DESC LIMIT ? OFFSET ?`
	return db.queryRequests(ctx, query, userID, page.Limit(), page.Offset())
}

func (db *DB) queryRequests(ctx context.Context, query string, args ...interface{}) ([]*models.ItemRequest, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.ItemRequest
	for rows.Next() {
		var req models.ItemRequest
		if err := rows.Scan(&req.ID, &req.Description, &req.RequestorID, &req.Created); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, &req)
	}
	return requests, rows.Err()
}
