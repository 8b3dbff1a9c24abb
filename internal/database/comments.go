package database

import (
	"context"
	"fmt"

	"shareit/internal/models"
)

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `INSERT INTO comments (text, item_id, author_id, created) VALUES (?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query, comment.Text, comment.ItemID, comment.AuthorID, utc(comment.Created))
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", classify(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	comment.ID = id
	return nil
}

// GetCommentsByItemIDs loads the comments of several items at once, oldest
// first, with author names resolved.
func (db *DB) GetCommentsByItemIDs(ctx context.Context, itemIDs []int64) ([]models.CommentView, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query := `SELECT c.id, c.text, u.name, c.created, c.item_id
              FROM comments c JOIN users u ON u.id = c.author_id
              WHERE c.item_id IN (` + placeholders(len(itemIDs)) + `)
              ORDER BY c.created, c.id`
	rows, err := db.QueryContext(ctx, query, int64Args(itemIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []models.CommentView
	for rows.Next() {
		var c models.CommentView
		if err := rows.Scan(&c.ID, &c.Text, &c.AuthorName, &c.Created, &c.ItemID); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
