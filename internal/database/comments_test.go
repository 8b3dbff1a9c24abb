package database

import (
	"context"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComments(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := mustUser(t, db, "Owner", "owner@example.com")
	author := mustUser(t, db, "Author", "author@example.com")
	drill := mustItem(t, db, owner.ID, "Drill", "Drill", true)
	saw := mustItem(t, db, owner.ID, "Saw", "Saw", true)
	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

	first := &models.Comment{Text: "Great drill", AuthorID: author.ID, ItemID: drill.ID, Created: now}
	require.NoError(t, db.CreateComment(ctx, first))
	second := &models.Comment{Text: "Still great", AuthorID: author.ID, ItemID: drill.ID, Created: now.Add(time.Hour)}
	require.NoError(t, db.CreateComment(ctx, second))
	other := &models.Comment{Text: "Sharp", AuthorID: author.ID, ItemID: saw.ID, Created: now}
	require.NoError(t, db.CreateComment(ctx, other))

	comments, err := db.GetCommentsByItemIDs(ctx, []int64{drill.ID})
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)
	assert.Equal(t, "Author", comments[0].AuthorName)
	assert.Equal(t, drill.ID, comments[0].ItemID)
	assert.True(t, now.Equal(comments[0].Created))
	assert.Equal(t, second.ID, comments[1].ID)

	comments, err = db.GetCommentsByItemIDs(ctx, []int64{drill.ID, saw.ID})
	require.NoError(t, err)
	assert.Len(t, comments, 3)

	comments, err = db.GetCommentsByItemIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, comments)

	err = db.CreateComment(ctx, &models.Comment{Text: "x", AuthorID: author.ID, ItemID: 999, Created: now})
	assert.ErrorIs(t, err, ErrReferenced)
}
