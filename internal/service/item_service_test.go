package service

import (
	"context"
	"testing"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemService_CreateAndUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner := e.user(t, "owner")
	stranger := e.user(t, "stranger")
	drill := e.item(t, owner.ID, "Drill", true)
	assert.Equal(t, owner.ID, drill.OwnerID)
	assert.Contains(t, e.bus.types(), events.EventItemCreated)

	t.Run("UnknownOwner", func(t *testing.T) {
		_, err := e.items.Create(ctx, 404, &models.Item{Name: "x", Description: "y", Available: true})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("UnknownRequest", func(t *testing.T) {
		missing := int64(77)
		_, err := e.items.Create(ctx, owner.ID, &models.Item{Name: "x", Description: "y", Available: true, RequestID: &missing})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("PatchOnlyPresentFields", func(t *testing.T) {
		off := false
		it, err := e.items.Update(ctx, owner.ID, drill.ID, models.ItemPatch{Available: &off})
		require.NoError(t, err)
		assert.False(t, it.Available)
		assert.Equal(t, "Drill", it.Name)
		assert.Equal(t, "Drill for rent", it.Description)
	})

	t.Run("NonOwnerUpdateIsNotFound", func(t *testing.T) {
		_, err := e.items.Update(ctx, stranger.ID, drill.ID, models.ItemPatch{Name: strPtr("mine")})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("MissingItem", func(t *testing.T) {
		_, err := e.items.Update(ctx, owner.ID, 404, models.ItemPatch{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = e.items.Get(ctx, owner.ID, 404)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestItemService_GetShowsBookingsToOwnerOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner := e.user(t, "owner")
	booker := e.user(t, "booker")
	kayak := e.item(t, owner.ID, "Kayak", true)

	past := e.booking(t, booker.ID, kayak.ID, e.now.Add(-48*time.Hour), e.now.Add(-24*time.Hour))
	next := e.booking(t, booker.ID, kayak.ID, e.now.Add(24*time.Hour), e.now.Add(48*time.Hour))
	rejected := e.booking(t, booker.ID, kayak.ID, e.now.Add(2*time.Hour), e.now.Add(3*time.Hour))
	_, err := e.bookings.UpdateStatus(ctx, owner.ID, rejected.ID, false)
	require.NoError(t, err)

	_, err = e.items.PostComment(ctx, booker.ID, kayak.ID, "Smooth ride")
	require.NoError(t, err)

	asOwner, err := e.items.Get(ctx, owner.ID, kayak.ID)
	require.NoError(t, err)
	require.NotNil(t, asOwner.LastBooking)
	require.NotNil(t, asOwner.NextBooking)
	assert.Equal(t, past.ID, asOwner.LastBooking.ID)
	assert.Equal(t, booker.ID, asOwner.LastBooking.BookerID)
	assert.Equal(t, next.ID, asOwner.NextBooking.ID)
	require.Len(t, asOwner.Comments, 1)
	assert.Equal(t, "booker", asOwner.Comments[0].AuthorName)

	asBooker, err := e.items.Get(ctx, booker.ID, kayak.ID)
	require.NoError(t, err)
	assert.Nil(t, asBooker.LastBooking)
	assert.Nil(t, asBooker.NextBooking)
	assert.Len(t, asBooker.Comments, 1)
}

func TestItemService_ListByOwner(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner := e.user(t, "owner")
	booker := e.user(t, "booker")
	tent := e.item(t, owner.ID, "Tent", true)
	stove := e.item(t, owner.ID, "Stove", true)
	e.item(t, booker.ID, "Bike", true)

	e.booking(t, booker.ID, tent.ID, e.now.Add(time.Hour), e.now.Add(2*time.Hour))

	list, err := e.items.ListByOwner(ctx, owner.ID, models.DefaultPage())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, tent.ID, list[0].ID)
	require.NotNil(t, list[0].NextBooking)
	assert.Nil(t, list[0].LastBooking)
	assert.Equal(t, stove.ID, list[1].ID)
	assert.Nil(t, list[1].NextBooking)
	assert.NotNil(t, list[1].Comments)

	page, err := e.items.ListByOwner(ctx, owner.ID, models.Page{From: 1, Size: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, stove.ID, page[0].ID)

	_, err = e.items.ListByOwner(ctx, 404, models.DefaultPage())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemService_Search(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner := e.user(t, "owner")
	e.item(t, owner.ID, "Garden hose", true)
	e.item(t, owner.ID, "Hose reel", false)

	found, err := e.items.Search(ctx, "HOSE", models.DefaultPage())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Garden hose", found[0].Name)

	for _, blank := range []string{"", "   "} {
		found, err = e.items.Search(ctx, blank, models.DefaultPage())
		require.NoError(t, err)
		assert.NotNil(t, found)
		assert.Empty(t, found)
	}
}

func TestItemService_CommentEligibility(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner := e.user(t, "owner")
	booker := e.user(t, "booker")
	ladder := e.item(t, owner.ID, "Ladder", true)
	b := e.booking(t, booker.ID, ladder.ID, e.now.Add(time.Hour), e.now.Add(2*time.Hour))
	_, err := e.bookings.UpdateStatus(ctx, owner.ID, b.ID, true)
	require.NoError(t, err)

	_, err = e.items.PostComment(ctx, booker.ID, ladder.ID, "Too early")
	assert.ErrorIs(t, err, domain.ErrIllegalOperation)

	_, err = e.items.PostComment(ctx, owner.ID, ladder.ID, "Never booked")
	assert.ErrorIs(t, err, domain.ErrIllegalOperation)

	e.now = b.End.Add(time.Minute)
	c, err := e.items.PostComment(ctx, booker.ID, ladder.ID, "Sturdy")
	require.NoError(t, err)
	assert.Equal(t, "Sturdy", c.Text)
	assert.Equal(t, "booker", c.AuthorName)
	assert.True(t, e.now.Equal(c.Created))
	assert.Contains(t, e.bus.types(), events.EventCommentPosted)
}
