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

func TestRequestService(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	tentReq, err := e.requests.Create(ctx, alice.ID, &models.ItemRequest{Description: "Need a tent"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, tentReq.RequestorID)
	assert.True(t, e.now.Equal(tentReq.Created))
	assert.Empty(t, tentReq.Items)
	assert.Contains(t, e.bus.types(), events.EventRequestCreated)

	e.now = e.now.Add(time.Hour)
	bikeReq, err := e.requests.Create(ctx, alice.ID, &models.ItemRequest{Description: "Need a bike"})
	require.NoError(t, err)

	e.now = e.now.Add(time.Hour)
	pumpReq, err := e.requests.Create(ctx, bob.ID, &models.ItemRequest{Description: "Need a pump"})
	require.NoError(t, err)

	tent, err := e.items.Create(ctx, bob.ID, &models.Item{Name: "Tent", Description: "Two person", Available: true, RequestID: &tentReq.ID})
	require.NoError(t, err)

	t.Run("ListOwn", func(t *testing.T) {
		own, err := e.requests.ListOwn(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, own, 2)
		assert.Equal(t, bikeReq.ID, own[0].ID)
		assert.Empty(t, own[0].Items)
		assert.Equal(t, tentReq.ID, own[1].ID)
		require.Len(t, own[1].Items, 1)
		assert.Equal(t, tent.ID, own[1].Items[0].ID)
	})

	t.Run("ListOthers", func(t *testing.T) {
		others, err := e.requests.ListOthers(ctx, bob.ID, models.DefaultPage())
		require.NoError(t, err)
		require.Len(t, others, 2)
		assert.Equal(t, bikeReq.ID, others[0].ID)
		assert.Equal(t, tentReq.ID, others[1].ID)

		others, err = e.requests.ListOthers(ctx, alice.ID, models.DefaultPage())
		require.NoError(t, err)
		require.Len(t, others, 1)
		assert.Equal(t, pumpReq.ID, others[0].ID)

		others, err = e.requests.ListOthers(ctx, bob.ID, models.Page{From: 1, Size: 1})
		require.NoError(t, err)
		require.Len(t, others, 1)
		assert.Equal(t, tentReq.ID, others[0].ID)
	})

	t.Run("Get", func(t *testing.T) {
		got, err := e.requests.Get(ctx, bob.ID, tentReq.ID)
		require.NoError(t, err)
		assert.Equal(t, "Need a tent", got.Description)
		assert.Len(t, got.Items, 1)

		_, err = e.requests.Get(ctx, bob.ID, 404)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = e.requests.Get(ctx, 404, tentReq.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, err := e.requests.Create(ctx, 404, &models.ItemRequest{Description: "x"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = e.requests.ListOwn(ctx, 404)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = e.requests.ListOthers(ctx, 404, models.DefaultPage())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
