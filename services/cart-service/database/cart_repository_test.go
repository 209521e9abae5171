package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/reazulhasan44/MangoRestaurent/services/cart-service/database"
	"github.com/reazulhasan44/MangoRestaurent/services/cart-service/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*database.CartRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return database.NewCartRepository(client, time.Hour), mr
}

func TestCartRepository_SaveAndGet(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	cart := &models.Cart{
		UserID: "u1",
		Items: []models.CartItem{
			{ProductID: uuid.New(), ProductName: "A", Price: 10, Quantity: 2},
		},
	}
	require.NoError(t, repo.SaveCart(ctx, cart))

	got, err := repo.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, cart.UserID, got.UserID)
	assert.Equal(t, cart.Items, got.Items)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestCartRepository_GetMissingCartReturnsNil(t *testing.T) {
	repo, _ := newTestRepo(t)

	got, err := repo.GetCart(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCartRepository_DeleteCart(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	cart := &models.Cart{
		UserID: "u1",
		Items:  []models.CartItem{{ProductID: uuid.New(), ProductName: "A", Price: 1, Quantity: 1}},
	}
	require.NoError(t, repo.SaveCart(ctx, cart))
	require.NoError(t, repo.DeleteCart(ctx, "u1"))

	got, err := repo.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCartRepository_SaveSetsTTL(t *testing.T) {
	repo, mr := newTestRepo(t)

	cart := &models.Cart{
		UserID: "u1",
		Items:  []models.CartItem{{ProductID: uuid.New(), ProductName: "A", Price: 1, Quantity: 1}},
	}
	require.NoError(t, repo.SaveCart(context.Background(), cart))

	ttl := mr.TTL("cart:user:u1")
	assert.Equal(t, time.Hour, ttl)
}
