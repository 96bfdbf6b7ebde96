package services_test

import (
	"context"
	"testing"

	"sweetspro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddItemMergesLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	summary, err := f.carts.AddItem(ctx, f.user.ID, f.mousse.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1550), summary.Subtotal)
	assert.Equal(t, int64(800), summary.DeliveryFee)
	assert.Equal(t, int64(2350), summary.Total)

	summary, err = f.carts.AddItem(ctx, f.user.ID, f.mousse.ID, 2)
	require.NoError(t, err)
	require.Len(t, summary.Lines, 1)
	assert.Equal(t, 3, summary.Lines[0].Quantity)
	assert.Equal(t, "Pistachio Mousse", summary.Lines[0].ProductName)
	assert.Equal(t, 3, summary.ItemCount)
	assert.Equal(t, int64(4650), summary.Subtotal)
}

func TestCartService_FreeShippingAtThreshold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exact := f.addProduct(t, "Celebration Cake", "Shortcake", 10000)

	summary, err := f.carts.AddItem(ctx, f.user.ID, exact.ID, 1)
	require.NoError(t, err)
	assert.Zero(t, summary.DeliveryFee)
	assert.Equal(t, int64(10000), summary.Total)
}

func TestCartService_AddItemErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, f.user.ID, f.mousse.ID, 0)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	_, err = f.carts.AddItem(ctx, f.user.ID, f.mousse.ID, -2)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	_, err = f.carts.AddItem(ctx, f.user.ID, "missing", 1)
	assert.ErrorIs(t, err, models.ErrProductNotFound)

	summary, err := f.carts.GetCart(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, summary.Lines)
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	summary, err := f.carts.AddItem(ctx, f.user.ID, f.cake.ID, 1)
	require.NoError(t, err)
	cakeLine := summary.Lines[0].ID
	summary, err = f.carts.AddItem(ctx, f.user.ID, f.macarons.ID, 1)
	require.NoError(t, err)
	macaronLine := summary.Lines[1].ID

	summary, err = f.carts.UpdateItemQuantity(ctx, f.user.ID, cakeLine, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4*3800+600), summary.Subtotal)
	assert.Zero(t, summary.DeliveryFee)

	_, err = f.carts.UpdateItemQuantity(ctx, f.user.ID, cakeLine, -1)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	// Zero removes the line.
	summary, err = f.carts.UpdateItemQuantity(ctx, f.user.ID, cakeLine, 0)
	require.NoError(t, err)
	require.Len(t, summary.Lines, 1)
	assert.Equal(t, macaronLine, summary.Lines[0].ID)

	summary, err = f.carts.RemoveItem(ctx, f.user.ID, macaronLine)
	require.NoError(t, err)
	assert.Empty(t, summary.Lines)
	assert.Zero(t, summary.Total)

	_, err = f.carts.RemoveItem(ctx, f.user.ID, macaronLine)
	assert.ErrorIs(t, err, models.ErrLineNotFound)
}

func TestCartService_ClearCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, f.user.ID, f.cake.ID, 2)
	require.NoError(t, err)
	require.NoError(t, f.carts.ClearCart(ctx, f.user.ID))

	summary, err := f.carts.GetCart(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Zero(t, summary.ItemCount)
	assert.Zero(t, summary.Subtotal)
}

func TestCartService_CartsAreIsolatedPerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, f.user.ID, f.cake.ID, 1)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, "other-user", f.mousse.ID, 2)
	require.NoError(t, err)

	mine, err := f.carts.GetCart(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3800), mine.Subtotal)
}
