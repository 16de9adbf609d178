package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddMovieReplacesSameShowtime(t *testing.T) {
	cart := &Cart{}

	first := cart.AddMovie(CartItem{
		MovieID:    "42",
		MovieTitle: "Heat",
		ShowtimeID: "st-7",
		Seats:      []string{"A1"},
		Price:      decimal.NewFromInt(12),
	})

	second := cart.AddMovie(CartItem{
		MovieID:    "42",
		MovieTitle: "Heat",
		ShowtimeID: "st-7",
		Seats:      []string{"A1", "A2"},
		Price:      decimal.NewFromInt(24),
	})

	require.Len(t, cart.Items, 1)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "movie-42-st-7", cart.Items[0].ID)
	assert.Equal(t, []string{"A1", "A2"}, cart.Items[0].Seats)
	assert.True(t, cart.Items[0].Price.Equal(decimal.NewFromInt(24)))
}

func TestCartAddMovieSynthesizesID(t *testing.T) {
	cart := &Cart{}

	item := cart.AddMovie(CartItem{MovieTitle: "Heat", Price: decimal.NewFromInt(12)})

	assert.True(t, strings.HasPrefix(item.ID, "movie-"))
	assert.Equal(t, CartItemMovie, item.Type)
}

func TestCartAddSnackAccumulatesQuantity(t *testing.T) {
	cart := &Cart{}

	cart.AddSnack(CartItem{ID: "s1", Name: "Popcorn", Price: decimal.NewFromFloat(4.5), Quantity: 2})
	cart.AddSnack(CartItem{ID: "s1", Name: "Popcorn", Price: decimal.NewFromFloat(4.5), Quantity: 3})

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestCartAddSnackDefaultsQuantityToOne(t *testing.T) {
	cart := &Cart{}

	item := cart.AddSnack(CartItem{Name: "Nachos", Price: decimal.NewFromFloat(5.9)})

	assert.Equal(t, 1, item.Quantity)
	assert.True(t, strings.HasPrefix(item.ID, "snack-"))
}

func TestCartRemoveItemIsIdempotent(t *testing.T) {
	cart := &Cart{}
	cart.AddSnack(CartItem{ID: "s1", Name: "Popcorn", Price: decimal.NewFromFloat(4.5)})

	cart.RemoveItem("s1")
	cart.RemoveItem("s1")
	cart.RemoveItem("never-existed")

	assert.Empty(t, cart.Items)
}

func TestCartUpdateQuantityClampsToOne(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     int
	}{
		{"zero clamps to one", 0, 1},
		{"negative clamps to one", -5, 1},
		{"positive is kept", 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := &Cart{}
			cart.AddSnack(CartItem{ID: "s1", Name: "Popcorn", Price: decimal.NewFromFloat(4.5), Quantity: 2})

			cart.UpdateQuantity("s1", tt.quantity)

			assert.Equal(t, tt.want, cart.Items[0].Quantity)
		})
	}
}

func TestCartTotals(t *testing.T) {
	cart := &Cart{}
	cart.AddSnack(CartItem{ID: "s1", Name: "Popcorn", Price: decimal.NewFromFloat(9.90), Quantity: 2})
	cart.AddMovie(CartItem{MovieID: "1", ShowtimeID: "st-1", Price: decimal.NewFromFloat(12.00)})

	assert.Equal(t, "31.8", cart.TotalPrice().String())
	assert.Equal(t, 3, cart.TotalItems())
}

func TestCartTotalsEmpty(t *testing.T) {
	cart := &Cart{}

	assert.True(t, cart.TotalPrice().IsZero())
	assert.Zero(t, cart.TotalItems())
}

func TestCartMovieItems(t *testing.T) {
	cart := &Cart{}
	cart.AddSnack(CartItem{ID: "s1", Name: "Popcorn", Price: decimal.NewFromFloat(4.5)})
	cart.AddMovie(CartItem{MovieID: "1", ShowtimeID: "st-1", Price: decimal.NewFromInt(12)})
	cart.AddMovie(CartItem{MovieID: "2", ShowtimeID: "st-2", Price: decimal.NewFromInt(24)})

	movieItems := cart.MovieItems()

	require.Len(t, movieItems, 2)
	assert.Equal(t, "movie-1-st-1", movieItems[0].ID)
	assert.Equal(t, "movie-2-st-2", movieItems[1].ID)
}
