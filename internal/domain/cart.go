package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartItemType string

const (
	CartItemMovie CartItemType = "movie"
	CartItemSnack CartItemType = "snack"
)

// CartItem is one purchasable line: either an admission bundle for all seats
// of one showtime, or a snack with an adjustable quantity.
type CartItem struct {
	ID       string          `json:"id"`
	Type     CartItemType    `json:"type"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity,omitempty"`
	Image    string          `json:"image,omitempty"`

	// movie fields
	MovieID    string   `json:"movieId,omitempty"`
	MovieTitle string   `json:"movieTitle,omitempty"`
	CinemaName string   `json:"cinemaName,omitempty"`
	ShowDate   string   `json:"showDate,omitempty"`
	ShowTime   string   `json:"showTime,omitempty"`
	ShowtimeID string   `json:"showtimeId,omitempty"`
	Seats      []string `json:"seats,omitempty"`

	// snack fields
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

func (i CartItem) quantityOrOne() int {
	if i.Quantity < 1 {
		return 1
	}

	return i.Quantity
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.quantityOrOne())))
}

// DisplayName is what listeners (toast notifications) show for an added item.
func (i CartItem) DisplayName() string {
	switch i.Type {
	case CartItemSnack:
		if i.Name != "" {
			return i.Name
		}
		return "Snack"
	default:
		if i.MovieTitle != "" {
			return i.MovieTitle
		}
		return "Film"
	}
}

type Cart struct {
	Items []CartItem `json:"items"`
}

// MovieCartItemID keys an admission bundle by movie and showtime, so
// re-confirming the same selection replaces instead of duplicating.
func MovieCartItemID(movieID, showtimeID string) string {
	now := time.Now().UnixMilli()

	if movieID == "" {
		movieID = fmt.Sprintf("%d", now)
	}
	if showtimeID == "" {
		showtimeID = fmt.Sprintf("%d", now)
	}

	return fmt.Sprintf("movie-%s-%s", movieID, showtimeID)
}

// AddMovie appends an admission bundle, replacing in place any existing item
// with the same id. It returns the normalized item.
func (c *Cart) AddMovie(item CartItem) CartItem {
	item.Type = CartItemMovie

	if item.ID == "" {
		item.ID = MovieCartItemID(item.MovieID, item.ShowtimeID)
	}

	for i := range c.Items {
		if c.Items[i].Type == CartItemMovie && c.Items[i].ID == item.ID {
			c.Items[i] = item
			return item
		}
	}

	c.Items = append(c.Items, item)

	return item
}

// AddSnack appends a snack, accumulating quantity when the same snack is
// already present. It returns the resulting item.
func (c *Cart) AddSnack(item CartItem) CartItem {
	item.Type = CartItemSnack

	if item.ID == "" {
		item.ID = fmt.Sprintf("snack-%s", uuid.New().String())
	}

	if item.Quantity < 1 {
		item.Quantity = 1
	}

	for i := range c.Items {
		if c.Items[i].Type == CartItemSnack && c.Items[i].ID == item.ID {
			c.Items[i].Quantity = c.Items[i].quantityOrOne() + item.Quantity
			return c.Items[i]
		}
	}

	c.Items = append(c.Items, item)

	return item
}

// RemoveItem is idempotent: removing an absent id is not an error.
func (c *Cart) RemoveItem(itemID string) {
	items := c.Items[:0]

	for _, item := range c.Items {
		if item.ID != itemID {
			items = append(items, item)
		}
	}

	c.Items = items
}

// UpdateQuantity clamps to a minimum of 1. Removal is an explicit action,
// never implied by decrementing to zero.
func (c *Cart) UpdateQuantity(itemID string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Quantity = quantity
		}
	}
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero

	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}

	return total
}

func (c *Cart) TotalItems() int {
	total := 0

	for _, item := range c.Items {
		total += item.quantityOrOne()
	}

	return total
}

func (c *Cart) MovieItems() []CartItem {
	var items []CartItem

	for _, item := range c.Items {
		if item.Type == CartItemMovie {
			items = append(items, item)
		}
	}

	return items
}

func (c *Cart) Clear() {
	c.Items = nil
}

// CartRepository persists one cart per session, written through on every
// mutation.
type CartRepository interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
	Rename(ctx context.Context, oldSessionID, newSessionID string) error
}
