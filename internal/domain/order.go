package domain

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is an immutable snapshot of a cart line at checkout time.
type OrderItem struct {
	Type        CartItemType    `json:"type"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description,omitempty"`
	CinemaName  string          `json:"cinemaName,omitempty"`
	ShowDate    string          `json:"showDate,omitempty"`
	ShowTime    string          `json:"showTime,omitempty"`
	Seats       []string        `json:"seats,omitempty"`
	MovieID     string          `json:"movieId,omitempty"`
}

// Order is the locally persisted purchase record. It is appended to the
// buyer's history at checkout and never mutated afterwards.
type Order struct {
	TicketCode string          `json:"ticketCode"`
	Items      []OrderItem     `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func NewOrderItem(item CartItem) OrderItem {
	title := item.MovieTitle
	description := ""

	if item.Type == CartItemSnack {
		title = item.Name
		description = item.Description
	}

	quantity := item.Quantity
	if quantity < 1 {
		quantity = 1
	}

	return OrderItem{
		Type:        item.Type,
		Title:       title,
		Price:       item.Price,
		Quantity:    quantity,
		Description: description,
		CinemaName:  item.CinemaName,
		ShowDate:    item.ShowDate,
		ShowTime:    item.ShowTime,
		Seats:       item.Seats,
		MovieID:     item.MovieID,
	}
}

const ticketCodePrefix = "CINEMOR"

const base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewTicketCode generates "CINEMOR-{unix-ms}-{7 base36 chars}".
func NewTicketCode(now time.Time) string {
	var suffix strings.Builder
	for i := 0; i < 7; i++ {
		suffix.WriteByte(base36Alphabet[rand.Intn(len(base36Alphabet))])
	}

	return fmt.Sprintf("%s-%d-%s", ticketCodePrefix, now.UnixMilli(), suffix.String())
}

// OrdinalTicketCode suffixes the base code per movie bundle when one checkout
// contains several of them.
func OrdinalTicketCode(base string, ordinal int) string {
	return fmt.Sprintf("%s-%d", base, ordinal)
}

// OrderRepository keeps a per-user, append-only purchase history. Retention
// is unbounded.
type OrderRepository interface {
	Append(ctx context.Context, userKey string, order Order) error
	ListByUser(ctx context.Context, userKey string) ([]Order, error)
}
