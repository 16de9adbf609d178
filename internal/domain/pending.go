package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type PendingActionKind string

const (
	PendingSnackAdd      PendingActionKind = "snack_add"
	PendingSeatPromotion PendingActionKind = "seat_promotion"
)

// PendingAction captures an interrupted checkout-adjacent intent while the
// user authenticates. It must carry every field needed to rebuild the cart
// line item afterwards; nothing may be silently dropped by the detour.
type PendingAction struct {
	Kind     PendingActionKind     `json:"kind"`
	ReturnTo string                `json:"returnTo,omitempty"`
	Snack    *SnackPayload         `json:"snack,omitempty"`
	Seats    *SeatPromotionPayload `json:"seatPromotion,omitempty"`
}

type SnackPayload struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Image       string          `json:"image,omitempty"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

type SeatPromotionPayload struct {
	Seats        []string           `json:"selectedSeats"`
	TotalPrice   decimal.Decimal    `json:"totalPrice"`
	Movie        *MovieRef          `json:"movie,omitempty"`
	Cinema       string             `json:"cinema,omitempty"`
	Date         string             `json:"date,omitempty"`
	Session      string             `json:"session,omitempty"`
	ShowtimeID   string             `json:"showtimeId,omitempty"`
	TicketCounts map[TicketType]int `json:"ticketCounts,omitempty"`
}

func (p SnackPayload) CartItem() CartItem {
	quantity := p.Quantity
	if quantity < 1 {
		quantity = 1
	}

	return CartItem{
		ID:          p.ID,
		Name:        p.Name,
		Image:       p.Image,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    quantity,
	}
}

// CartItem builds the admission bundle the user intended before the detour.
func (p SeatPromotionPayload) CartItem() CartItem {
	item := CartItem{
		CinemaName: p.Cinema,
		ShowDate:   p.Date,
		ShowTime:   p.Session,
		ShowtimeID: p.ShowtimeID,
		Seats:      p.Seats,
		Price:      p.TotalPrice,
	}

	if p.Movie != nil {
		item.MovieID = p.Movie.ID
		item.MovieTitle = p.Movie.Title
		item.Image = p.Movie.PosterURL
	}

	item.ID = MovieCartItemID(item.MovieID, item.ShowtimeID)

	return item
}

// PendingActionRepository holds at most one pending action per session. The
// action stays put on failed logins so a retry does not lose the selection.
type PendingActionRepository interface {
	Get(ctx context.Context, sessionID string) (*PendingAction, error)
	Save(ctx context.Context, sessionID string, action *PendingAction) error
	Delete(ctx context.Context, sessionID string) error
	Rename(ctx context.Context, oldSessionID, newSessionID string) error
}
