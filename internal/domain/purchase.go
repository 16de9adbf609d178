package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Purchase is the record submitted to the remote ticket API per movie bundle
// at checkout. Submission is best-effort: the local order record stays the
// durable source of truth for the confirmation screen.
type Purchase struct {
	MovieTitle string          `json:"movieTitle"`
	MovieID    string          `json:"movieId,omitempty"`
	CinemaName string          `json:"cinemaName"`
	ShowDate   string          `json:"showDate"`
	ShowTime   string          `json:"showTime"`
	Seats      []string        `json:"seats"`
	Price      decimal.Decimal `json:"price"`
	TicketCode string          `json:"ticketCode"`
}

type PurchaseAPI interface {
	SubmitPurchase(ctx context.Context, bearerToken string, purchase Purchase) error
}

// CheckoutLock is the re-entrancy guard around checkout submission: a single
// in-flight flag per session, not a queue.
type CheckoutLock interface {
	Acquire(ctx context.Context, sessionID string) (bool, error)
	Release(ctx context.Context, sessionID string) error
}

// SeatSelection is the ephemeral per-session seat-picking state for one
// showtime. Entering the seat map for a different showtime resets it.
type SeatSelection struct {
	ShowtimeID string           `json:"showtimeId"`
	Seats      []string         `json:"seats"`
	Tickets    TicketAllocation `json:"tickets"`
}

func NewSeatSelection(showtimeID string) *SeatSelection {
	return &SeatSelection{
		ShowtimeID: showtimeID,
		Tickets:    NewTicketAllocation(),
	}
}

type SeatSelectionRepository interface {
	Get(ctx context.Context, sessionID string) (*SeatSelection, error)
	Save(ctx context.Context, sessionID string, selection *SeatSelection) error
	Delete(ctx context.Context, sessionID string) error
	Rename(ctx context.Context, oldSessionID, newSessionID string) error
}
