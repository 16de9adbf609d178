package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type MovieRef struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"title,omitempty"`
	PosterURL string `json:"posterUrl,omitempty"`
}

// BookingDraft is the in-progress single-showtime selection. It survives
// interruptions (page reloads, login detours) but is not a committed order.
type BookingDraft struct {
	Movie      *MovieRef       `json:"movie,omitempty"`
	Cinema     string          `json:"cinema,omitempty"`
	Date       string          `json:"date,omitempty"`
	Session    string          `json:"session,omitempty"`
	ShowtimeID string          `json:"showtimeId,omitempty"`
	Seats      []string        `json:"seats,omitempty"`
	Price      decimal.Decimal `json:"price"`
}

// SetCinema replaces the venue. A previously chosen slot belongs to the old
// venue, so date, session and showtime are voided alongside.
func (d *BookingDraft) SetCinema(cinema string) {
	if d.Cinema == cinema {
		return
	}

	d.Cinema = cinema
	d.Date = ""
	d.Session = ""
	d.ShowtimeID = ""
}

func (d *BookingDraft) Reset() {
	*d = BookingDraft{}
}

// HasShowtimeSelection reports whether the draft identifies a payable
// screening on its own, without any cart contents.
func (d *BookingDraft) HasShowtimeSelection() bool {
	return d.Movie != nil && d.Date != "" && d.Session != "" && len(d.Seats) > 0
}

// BookingRepository persists one draft per session, written through on every
// mutation.
type BookingRepository interface {
	Get(ctx context.Context, sessionID string) (*BookingDraft, error)
	Save(ctx context.Context, sessionID string, draft *BookingDraft) error
	Delete(ctx context.Context, sessionID string) error
	Rename(ctx context.Context, oldSessionID, newSessionID string) error
}
