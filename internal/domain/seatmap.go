package domain

import (
	"context"
	"fmt"
)

type SeatStatus string

const (
	SeatFree     SeatStatus = "free"
	SeatOccupied SeatStatus = "occupied"
	SeatSelected SeatStatus = "selected"
)

// MaxSeatSelection is a soft cap: selecting beyond it is silently ignored,
// it is not an error condition.
const MaxSeatSelection = 6

var (
	seatRows    = []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	seatsPerRow = 12
)

type Seat struct {
	ID         string     `json:"id"`
	Row        string     `json:"row"`
	Number     int        `json:"number"`
	Status     SeatStatus `json:"status"`
	Wheelchair bool       `json:"wheelchair"`
}

// SeatMap is the seat grid of exactly one showtime. Occupancy is fixed for
// the lifetime of the map; only free<->selected transitions are possible.
type SeatMap struct {
	ShowtimeID string   `json:"showtimeId"`
	Rows       [][]Seat `json:"rows"`
}

// OccupancySource supplies the seats that are already taken for a showtime.
// The default implementation is statically seeded; a live per-showtime
// occupancy feed can replace it without touching the toggle logic.
type OccupancySource interface {
	OccupiedSeats(ctx context.Context, showtimeID string) (map[string]bool, error)
}

// StaticOccupancy seeds the same occupied and wheelchair seats for every
// showtime, matching the demo hall layout.
type StaticOccupancy struct{}

var staticOccupiedSeats = map[string]bool{
	"A10": true, "A11": true, "A12": true,
	"B8": true, "B9": true,
	"C6": true, "C7": true,
	"D4": true, "D9": true,
	"E5": true,
	"F11": true,
	"G1": true,
}

var wheelchairSeats = map[string]bool{
	"F1": true, "F2": true,
}

func (StaticOccupancy) OccupiedSeats(ctx context.Context, showtimeID string) (map[string]bool, error) {
	occupied := make(map[string]bool, len(staticOccupiedSeats))
	for id := range staticOccupiedSeats {
		occupied[id] = true
	}

	return occupied, nil
}

func NewSeatMap(showtimeID string, occupied map[string]bool) *SeatMap {
	rows := make([][]Seat, len(seatRows))

	for i, row := range seatRows {
		seats := make([]Seat, seatsPerRow)

		for j := 0; j < seatsPerRow; j++ {
			number := j + 1
			id := fmt.Sprintf("%s%d", row, number)

			status := SeatFree
			if occupied[id] {
				status = SeatOccupied
			}

			seats[j] = Seat{
				ID:         id,
				Row:        row,
				Number:     number,
				Status:     status,
				Wheelchair: wheelchairSeats[id],
			}
		}

		rows[i] = seats
	}

	return &SeatMap{ShowtimeID: showtimeID, Rows: rows}
}

// Toggle flips a seat between free and selected. Toggling an occupied seat,
// an unknown seat, or selecting past the cap are all silent no-ops. It
// reports whether the map changed.
func (m *SeatMap) Toggle(seatID string) bool {
	seat := m.seat(seatID)
	if seat == nil || seat.Status == SeatOccupied {
		return false
	}

	if seat.Status == SeatSelected {
		seat.Status = SeatFree
		return true
	}

	if m.SelectedCount() >= MaxSeatSelection {
		return false
	}

	seat.Status = SeatSelected

	return true
}

// ApplySelection re-marks previously selected seats on a freshly generated
// map. Seats that turned out occupied or unknown are dropped, and the cap is
// re-enforced.
func (m *SeatMap) ApplySelection(seatIDs []string) {
	for _, id := range seatIDs {
		seat := m.seat(id)
		if seat == nil || seat.Status != SeatFree {
			continue
		}

		if m.SelectedCount() >= MaxSeatSelection {
			return
		}

		seat.Status = SeatSelected
	}
}

func (m *SeatMap) SelectedSeatIDs() []string {
	var ids []string

	for i := range m.Rows {
		for j := range m.Rows[i] {
			if m.Rows[i][j].Status == SeatSelected {
				ids = append(ids, m.Rows[i][j].ID)
			}
		}
	}

	return ids
}

func (m *SeatMap) SelectedCount() int {
	count := 0

	for i := range m.Rows {
		for j := range m.Rows[i] {
			if m.Rows[i][j].Status == SeatSelected {
				count++
			}
		}
	}

	return count
}

func (m *SeatMap) seat(seatID string) *Seat {
	for i := range m.Rows {
		for j := range m.Rows[i] {
			if m.Rows[i][j].ID == seatID {
				return &m.Rows[i][j]
			}
		}
	}

	return nil
}
