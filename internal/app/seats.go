package app

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cinemor/booking-api/api"
	"github.com/cinemor/booking-api/internal/domain"
)

func (app *application) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	showtimeID := chi.URLParam(r, "showtimeID")
	sessionId := app.sessionToken(r.Context())

	selection, seatMap, err := app.loadSeatState(r, showtimeID, sessionId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := toSeatMapResponse(seatMap, selection)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) ToggleSeat(w http.ResponseWriter, r *http.Request) {
	showtimeID := chi.URLParam(r, "showtimeID")
	seatID := chi.URLParam(r, "seatID")
	sessionId := app.sessionToken(r.Context())

	selection, seatMap, err := app.loadSeatState(r, showtimeID, sessionId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	// Occupied seats, unknown ids and picks past the cap are silent no-ops,
	// the response simply reflects the unchanged state.
	seatMap.Toggle(seatID)

	selection.Seats = seatMap.SelectedSeatIDs()
	app.trimTicketAllocation(selection)

	err = app.selectionRepo.Save(r.Context(), sessionId, selection)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := toSeatMapResponse(seatMap, selection)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) UpdateTicketCounts(w http.ResponseWriter, r *http.Request) {
	showtimeID := chi.URLParam(r, "showtimeID")
	sessionId := app.sessionToken(r.Context())

	var input api.TicketCountsRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	selection, seatMap, err := app.loadSeatState(r, showtimeID, sessionId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	allocation := domain.NewTicketAllocation()
	total := 0

	for name, count := range input.Counts {
		ticketType := domain.TicketType(name)

		if _, ok := allocation[ticketType]; !ok {
			app.badRequestResponse(w, r, fmt.Errorf("unknown ticket type %q", name))
			return
		}
		if count < 0 {
			app.badRequestResponse(w, r, fmt.Errorf("ticket count for %q must not be negative", name))
			return
		}

		allocation[ticketType] = count
		total += count
	}

	if total > len(selection.Seats) {
		app.badRequestResponse(w, r, fmt.Errorf("cannot allocate %d tickets for %d selected seats", total, len(selection.Seats)))
		return
	}

	selection.Tickets = allocation

	err = app.selectionRepo.Save(r.Context(), sessionId, selection)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := toSeatMapResponse(seatMap, selection)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// loadSeatState returns the session's seat selection and the seat map with
// that selection applied. Entering a different showtime discards the old
// selection, and seats that turned out occupied are dropped on re-entry.
func (app *application) loadSeatState(r *http.Request, showtimeID, sessionId string) (*domain.SeatSelection, *domain.SeatMap, error) {
	selection, err := app.selectionRepo.Get(r.Context(), sessionId)
	if err != nil {
		return nil, nil, err
	}

	if selection == nil || selection.ShowtimeID != showtimeID {
		selection = domain.NewSeatSelection(showtimeID)
	}
	if selection.Tickets == nil {
		selection.Tickets = domain.NewTicketAllocation()
	}

	occupied, err := app.occupancy.OccupiedSeats(r.Context(), showtimeID)
	if err != nil {
		return nil, nil, err
	}

	seatMap := domain.NewSeatMap(showtimeID, occupied)
	seatMap.ApplySelection(selection.Seats)

	selection.Seats = seatMap.SelectedSeatIDs()
	app.trimTicketAllocation(selection)

	err = app.selectionRepo.Save(r.Context(), sessionId, selection)
	if err != nil {
		return nil, nil, err
	}

	return selection, seatMap, nil
}

// trimTicketAllocation drops excess tickets after seats were deselected, so
// the allocation never exceeds the selected seat count.
func (app *application) trimTicketAllocation(selection *domain.SeatSelection) {
	for selection.Tickets.Total() > len(selection.Seats) {
		if !selection.Tickets.Decrement(domain.TicketReduced) &&
			!selection.Tickets.Decrement(domain.TicketStandard) {
			return
		}
	}
}

func toSeatMapResponse(seatMap *domain.SeatMap, selection *domain.SeatSelection) api.SeatMapResponse {
	seatRows := make([]api.SeatRow, 0, len(seatMap.Rows))

	for _, row := range seatMap.Rows {
		if len(row) == 0 {
			continue
		}

		seatRow := api.SeatRow{Row: row[0].Row}

		for _, seat := range row {
			seatRow.Seats = append(seatRow.Seats, api.Seat{
				Id:         seat.ID,
				Row:        seat.Row,
				Number:     seat.Number,
				Status:     string(seat.Status),
				Wheelchair: seat.Wheelchair,
			})
		}

		seatRows = append(seatRows, seatRow)
	}

	ticketTypes := make([]api.TicketTypeInfo, 0, len(domain.TicketTypes()))
	for _, t := range domain.TicketTypes() {
		ticketTypes = append(ticketTypes, api.TicketTypeInfo{
			Id:    string(t),
			Price: domain.TicketPrice(t),
			Count: selection.Tickets[t],
		})
	}

	selected := selection.Seats
	if selected == nil {
		selected = []string{}
	}

	return api.SeatMapResponse{
		ShowtimeId:    seatMap.ShowtimeID,
		SeatRows:      seatRows,
		SelectedSeats: selected,
		MaxSelection:  domain.MaxSeatSelection,
		TicketTypes:   ticketTypes,
		TotalPrice:    selection.Tickets.TotalPrice(),
		CanContinue:   selection.Tickets.Reconciled(len(selection.Seats)),
	}
}
