package app

import (
	"net/http"

	"github.com/cinemor/booking-api/api"
	"github.com/cinemor/booking-api/internal/domain"
)

func (app *application) GetBooking(w http.ResponseWriter, r *http.Request) {
	sessionId := app.sessionToken(r.Context())

	draft, err := app.bookingRepo.Get(r.Context(), sessionId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toBookingResponse(draft), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	sessionId := app.sessionToken(r.Context())

	var input api.UpdateBookingRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	draft, err := app.bookingRepo.Get(r.Context(), sessionId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	// Changing the venue voids the previously chosen slot, so it has to be
	// applied before any slot fields arriving in the same request.
	if input.Cinema != nil {
		draft.SetCinema(*input.Cinema)
		app.sessionManager.Put(r.Context(), SessionKeyCinema.String(), *input.Cinema)
	}

	if input.Movie != nil {
		draft.Movie = &domain.MovieRef{
			ID:        input.Movie.Id,
			Title:     input.Movie.Title,
			PosterURL: input.Movie.PosterUrl,
		}
	}

	if input.Date != nil {
		draft.Date = *input.Date
	}

	if input.Session != nil {
		draft.Session = *input.Session
	}

	if input.ShowtimeId != nil {
		draft.ShowtimeID = *input.ShowtimeId
	}

	err = app.bookingRepo.Save(r.Context(), sessionId, draft)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toBookingResponse(draft), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toBookingResponse(draft *domain.BookingDraft) api.BookingResponse {
	resp := api.BookingResponse{
		Cinema:     draft.Cinema,
		Date:       draft.Date,
		Session:    draft.Session,
		ShowtimeId: draft.ShowtimeID,
		Seats:      draft.Seats,
		Price:      draft.Price,
	}

	if resp.Seats == nil {
		resp.Seats = []string{}
	}

	if draft.Movie != nil {
		resp.Movie = &api.MovieRef{
			Id:        draft.Movie.ID,
			Title:     draft.Movie.Title,
			PosterUrl: draft.Movie.PosterURL,
		}
	}

	return resp
}
