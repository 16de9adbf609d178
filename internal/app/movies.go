package app

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cinemor/booking-api/api"
	"github.com/cinemor/booking-api/internal/domain"
)

func (app *application) GetShowtimesByMovie(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "movieID")

	movie, err := app.catalog.MovieByID(r.Context(), movieID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	showtimes, err := app.catalog.ShowtimesByMovie(r.Context(), movieID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ShowtimesResponse{
		MovieId:   movie.ID,
		Title:     movie.Title,
		Showtimes: make([]api.Showtime, 0, len(showtimes)),
	}

	for _, showtime := range showtimes {
		resp.Showtimes = append(resp.Showtimes, api.Showtime{
			Id:         showtime.ID,
			CinemaId:   showtime.CinemaID,
			CinemaName: showtime.CinemaName,
			HallName:   showtime.HallName,
			Date:       showtime.Date,
			StartTime:  showtime.StartTime,
			Format:     showtime.Format,
		})
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
