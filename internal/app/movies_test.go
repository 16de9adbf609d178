package app

import (
	"context"
	"net/http"
	"testing"

	"github.com/cinemor/booking-api/api"
	"github.com/cinemor/booking-api/internal/catalog"
	"github.com/cinemor/booking-api/internal/domain"
)

type stubCatalog struct {
	movies    map[string]*catalog.Movie
	showtimes map[string][]catalog.Showtime
}

func (s *stubCatalog) MovieByID(ctx context.Context, movieID string) (*catalog.Movie, error) {
	if movie, ok := s.movies[movieID]; ok {
		return movie, nil
	}

	return nil, domain.ErrRecordNotFound
}

func (s *stubCatalog) ShowtimesByMovie(ctx context.Context, movieID string) ([]catalog.Showtime, error) {
	return s.showtimes[movieID], nil
}

func TestGetShowtimesByMovie(t *testing.T) {
	app := newTestApplication(func(a *application) {
		a.catalog = &stubCatalog{
			movies: map[string]*catalog.Movie{
				"2": {ID: "2", Title: "Sternenlicht"},
			},
			showtimes: map[string][]catalog.Showtime{
				"2": {
					{ID: "st-201", MovieID: "2", CinemaName: "CinemoR City", HallName: "Saal 1", Date: "2026-03-01", StartTime: "20:15"},
				},
			},
		}
	})

	t.Run("known movie", func(t *testing.T) {
		w, r := executeRequest(t, http.MethodGet, "/movies/2/showtimes", nil)
		r = withURLParams(r, map[string]string{"movieID": "2"})

		app.GetShowtimesByMovie(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}

		resp := decodeResponse[api.ShowtimesResponse](t, w)

		if resp.Title != "Sternenlicht" {
			t.Errorf("title = %q, want %q", resp.Title, "Sternenlicht")
		}
		if len(resp.Showtimes) != 1 || resp.Showtimes[0].Id != "st-201" {
			t.Errorf("unexpected showtimes: %+v", resp.Showtimes)
		}
	})

	t.Run("unknown movie", func(t *testing.T) {
		w, r := executeRequest(t, http.MethodGet, "/movies/99/showtimes", nil)
		r = withURLParams(r, map[string]string{"movieID": "99"})

		app.GetShowtimesByMovie(w, r)

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}
