package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cinemor/booking-api/internal/domain"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	client, err := NewClient(baseURL, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}

	return client
}

func TestMovieByID_FromAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movies/9" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		json.NewEncoder(w).Encode(Movie{ID: "9", Title: "Fernes Ufer"})
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	movie, err := client.MovieByID(context.Background(), "9")
	if err != nil {
		t.Fatal(err)
	}

	if movie.Title != "Fernes Ufer" {
		t.Errorf("title = %q, want %q", movie.Title, "Fernes Ufer")
	}
}

func TestMovieByID_FallsBackToSample(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	movie, err := client.MovieByID(context.Background(), "2")
	if err != nil {
		t.Fatal(err)
	}

	if movie.Title != "Sternenlicht" {
		t.Errorf("title = %q, want sample movie %q", movie.Title, "Sternenlicht")
	}
}

func TestMovieByID_NotInSample(t *testing.T) {
	client := newTestClient(t, "")

	_, err := client.MovieByID(context.Background(), "does-not-exist")

	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestShowtimesByMovie_FallsBackToSample(t *testing.T) {
	client := newTestClient(t, "")

	showtimes, err := client.ShowtimesByMovie(context.Background(), "1")
	if err != nil {
		t.Fatal(err)
	}

	if len(showtimes) != 3 {
		t.Fatalf("showtimes = %d, want 3", len(showtimes))
	}

	for _, showtime := range showtimes {
		if showtime.MovieID != "1" {
			t.Errorf("showtime %s belongs to movie %s", showtime.ID, showtime.MovieID)
		}
	}
}

func TestShowtimesByMovie_SlowAPIFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		json.NewEncoder(w).Encode([]Showtime{{ID: "st-900", MovieID: "1"}})
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, 10*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}

	showtimes, err := client.ShowtimesByMovie(context.Background(), "1")
	if err != nil {
		t.Fatal(err)
	}

	// sample data, not the slow API's answer
	for _, showtime := range showtimes {
		if showtime.ID == "st-900" {
			t.Error("expected fallback to sample data on timeout")
		}
	}
}
