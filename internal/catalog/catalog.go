// Package catalog supplies movie and showtime data from a remote REST API,
// falling back to a bundled sample dataset when the API is unreachable. The
// booking flow does not distinguish between the two.
package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cinemor/booking-api/internal/domain"
)

// DefaultTimeout bounds catalog lookups so the booking flow falls back to
// sample data instead of hanging (the hosted API cold-starts slowly).
const DefaultTimeout = 12 * time.Second

type Movie struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	PosterURL string `json:"posterUrl,omitempty"`
	Duration  int    `json:"duration,omitempty"`
	Genre     string `json:"genre,omitempty"`
}

type Showtime struct {
	ID         string `json:"id"`
	MovieID    string `json:"movieId"`
	CinemaID   string `json:"cinemaId"`
	CinemaName string `json:"cinemaName"`
	HallName   string `json:"hallName"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	Format     string `json:"format,omitempty"`
}

type Source interface {
	MovieByID(ctx context.Context, movieID string) (*Movie, error)
	ShowtimesByMovie(ctx context.Context, movieID string) ([]Showtime, error)
}

//go:embed sample.json
var sampleData []byte

type sampleCatalog struct {
	Movies    []Movie    `json:"movies"`
	Showtimes []Showtime `json:"showtimes"`
}

type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
	sample  sampleCatalog
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var sample sampleCatalog
	if err := json.Unmarshal(sampleData, &sample); err != nil {
		return nil, fmt.Errorf("failed to parse bundled sample catalog: %w", err)
	}

	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		sample:  sample,
	}, nil
}

func (c *Client) MovieByID(ctx context.Context, movieID string) (*Movie, error) {
	var movie Movie

	url := fmt.Sprintf("%s/movies/%s", c.baseURL, movieID)

	if err := c.getJSON(ctx, url, &movie); err != nil {
		c.logger.Warn("movie lookup failed, serving sample data", "movie_id", movieID, "error", err)
		return c.sampleMovie(movieID)
	}

	return &movie, nil
}

func (c *Client) ShowtimesByMovie(ctx context.Context, movieID string) ([]Showtime, error) {
	var showtimes []Showtime

	url := fmt.Sprintf("%s/movies/%s/showtimes", c.baseURL, movieID)

	if err := c.getJSON(ctx, url, &showtimes); err != nil {
		c.logger.Warn("showtime lookup failed, serving sample data", "movie_id", movieID, "error", err)
		return c.sampleShowtimes(movieID), nil
	}

	return showtimes, nil
}

func (c *Client) getJSON(ctx context.Context, url string, dest any) error {
	if c.baseURL == "" {
		return fmt.Errorf("no catalog API configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from catalog API", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}

func (c *Client) sampleMovie(movieID string) (*Movie, error) {
	for _, movie := range c.sample.Movies {
		if movie.ID == movieID {
			return &movie, nil
		}
	}

	return nil, fmt.Errorf("movie %s: %w", movieID, domain.ErrRecordNotFound)
}

func (c *Client) sampleShowtimes(movieID string) []Showtime {
	var showtimes []Showtime

	for _, showtime := range c.sample.Showtimes {
		if showtime.MovieID == movieID {
			showtimes = append(showtimes, showtime)
		}
	}

	return showtimes
}
