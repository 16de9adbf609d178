package app

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/cinemor/booking-api/api"
	"github.com/cinemor/booking-api/internal/domain"
	"github.com/cinemor/booking-api/internal/mocks"
)

type BookingTestSuite struct {
	suite.Suite
	app    *application
	drafts *mocks.MemoryBookingRepo
}

func (s *BookingTestSuite) SetupTest() {
	s.drafts = mocks.NewMemoryBookingRepo()

	s.app = newTestApplication(func(a *application) {
		a.bookingRepo = s.drafts
	})
}

func TestBookingSuite(t *testing.T) {
	suite.Run(t, new(BookingTestSuite))
}

func (s *BookingTestSuite) TestGetBooking_EmptyDraft() {
	w, r := executeRequest(s.T(), http.MethodGet, "/booking", nil)
	r = setupGuestSession(s.T(), s.app, r)

	s.app.GetBooking(w, r)

	s.Equal(http.StatusOK, w.Code)

	resp := decodeResponse[api.BookingResponse](s.T(), w)
	s.Nil(resp.Movie)
	s.Empty(resp.Cinema)
	s.Empty(resp.Seats)
}

func (s *BookingTestSuite) TestUpdateBooking_BuildsDraftStepByStep() {
	w, r := executeRequest(s.T(), http.MethodPatch, "/booking", api.UpdateBookingRequest{
		Movie:  &api.MovieRef{Id: "42", Title: "Sternenlicht"},
		Cinema: ptr("CinemoR City"),
	})
	r = setupGuestSession(s.T(), s.app, r)

	s.app.UpdateBooking(w, r)
	s.Equal(http.StatusOK, w.Code)

	w2, r2 := executeRequest(s.T(), http.MethodPatch, "/booking", api.UpdateBookingRequest{
		Date:       ptr("2026-03-01"),
		Session:    ptr("20:00"),
		ShowtimeId: ptr("st-102"),
	})
	r2 = r2.WithContext(r.Context())

	s.app.UpdateBooking(w2, r2)
	s.Equal(http.StatusOK, w2.Code)

	resp := decodeResponse[api.BookingResponse](s.T(), w2)

	s.Require().NotNil(resp.Movie)
	s.Equal("Sternenlicht", resp.Movie.Title)
	s.Equal("CinemoR City", resp.Cinema)
	s.Equal("2026-03-01", resp.Date)
	s.Equal("20:00", resp.Session)
	s.Equal("st-102", resp.ShowtimeId)
}

func (s *BookingTestSuite) TestUpdateBooking_CinemaChangeVoidsSlot() {
	w, r := executeRequest(s.T(), http.MethodPatch, "/booking", api.UpdateBookingRequest{
		Cinema: ptr("CinemoR Arcaden"),
	})
	r = setupGuestSession(s.T(), s.app, r)

	token := s.app.sessionToken(r.Context())
	s.drafts.Save(r.Context(), token, &domain.BookingDraft{
		Movie:      &domain.MovieRef{ID: "42", Title: "Sternenlicht"},
		Cinema:     "CinemoR City",
		Date:       "2026-03-01",
		Session:    "20:00",
		ShowtimeID: "st-102",
	})

	s.app.UpdateBooking(w, r)
	s.Equal(http.StatusOK, w.Code)

	resp := decodeResponse[api.BookingResponse](s.T(), w)

	s.Equal("CinemoR Arcaden", resp.Cinema)
	s.Empty(resp.Date)
	s.Empty(resp.Session)
	s.Empty(resp.ShowtimeId)
	s.NotNil(resp.Movie, "the movie choice survives a venue change")
}

func (s *BookingTestSuite) TestUpdateBooking_SameCinemaKeepsSlot() {
	w, r := executeRequest(s.T(), http.MethodPatch, "/booking", api.UpdateBookingRequest{
		Cinema: ptr("CinemoR City"),
	})
	r = setupGuestSession(s.T(), s.app, r)

	token := s.app.sessionToken(r.Context())
	s.drafts.Save(r.Context(), token, &domain.BookingDraft{
		Cinema:     "CinemoR City",
		Date:       "2026-03-01",
		Session:    "20:00",
		ShowtimeID: "st-102",
	})

	s.app.UpdateBooking(w, r)
	s.Equal(http.StatusOK, w.Code)

	resp := decodeResponse[api.BookingResponse](s.T(), w)

	s.Equal("2026-03-01", resp.Date)
	s.Equal("20:00", resp.Session)
	s.Equal("st-102", resp.ShowtimeId)
}
