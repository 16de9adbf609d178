package app

import (
	"context"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/cinemor/booking-api/api"
	"github.com/cinemor/booking-api/internal/domain"
	"github.com/cinemor/booking-api/internal/mocks"
	"github.com/cinemor/booking-api/internal/validator"
)

var orderTicketCodeRgx = regexp.MustCompile(`^CINEMOR-\d+-[0-9A-Z]{7}$`)

func validCheckoutRequest() api.CheckoutRequest {
	return api.CheckoutRequest{
		CardNumber:     "4111 1111 1111 1111",
		ExpiryDate:     "12/99",
		CVV:            "123",
		CardholderName: "Jane Doe",
	}
}

type CheckoutTestSuite struct {
	suite.Suite
	app       *application
	carts     *mocks.MemoryCartRepo
	drafts    *mocks.MemoryBookingRepo
	orders    *mocks.MemoryOrderRepo
	purchases *mocks.MockPurchaseAPI
	lock      *mocks.MemoryCheckoutLock
}

func (s *CheckoutTestSuite) SetupTest() {
	s.carts = mocks.NewMemoryCartRepo()
	s.drafts = mocks.NewMemoryBookingRepo()
	s.orders = mocks.NewMemoryOrderRepo()
	s.purchases = &mocks.MockPurchaseAPI{}
	s.lock = mocks.NewMemoryCheckoutLock()

	userRepo := &mocks.MockUserRepo{
		GetByIdFunc: func(ctx context.Context, id int) (*domain.User, error) {
			return &domain.User{ID: id, Name: "Jane Doe", Email: "jane@example.com"}, nil
		},
	}

	s.app = newTestApplication(func(a *application) {
		a.cartRepo = s.carts
		a.bookingRepo = s.drafts
		a.orderRepo = s.orders
		a.purchaseAPI = s.purchases
		a.checkoutLock = s.lock
		a.userRepo = userRepo
	})
}

func TestCheckoutSuite(t *testing.T) {
	suite.Run(t, new(CheckoutTestSuite))
}

func (s *CheckoutTestSuite) seedMovieCart(ctx context.Context, token string) {
	cart := &domain.Cart{}
	cart.AddMovie(domain.CartItem{
		MovieID:    "42",
		MovieTitle: "Sternenlicht",
		CinemaName: "CinemoR City",
		ShowDate:   "2026-03-01",
		ShowTime:   "20:00",
		ShowtimeID: "st-102",
		Seats:      []string{"A1", "A2"},
		Price:      decimal.NewFromInt(24),
	})

	s.carts.Save(ctx, token, cart)
}

func (s *CheckoutTestSuite) TestCheckout_PaymentValidation() {
	tests := []struct {
		name      string
		mutate    func(*api.CheckoutRequest)
		wantIssue string
	}{
		{
			name:      "card number too short after stripping spaces",
			mutate:    func(in *api.CheckoutRequest) { in.CardNumber = "4111 1111 1111 111" },
			wantIssue: validator.ErrCardNumber,
		},
		{
			name:      "card number with letters",
			mutate:    func(in *api.CheckoutRequest) { in.CardNumber = "4111 1111 1111 111a" },
			wantIssue: validator.ErrCardNumber,
		},
		{
			name:      "expiry month out of range",
			mutate:    func(in *api.CheckoutRequest) { in.ExpiryDate = "13/30" },
			wantIssue: validator.ErrCardExpiry,
		},
		{
			name:      "expiry year in the past",
			mutate:    func(in *api.CheckoutRequest) { in.ExpiryDate = "01/20" },
			wantIssue: validator.ErrCardExpiry,
		},
		{
			name:      "cvv too short",
			mutate:    func(in *api.CheckoutRequest) { in.CVV = "12" },
			wantIssue: validator.ErrCVV,
		},
		{
			name:      "cvv too long",
			mutate:    func(in *api.CheckoutRequest) { in.CVV = "1234" },
			wantIssue: validator.ErrCVV,
		},
		{
			name:      "cardholder single letter",
			mutate:    func(in *api.CheckoutRequest) { in.CardholderName = "X" },
			wantIssue: validator.ErrCardholder,
		},
		{
			name:      "cardholder with digits",
			mutate:    func(in *api.CheckoutRequest) { in.CardholderName = "Jane D03" },
			wantIssue: validator.ErrCardholder,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			input := validCheckoutRequest()
			tt.mutate(&input)

			w, r := executeRequest(s.T(), http.MethodPost, "/checkout", input)
			r = setupUserSession(s.T(), s.app, r, 7)

			s.app.Checkout(w, r)

			s.Equal(http.StatusUnprocessableEntity, w.Code)
			checkValidationError(s.T(), w, tt.wantIssue)
		})
	}
}

func (s *CheckoutTestSuite) TestCheckout_AcceptsInternationalCardholder() {
	input := validCheckoutRequest()
	input.CardholderName = "Jürgen Müller"

	w, r := executeRequest(s.T(), http.MethodPost, "/checkout", input)
	r = setupUserSession(s.T(), s.app, r, 7)

	token := s.app.sessionToken(r.Context())
	s.seedMovieCart(r.Context(), token)

	s.app.Checkout(w, r)

	s.Equal(http.StatusCreated, w.Code)
}

func (s *CheckoutTestSuite) TestCheckout_NothingToCheckOut() {
	w, r := executeRequest(s.T(), http.MethodPost, "/checkout", validCheckoutRequest())
	r = setupUserSession(s.T(), s.app, r, 7)

	s.app.Checkout(w, r)

	s.Equal(http.StatusConflict, w.Code)
}

func (s *CheckoutTestSuite) TestCheckout_RejectsConcurrentSubmission() {
	w, r := executeRequest(s.T(), http.MethodPost, "/checkout", validCheckoutRequest())
	r = setupUserSession(s.T(), s.app, r, 7)

	token := s.app.sessionToken(r.Context())
	s.seedMovieCart(r.Context(), token)

	acquired, err := s.lock.Acquire(r.Context(), token)
	s.Require().NoError(err)
	s.Require().True(acquired)

	s.app.Checkout(w, r)

	s.Equal(http.StatusConflict, w.Code)
}

func (s *CheckoutTestSuite) TestCheckout_CompletesOrder() {
	w, r := executeRequest(s.T(), http.MethodPost, "/checkout", validCheckoutRequest())
	r = setupUserSession(s.T(), s.app, r, 7)

	token := s.app.sessionToken(r.Context())
	s.seedMovieCart(r.Context(), token)

	cart, _ := s.carts.Get(r.Context(), token)
	cart.AddSnack(domain.CartItem{ID: "snack-popcorn", Name: "Popcorn", Price: decimal.NewFromFloat(6.50), Quantity: 2})
	s.carts.Save(r.Context(), token, cart)

	s.drafts.Save(r.Context(), token, &domain.BookingDraft{
		Movie:      &domain.MovieRef{ID: "42", Title: "Sternenlicht"},
		Cinema:     "CinemoR City",
		Date:       "2026-03-01",
		Session:    "20:00",
		ShowtimeID: "st-102",
		Seats:      []string{"A1", "A2"},
		Price:      decimal.NewFromInt(24),
	})

	s.app.Checkout(w, r)

	s.Require().Equal(http.StatusCreated, w.Code)

	resp := decodeResponse[api.CheckoutResponse](s.T(), w)

	s.Regexp(orderTicketCodeRgx, resp.Order.TicketCode)
	s.Len(resp.Order.Items, 2)
	s.Equal("37", resp.Order.TotalPrice.String())

	// verification token round-trips through the domain decoder
	details, err := domain.DecodeVerificationToken(resp.VerifyToken)
	s.Require().NoError(err)
	s.Equal(resp.Order.TicketCode, details.TicketCode)
	s.Equal("Sternenlicht", details.Movie)
	s.Equal("Reihe A, Plätze 1–2", details.Seats)
	s.Contains(resp.VerifyUrl, "https://cinemor.example.com/ticket/verify?d=")

	// purchase forwarded for the single admission bundle, unsuffixed code
	s.Require().Len(s.purchases.Submitted, 1)
	s.Equal(resp.Order.TicketCode, s.purchases.Submitted[0].TicketCode)
	s.Equal([]string{"A1", "A2"}, s.purchases.Submitted[0].Seats)

	// order appended to the buyer's history
	orders, _ := s.orders.ListByUser(r.Context(), "7")
	s.Require().Len(orders, 1)
	s.Equal(resp.Order.TicketCode, orders[0].TicketCode)

	// shopping state retired
	s.Empty(s.carts.Carts)
	draft, _ := s.drafts.Get(r.Context(), token)
	s.False(draft.HasShowtimeSelection())

	// lock released, a new checkout may start
	acquired, _ := s.lock.Acquire(r.Context(), token)
	s.True(acquired)
}

func (s *CheckoutTestSuite) TestCheckout_MultipleBundlesGetOrdinalCodes() {
	w, r := executeRequest(s.T(), http.MethodPost, "/checkout", validCheckoutRequest())
	r = setupUserSession(s.T(), s.app, r, 7)

	token := s.app.sessionToken(r.Context())

	cart := &domain.Cart{}
	cart.AddMovie(domain.CartItem{MovieID: "1", ShowtimeID: "st-101", MovieTitle: "Demo-Film", Seats: []string{"A1"}, Price: decimal.NewFromInt(12)})
	cart.AddMovie(domain.CartItem{MovieID: "2", ShowtimeID: "st-201", MovieTitle: "Sternenlicht", Seats: []string{"B1"}, Price: decimal.NewFromInt(12)})
	s.carts.Save(r.Context(), token, cart)

	s.app.Checkout(w, r)

	s.Require().Equal(http.StatusCreated, w.Code)

	resp := decodeResponse[api.CheckoutResponse](s.T(), w)

	s.Require().Len(s.purchases.Submitted, 2)
	s.Equal(resp.Order.TicketCode+"-1", s.purchases.Submitted[0].TicketCode)
	s.Equal(resp.Order.TicketCode+"-2", s.purchases.Submitted[1].TicketCode)
}

func (s *CheckoutTestSuite) TestCheckout_GuestDraftOnly() {
	w, r := executeRequest(s.T(), http.MethodPost, "/checkout", validCheckoutRequest())
	r = setupGuestSession(s.T(), s.app, r)

	token := s.app.sessionToken(r.Context())

	s.drafts.Save(r.Context(), token, &domain.BookingDraft{
		Movie:      &domain.MovieRef{ID: "42", Title: "Sternenlicht"},
		Cinema:     "CinemoR City",
		Date:       "2026-03-01",
		Session:    "20:00",
		ShowtimeID: "st-102",
		Seats:      []string{"A1", "A2"},
		Price:      decimal.NewFromInt(24),
	})

	s.app.Checkout(w, r)

	s.Require().Equal(http.StatusCreated, w.Code)

	resp := decodeResponse[api.CheckoutResponse](s.T(), w)

	s.Require().Len(resp.Order.Items, 1)
	s.Equal("Sternenlicht", resp.Order.Items[0].Title)
	s.Equal("24", resp.Order.TotalPrice.String())

	// guests get no history entry and no remote submission
	s.Empty(s.orders.Orders)
	s.Empty(s.purchases.Submitted)
}

func (s *CheckoutTestSuite) TestCheckout_PurchaseFailureDoesNotBlockOrder() {
	s.purchases.Err = context.DeadlineExceeded

	w, r := executeRequest(s.T(), http.MethodPost, "/checkout", validCheckoutRequest())
	r = setupUserSession(s.T(), s.app, r, 7)

	token := s.app.sessionToken(r.Context())
	s.seedMovieCart(r.Context(), token)

	s.app.Checkout(w, r)

	s.Equal(http.StatusCreated, w.Code)

	orders, _ := s.orders.ListByUser(r.Context(), "7")
	s.Len(orders, 1)
}

func (s *CheckoutTestSuite) TestOrderTimestamps() {
	w, r := executeRequest(s.T(), http.MethodPost, "/checkout", validCheckoutRequest())
	r = setupUserSession(s.T(), s.app, r, 7)

	token := s.app.sessionToken(r.Context())
	s.seedMovieCart(r.Context(), token)

	before := time.Now()
	s.app.Checkout(w, r)

	s.Require().Equal(http.StatusCreated, w.Code)

	resp := decodeResponse[api.CheckoutResponse](s.T(), w)
	s.False(resp.Order.CreatedAt.Before(before.Add(-time.Second)))
}
