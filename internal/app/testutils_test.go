package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/cinemor/booking-api/api"
	"github.com/cinemor/booking-api/internal/domain"
	"github.com/cinemor/booking-api/internal/mocks"
	"github.com/cinemor/booking-api/internal/validator"
)

func newTestApplication(opts ...func(*application)) *application {
	app := &application{
		validator:      validator.NewValidator(),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		sessionManager: scs.New(),
		userRepo:       &mocks.MockUserRepo{},
		bookingRepo:    mocks.NewMemoryBookingRepo(),
		cartRepo:       mocks.NewMemoryCartRepo(),
		pendingRepo:    mocks.NewMemoryPendingActionRepo(),
		selectionRepo:  mocks.NewMemorySeatSelectionRepo(),
		orderRepo:      mocks.NewMemoryOrderRepo(),
		checkoutLock:   mocks.NewMemoryCheckoutLock(),
		occupancy:      domain.StaticOccupancy{},
		purchaseAPI:    &mocks.MockPurchaseAPI{},
	}

	app.config.env = "test"
	app.config.verifyBaseURL = "https://cinemor.example.com/ticket/verify"
	app.config.jwt.secret = "test-secret"
	app.config.jwt.ttl = time.Hour

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// setupGuestSession commits a fresh guest session so the request carries a
// real session token, like ensureGuestUserSession does in production.
func setupGuestSession(t *testing.T, app *application, r *http.Request) *http.Request {
	t.Helper()

	ctx, err := app.sessionManager.Load(r.Context(), "")
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}

	app.sessionManager.Put(ctx, SessionKeyGuest.String(), true)

	_, _, err = app.sessionManager.Commit(ctx)
	if err != nil {
		t.Fatalf("Failed to commit session: %v", err)
	}

	return r.WithContext(ctx)
}

func setupUserSession(t *testing.T, app *application, r *http.Request, userId int) *http.Request {
	t.Helper()

	r = setupGuestSession(t, app, r)
	app.sessionManager.Put(r.Context(), SessionKeyUserId.String(), userId)

	return r
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()

	jsonData, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest(method, url, bytes.NewReader(jsonData))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()

	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var resp T
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	return resp
}

func checkValidationError(t *testing.T, w *httptest.ResponseRecorder, wantIssue string) {
	t.Helper()

	resp := decodeResponse[api.ValidationErrorResponse](t, w)

	for _, vErr := range resp.ValidationErrors {
		if vErr.Issue == wantIssue {
			return
		}
	}

	t.Errorf("Expected validation error message '%s' not found in response", wantIssue)
}

func ptr[T any](v T) *T {
	return &v
}
