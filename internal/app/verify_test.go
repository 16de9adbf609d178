package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cinemor/booking-api/api"
	"github.com/cinemor/booking-api/internal/domain"
)

func TestVerifyTicket(t *testing.T) {
	app := newTestApplication()

	price := decimal.NewFromInt(24)
	token, err := domain.EncodeVerificationToken(domain.TicketDetails{
		TicketCode: "CINEMOR-1756380000000-ABC1234",
		Movie:      "Sternenlicht",
		Date:       "2026-03-01",
		StartTime:  "20:00",
		Venue:      "CinemoR City",
		Seats:      "Reihe A, Plätze 1–2",
		Price:      &price,
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		token     string
		wantValid bool
	}{
		{
			name:      "valid token",
			token:     token,
			wantValid: true,
		},
		{
			name:      "missing token",
			token:     "",
			wantValid: false,
		},
		{
			name:      "not base64",
			token:     "%%%not-base64%%%",
			wantValid: false,
		},
		{
			name:      "base64 but not json",
			token:     "bm90IGpzb24=",
			wantValid: false,
		},
		{
			name:      "json without ticket code",
			token:     "eyJmaWxtIjoiRGVtby1GaWxtIn0=",
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/tickets/verify", nil)

			q := r.URL.Query()
			q.Set("d", tt.token)
			r.URL.RawQuery = q.Encode()

			w := httptest.NewRecorder()

			app.VerifyTicket(w, r)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
			}

			resp := decodeResponse[api.VerifyTicketResponse](t, w)

			if resp.Valid != tt.wantValid {
				t.Errorf("valid = %v, want %v", resp.Valid, tt.wantValid)
			}

			if tt.wantValid {
				if resp.Ticket == nil {
					t.Fatal("expected ticket details in response")
				}
				if resp.Ticket.Movie != "Sternenlicht" {
					t.Errorf("movie = %q, want %q", resp.Ticket.Movie, "Sternenlicht")
				}
			} else if resp.Message == "" {
				t.Error("expected a message for invalid tickets")
			}
		})
	}
}

func TestVerifyTicketByCode(t *testing.T) {
	app := newTestApplication()

	tests := []struct {
		name      string
		code      string
		wantValid bool
	}{
		{
			name:      "well-formed code",
			code:      "CINEMOR-1756380000000-ABC1234",
			wantValid: true,
		},
		{
			name:      "well-formed code with bundle ordinal",
			code:      "CINEMOR-1756380000000-ABC1234-2",
			wantValid: true,
		},
		{
			name:      "wrong prefix",
			code:      "TICKET-1756380000000-ABC1234",
			wantValid: false,
		},
		{
			name:      "suffix too short",
			code:      "CINEMOR-1756380000000-ABC",
			wantValid: false,
		},
		{
			name:      "lowercase suffix",
			code:      "CINEMOR-1756380000000-abc1234",
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/tickets/verify/"+tt.code, nil)
			r = withURLParams(r, map[string]string{"code": tt.code})
			w := httptest.NewRecorder()

			app.VerifyTicketByCode(w, r)

			resp := decodeResponse[api.VerifyTicketResponse](t, w)

			if resp.Valid != tt.wantValid {
				t.Errorf("valid = %v, want %v", resp.Valid, tt.wantValid)
			}
		})
	}
}
