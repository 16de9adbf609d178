package app

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/cinemor/booking-api/api"
	"github.com/cinemor/booking-api/internal/domain"
)

var ticketCodeRgx = regexp.MustCompile(`^CINEMOR-\d+-[0-9A-Z]{7}(-\d+)?$`)

// VerifyTicket decodes the QR token from the "d" query parameter. The token
// is unsigned, so this is a readability check for the door display, not an
// authenticity proof.
func (app *application) VerifyTicket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("d")

	details, err := domain.DecodeVerificationToken(token)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidTicket) {
			app.serverErrorResponse(w, r, err)
			return
		}

		resp := api.VerifyTicketResponse{
			Valid:   false,
			Message: "Ticket is invalid or unreadable",
		}

		if err := app.writeJSON(w, http.StatusOK, resp, nil); err != nil {
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.VerifyTicketResponse{
		Valid:  true,
		Ticket: &details,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// VerifyTicketByCode checks a bare ticket code against the issued format.
func (app *application) VerifyTicketByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	resp := api.VerifyTicketResponse{}

	if ticketCodeRgx.MatchString(code) {
		resp.Valid = true
		resp.Ticket = &domain.TicketDetails{TicketCode: code}
	} else {
		resp.Message = "Ticket is invalid or unreadable"
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
