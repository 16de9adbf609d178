package app

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cinemor/booking-api/api"
	"github.com/cinemor/booking-api/internal/domain"
)

func (app *application) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionId := app.sessionToken(r.Context())

	cart, err := app.cartRepo.Get(r.Context(), sessionId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toCartResponse(cart), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// PromoteSelection turns the reconciled seat selection into an admission
// bundle in the cart. Anonymous users get parked: the fully configured bundle
// waits out the login detour and is replayed afterwards.
func (app *application) PromoteSelection(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	sessionId := app.sessionToken(r.Context())

	selection, err := app.selectionRepo.Get(r.Context(), sessionId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if selection == nil || !selection.Tickets.Reconciled(len(selection.Seats)) {
		app.badRequestResponse(w, r, fmt.Errorf("select seats and allocate one ticket per seat before continuing"))
		return
	}

	draft, err := app.bookingRepo.Get(r.Context(), sessionId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	payload := domain.SeatPromotionPayload{
		Seats:        selection.Seats,
		TotalPrice:   selection.Tickets.TotalPrice(),
		Movie:        draft.Movie,
		Cinema:       draft.Cinema,
		Date:         draft.Date,
		Session:      draft.Session,
		ShowtimeID:   selection.ShowtimeID,
		TicketCounts: selection.Tickets,
	}

	if app.sessionUserID(r.Context()) == 0 {
		action := domain.PendingAction{
			Kind:     domain.PendingSeatPromotion,
			ReturnTo: "/cart",
			Seats:    &payload,
		}

		err = app.pendingRepo.Save(r.Context(), sessionId, &action)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		logger.Info("parked seat promotion pending login", "showtime_id", selection.ShowtimeID)
		app.authRequiredResponse(w, r)
		return
	}

	cart, err := app.cartRepo.Get(r.Context(), sessionId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	added := cart.AddMovie(payload.CartItem())

	err = app.cartRepo.Save(r.Context(), sessionId, cart)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	draft.ShowtimeID = selection.ShowtimeID
	draft.Seats = selection.Seats
	draft.Price = payload.TotalPrice

	err = app.bookingRepo.Save(r.Context(), sessionId, draft)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.notifyCartItemAdded(added)

	err = app.writeJSON(w, http.StatusOK, toCartResponse(cart), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) AddSnack(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	sessionId := app.sessionToken(r.Context())

	var input api.AddSnackRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if app.sessionUserID(r.Context()) == 0 {
		action := domain.PendingAction{
			Kind:     domain.PendingSnackAdd,
			ReturnTo: "/snacks",
			Snack: &domain.SnackPayload{
				ID:          input.Id,
				Name:        input.Name,
				Image:       input.Image,
				Description: input.Description,
				Price:       input.Price,
				Quantity:    input.Quantity,
			},
		}

		err = app.pendingRepo.Save(r.Context(), sessionId, &action)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		logger.Info("parked snack addition pending login", "snack", input.Name)
		app.authRequiredResponse(w, r)
		return
	}

	cart, err := app.cartRepo.Get(r.Context(), sessionId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	added := cart.AddSnack(domain.CartItem{
		ID:          input.Id,
		Name:        input.Name,
		Image:       input.Image,
		Description: input.Description,
		Price:       input.Price,
		Quantity:    input.Quantity,
	})

	err = app.cartRepo.Save(r.Context(), sessionId, cart)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.notifyCartItemAdded(added)

	err = app.writeJSON(w, http.StatusOK, toCartResponse(cart), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	sessionId := app.sessionToken(r.Context())
	itemID := chi.URLParam(r, "itemID")

	cart, err := app.cartRepo.Get(r.Context(), sessionId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	cart.RemoveItem(itemID)

	err = app.cartRepo.Save(r.Context(), sessionId, cart)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toCartResponse(cart), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) UpdateCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	sessionId := app.sessionToken(r.Context())
	itemID := chi.URLParam(r, "itemID")

	var input api.UpdateQuantityRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	cart, err := app.cartRepo.Get(r.Context(), sessionId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	cart.UpdateQuantity(itemID, input.Quantity)

	err = app.cartRepo.Save(r.Context(), sessionId, cart)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toCartResponse(cart), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionId := app.sessionToken(r.Context())

	err := app.cartRepo.Delete(r.Context(), sessionId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toCartResponse(cart *domain.Cart) api.CartResponse {
	items := make([]api.CartItem, 0, len(cart.Items))

	for _, item := range cart.Items {
		items = append(items, api.CartItem{
			Id:          item.ID,
			Type:        string(item.Type),
			Price:       item.Price,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal(),
			Image:       item.Image,
			MovieId:     item.MovieID,
			MovieTitle:  item.MovieTitle,
			CinemaName:  item.CinemaName,
			ShowDate:    item.ShowDate,
			ShowTime:    item.ShowTime,
			ShowtimeId:  item.ShowtimeID,
			Seats:       item.Seats,
			Name:        item.Name,
			Description: item.Description,
		})
	}

	return api.CartResponse{
		Items:      items,
		TotalPrice: cart.TotalPrice(),
		TotalItems: cart.TotalItems(),
	}
}
