package app

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cinemor/booking-api/api"
	"github.com/cinemor/booking-api/internal/domain"
)

func (app *application) Checkout(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	sessionId := app.sessionToken(r.Context())

	var input api.CheckoutRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// The card is validated but never charged or stored. Payment is simulated
	// end to end.
	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	cart, err := app.cartRepo.Get(r.Context(), sessionId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	draft, err := app.bookingRepo.Get(r.Context(), sessionId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(cart.Items) == 0 && !draft.HasShowtimeSelection() {
		app.errorResponse(w, r, http.StatusConflict, "There is nothing to check out")
		return
	}

	acquired, err := app.checkoutLock.Acquire(r.Context(), sessionId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if !acquired {
		app.checkoutInFlightResponse(w, r)
		return
	}

	defer func() {
		if err := app.checkoutLock.Release(r.Context(), sessionId); err != nil {
			logger.Error("failed to release checkout lock", "error", err)
		}
	}()

	now := time.Now()
	baseCode := domain.NewTicketCode(now)

	order := buildOrder(baseCode, now, cart, draft)

	userId := app.sessionUserID(r.Context())
	if userId != 0 {
		user, err := app.userRepo.GetById(r.Context(), userId)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		app.submitPurchases(r, user, baseCode, cart, draft)

		err = app.orderRepo.Append(r.Context(), user.OrderHistoryKey(), order)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
	}

	token, verifyURL, err := app.verificationArtifacts(order, cart, draft)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	// The purchase is committed, now retire the session's shopping state.
	if err := app.cartRepo.Delete(r.Context(), sessionId); err != nil {
		logger.Error("failed to clear cart after checkout", "error", err)
	}
	if err := app.selectionRepo.Delete(r.Context(), sessionId); err != nil {
		logger.Error("failed to clear seat selection after checkout", "error", err)
	}
	if err := app.bookingRepo.Delete(r.Context(), sessionId); err != nil {
		logger.Error("failed to clear booking draft after checkout", "error", err)
	}
	app.sessionManager.Remove(r.Context(), SessionKeyCinema.String())

	resp := api.CheckoutResponse{
		Order:       toOrderResponse(order),
		VerifyToken: token,
		VerifyUrl:   verifyURL,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// buildOrder snapshots the cart into an immutable order. A draft-only
// checkout (seats confirmed, nothing else in the cart) synthesizes the
// admission bundle from the draft.
func buildOrder(baseCode string, now time.Time, cart *domain.Cart, draft *domain.BookingDraft) domain.Order {
	items := cart.Items

	if len(items) == 0 {
		items = []domain.CartItem{draftCartItem(draft)}
	}

	orderItems := make([]domain.OrderItem, 0, len(items))
	total := decimal.Zero

	for _, item := range items {
		orderItems = append(orderItems, domain.NewOrderItem(item))
		total = total.Add(item.LineTotal())
	}

	return domain.Order{
		TicketCode: baseCode,
		Items:      orderItems,
		TotalPrice: total,
		CreatedAt:  now,
	}
}

func draftCartItem(draft *domain.BookingDraft) domain.CartItem {
	item := domain.CartItem{
		CinemaName: draft.Cinema,
		ShowDate:   draft.Date,
		ShowTime:   draft.Session,
		ShowtimeID: draft.ShowtimeID,
		Seats:      draft.Seats,
		Price:      draft.Price,
	}

	if draft.Movie != nil {
		item.MovieID = draft.Movie.ID
		item.MovieTitle = draft.Movie.Title
		item.Image = draft.Movie.PosterURL
	}

	item.ID = domain.MovieCartItemID(item.MovieID, item.ShowtimeID)
	item.Type = domain.CartItemMovie

	return item
}

// submitPurchases forwards each admission bundle to the remote ticket API.
// Submission is best-effort: failures are logged and the checkout proceeds on
// the locally persisted order.
func (app *application) submitPurchases(r *http.Request, user *domain.User, baseCode string, cart *domain.Cart, draft *domain.BookingDraft) {
	logger := app.contextGetLogger(r)

	bearer, err := app.newBearerToken(user)
	if err != nil {
		logger.Error("failed to issue bearer token for purchase submission", "error", err)
		return
	}

	bundles := cart.MovieItems()
	if len(bundles) == 0 && draft.HasShowtimeSelection() {
		bundles = []domain.CartItem{draftCartItem(draft)}
	}

	for i, bundle := range bundles {
		code := baseCode
		if len(bundles) > 1 {
			code = domain.OrdinalTicketCode(baseCode, i+1)
		}

		purchase := domain.Purchase{
			MovieTitle: bundle.MovieTitle,
			MovieID:    bundle.MovieID,
			CinemaName: bundle.CinemaName,
			ShowDate:   bundle.ShowDate,
			ShowTime:   bundle.ShowTime,
			Seats:      bundle.Seats,
			Price:      bundle.Price,
			TicketCode: code,
		}

		err := app.purchaseAPI.SubmitPurchase(r.Context(), bearer, purchase)
		if err != nil {
			logger.Warn("ticket purchase submission failed", "ticket_code", code, "error", err)
		}
	}
}

// verificationArtifacts encodes the printable ticket token and the QR link
// for the checkout confirmation.
func (app *application) verificationArtifacts(order domain.Order, cart *domain.Cart, draft *domain.BookingDraft) (string, string, error) {
	details := domain.TicketDetails{
		TicketCode: order.TicketCode,
		Price:      &order.TotalPrice,
	}

	bundles := cart.MovieItems()
	if len(bundles) == 0 && draft.HasShowtimeSelection() {
		bundles = []domain.CartItem{draftCartItem(draft)}
	}

	if len(bundles) > 0 {
		first := bundles[0]
		details.Movie = first.MovieTitle
		details.Date = first.ShowDate
		details.StartTime = first.ShowTime
		details.Venue = first.CinemaName
		details.Seats = domain.FormatSeatList(first.Seats)
	}

	token, err := domain.EncodeVerificationToken(details)
	if err != nil {
		return "", "", err
	}

	verifyURL := fmt.Sprintf("%s?d=%s", app.config.verifyBaseURL, url.QueryEscape(token))

	return token, verifyURL, nil
}

func toOrderResponse(order domain.Order) api.OrderResponse {
	items := make([]api.OrderItem, 0, len(order.Items))

	for _, item := range order.Items {
		items = append(items, api.OrderItem{
			Type:        string(item.Type),
			Title:       item.Title,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Description: item.Description,
			CinemaName:  item.CinemaName,
			ShowDate:    item.ShowDate,
			ShowTime:    item.ShowTime,
			Seats:       item.Seats,
		})
	}

	return api.OrderResponse{
		TicketCode: order.TicketCode,
		Items:      items,
		TotalPrice: order.TotalPrice,
		CreatedAt:  order.CreatedAt,
	}
}
