package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cinemor/booking-api/api"
	"github.com/cinemor/booking-api/internal/domain"
)

func (app *application) RegisterUser(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.RegisterRequest

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

	user := domain.User{
		Name:  input.Name,
		Email: input.Email,
	}

	err = user.Password.Set(input.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.userRepo.Create(r.Context(), &user)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			logger.Warn("registration attempt for existing email")
			// do not return the info of existence of email to avoid user enumeration attacks
			app.badRequestResponse(w, r, fmt.Errorf("invalid input data"))
		default:
			logger.Error("failed to create user", "error", err)
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.UserResponse{
		Id:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) Login(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	if userId := app.sessionUserID(r.Context()); userId != 0 {
		app.respondLoggedIn(w, r, userId)
		return
	}

	var input api.LoginRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// A failed login leaves any parked action in place, so the user can retry
	// without losing the selection that sent them here.
	err = app.validator.Struct(input)
	if err != nil {
		logger.Warn("login validation failed")
		app.invalidCredentialsResponse(w, r)
		return
	}

	user, err := app.userRepo.GetByEmail(r.Context(), input.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			logger.Warn("login attempt for non-existent user")
			app.invalidCredentialsResponse(w, r)
		default:
			logger.Error("failed to get user by email during login", "error", err)
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	match, err := user.Password.Matches(input.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if !match {
		logger.Warn("login failed due to incorrect password")
		app.invalidCredentialsResponse(w, r)
		return
	}

	oldSessionId := app.sessionManager.Token(r.Context())

	// To help prevent session fixation attacks we should renew the session token after any privilege level change.
	// https://github.com/OWASP/CheatSheetSeries/blob/master/cheatsheets/Session_Management_Cheat_Sheet.md#renew-the-session-id-after-any-privilege-level-change
	err = app.sessionManager.RenewToken(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	newSessionId := app.sessionManager.Token(r.Context())
	err = app.migrateSessionData(r.Context(), oldSessionId, newSessionId)
	if err != nil {
		logger.Error(
			"failed to migrate session data",
			"error", err,
			"oldSessionId", oldSessionId,
			"newSessionId", newSessionId,
		)
	}

	app.sessionManager.Put(r.Context(), SessionKeyUserId.String(), user.ID)

	token, err := app.newBearerToken(user)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resumed, err := app.resumePendingAction(r.Context(), newSessionId)
	if err != nil {
		logger.Error("failed to resume parked action after login", "error", err)
	}

	resp := api.LoginResponse{
		Token: token,
		User: api.UserResponse{
			Id:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
		Resumed: resumed,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) Logout(w http.ResponseWriter, r *http.Request) {
	userId := app.sessionUserID(r.Context())
	if userId == 0 {
		app.notFoundResponse(w, r)
		return
	}

	app.sessionManager.Destroy(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) respondLoggedIn(w http.ResponseWriter, r *http.Request, userId int) {
	user, err := app.userRepo.GetById(r.Context(), userId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	token, err := app.newBearerToken(user)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.LoginResponse{
		Token: token,
		User: api.UserResponse{
			Id:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// resumePendingAction replays the action that was interrupted by the login
// detour: the snack or admission bundle lands in the cart exactly as the user
// configured it before authenticating.
func (app *application) resumePendingAction(ctx context.Context, sessionId string) (*api.ResumedAction, error) {
	action, err := app.pendingRepo.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, nil
	}

	cart, err := app.cartRepo.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	var (
		added      domain.CartItem
		redirectTo string
	)

	switch action.Kind {
	case domain.PendingSnackAdd:
		if action.Snack == nil {
			return nil, app.pendingRepo.Delete(ctx, sessionId)
		}

		added = cart.AddSnack(action.Snack.CartItem())
		redirectTo = "/snacks"

	case domain.PendingSeatPromotion:
		if action.Seats == nil {
			return nil, app.pendingRepo.Delete(ctx, sessionId)
		}

		added = cart.AddMovie(action.Seats.CartItem())
		redirectTo = "/cart"

		draft, err := app.bookingRepo.Get(ctx, sessionId)
		if err != nil {
			return nil, err
		}

		draft.Movie = action.Seats.Movie
		draft.Cinema = action.Seats.Cinema
		draft.Date = action.Seats.Date
		draft.Session = action.Seats.Session
		draft.ShowtimeID = action.Seats.ShowtimeID
		draft.Seats = action.Seats.Seats
		draft.Price = action.Seats.TotalPrice

		err = app.bookingRepo.Save(ctx, sessionId, draft)
		if err != nil {
			return nil, err
		}

	default:
		return nil, app.pendingRepo.Delete(ctx, sessionId)
	}

	err = app.cartRepo.Save(ctx, sessionId, cart)
	if err != nil {
		return nil, err
	}

	err = app.pendingRepo.Delete(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	app.notifyCartItemAdded(added)

	if action.ReturnTo != "" {
		redirectTo = action.ReturnTo
	}

	return &api.ResumedAction{
		Kind:       string(action.Kind),
		RedirectTo: redirectTo,
	}, nil
}

func (app *application) newBearerToken(user *domain.User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub":   strconv.Itoa(user.ID),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(app.config.jwt.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(app.config.jwt.secret))
}
