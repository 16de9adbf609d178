package app

import (
	"context"
	"net/http"
)

type sessionKey string

const (
	SessionKeyUserId = sessionKey("userID")
	SessionKeyGuest  = sessionKey("guest")
	SessionKeyCinema = sessionKey("cinema")
)

func (s sessionKey) String() string {
	return string(s)
}

func (app *application) contextGetUserId(r *http.Request) int {
	userId, ok := r.Context().Value(SessionKeyUserId).(int)
	if !ok {
		panic("missing user id from context")
	}

	return userId
}

// sessionUserID returns the logged-in user's id, or zero for guests.
func (app *application) sessionUserID(ctx context.Context) int {
	return app.sessionManager.GetInt(ctx, SessionKeyUserId.String())
}

// sessionToken returns the scs token keying all per-session state in Redis.
func (app *application) sessionToken(ctx context.Context) string {
	return app.sessionManager.Token(ctx)
}

// migrateSessionData moves the booking draft, cart, parked action and seat
// selection to the renewed session token so nothing in progress is lost when
// a guest logs in.
func (app *application) migrateSessionData(ctx context.Context, oldSessionId, newSessionId string) error {
	if oldSessionId == "" || oldSessionId == newSessionId {
		return nil
	}

	if err := app.bookingRepo.Rename(ctx, oldSessionId, newSessionId); err != nil {
		return err
	}
	if err := app.cartRepo.Rename(ctx, oldSessionId, newSessionId); err != nil {
		return err
	}
	if err := app.pendingRepo.Rename(ctx, oldSessionId, newSessionId); err != nil {
		return err
	}
	if err := app.selectionRepo.Rename(ctx, oldSessionId, newSessionId); err != nil {
		return err
	}

	return nil
}
