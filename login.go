package main

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// LoginFlow validates credentials, stores the session token, fetches the
// user type and routes to the matching menu.
//
//	Idle → Submitting → AwaitingUserType → Routed
//	Idle → Submitting → Failed → Idle
type LoginFlow struct {
	flow
	api   Poster
	store SessionStore
}

func NewLoginFlow(api Poster, store SessionStore, screen Screen) *LoginFlow {
	return &LoginFlow{
		flow:  flow{name: "login", screen: screen},
		api:   api,
		store: store,
	}
}

// Submit starts a login. It returns ErrFlowBusy while a login is in flight.
func (f *LoginFlow) Submit(ctx context.Context, creds Credentials) (<-chan Outcome, error) {
	runCtx, entry, err := f.begin(ctx)
	if err != nil {
		return nil, err
	}
	entry = entry.WithField("username", creds.Username)

	return deliver(func() Outcome {
		result := <-f.api.PostForm(runCtx, PathLogin, creds.Form(), "")

		token, outcome, finished := f.onLogin(runCtx, entry, result)
		if finished {
			return outcome
		}

		result = <-f.api.PostForm(runCtx, PathUserType, nil, token)
		return f.onUserType(runCtx, entry, result)
	}), nil
}

func (f *LoginFlow) onLogin(ctx context.Context, entry *log.Entry, result HttpResult) (string, Outcome, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", f.settleCancelled(entry, err), true
	}
	if !result.OK() {
		return "", f.fail(entry, MsgInvalidLogin, statusError(result)), true
	}

	token, err := result.Body.String("session_token")
	if err != nil {
		return "", f.fail(entry, MsgInvalidLogin, err), true
	}

	// A role left by an earlier login must not be paired with the new token.
	if err := f.store.Clear(ctx); err != nil {
		return "", f.fail(entry, MsgInvalidLogin, fmt.Errorf("clear previous session: %w", err)), true
	}
	if err := f.store.Put(ctx, KeyToken, token); err != nil {
		return "", f.fail(entry, MsgInvalidLogin, fmt.Errorf("store session token: %w", err)), true
	}

	f.state = StateAwaitingUserType
	entry.Debug("Session token stored, requesting user type")
	return token, Outcome{}, false
}

func (f *LoginFlow) onUserType(ctx context.Context, entry *log.Entry, result HttpResult) Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		f.discardSession(ctx, entry)
		return f.settleCancelled(entry, err)
	}
	if !result.OK() {
		f.discardSession(ctx, entry)
		return f.fail(entry, MsgInvalidLogin, fmt.Errorf("could not get user type: %w", statusError(result)))
	}

	value, err := result.Body.String("user_type")
	if err != nil {
		f.discardSession(ctx, entry)
		return f.fail(entry, MsgInvalidLogin, err)
	}

	userType := ParseUserType(value)
	menu, ok := userType.Menu()
	if !ok {
		f.discardSession(ctx, entry)
		return f.fail(entry, MsgInvalidLogin, fmt.Errorf("%w: %q", ErrUnknownUserType, value))
	}

	if err := f.store.Put(ctx, KeyUserType, string(userType)); err != nil {
		f.discardSession(ctx, entry)
		return f.fail(entry, MsgInvalidLogin, fmt.Errorf("store user type: %w", err))
	}

	entry.WithField("user_type", userType).Info("Logged in")
	f.screen.Navigate(menu)
	f.screen.SetSubmitEnabled(true)
	f.state = StateRouted
	f.release()

	return Outcome{State: StateRouted, Menu: menu}
}

// discardSession removes a token that never received a known user type.
func (f *LoginFlow) discardSession(ctx context.Context, entry *log.Entry) {
	if err := f.store.Clear(context.WithoutCancel(ctx)); err != nil {
		entry.WithError(err).Warn("Could not clear session")
	}
}
