package main

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Account performs the authenticated calls a logged-in screen makes with the stored session.
type Account struct {
	api   Poster
	store SessionStore
}

func NewAccount(api Poster, store SessionStore) *Account {
	return &Account{api: api, store: store}
}

// Session returns the stored session, or ErrNotLoggedIn if it cannot be used for routing.
func (a *Account) Session(ctx context.Context) (Session, error) {
	session, err := LoadSession(ctx, a.store)
	if err != nil {
		return Session{}, err
	}
	if !session.Valid() {
		return Session{}, ErrNotLoggedIn
	}
	return session, nil
}

// Logout ends the server session and always clears the local one.
func (a *Account) Logout(ctx context.Context) error {
	session, err := LoadSession(ctx, a.store)
	if err != nil {
		return err
	}
	if session.Token == "" {
		return ErrNotLoggedIn
	}

	result := <-a.api.PostForm(ctx, PathLogout, nil, session.Token)
	clearErr := a.store.Clear(context.WithoutCancel(ctx))

	if !result.OK() {
		log.WithError(statusError(result)).Warn("Server logout failed, local session cleared")
		return errors.Join(fmt.Errorf("logout: %w", statusError(result)), clearErr)
	}
	return clearErr
}

// Profile fetches the account details of the logged-in user.
func (a *Account) Profile(ctx context.Context) (Document, error) {
	session, err := a.Session(ctx)
	if err != nil {
		return nil, err
	}

	result := <-a.api.PostForm(ctx, PathGetInfo, nil, session.Token)
	if !result.OK() {
		return nil, fmt.Errorf("get info: %w", statusError(result))
	}
	return result.Body, nil
}
