package main

import (
	"context"
)

// RegisterFlow posts a business profile for account creation. There is no
// follow-up request and nothing from the profile is kept locally.
type RegisterFlow struct {
	flow
	api Poster
}

func NewRegisterFlow(api Poster, screen Screen) *RegisterFlow {
	return &RegisterFlow{
		flow: flow{name: "register", screen: screen},
		api:  api,
	}
}

func (f *RegisterFlow) Submit(ctx context.Context, profile BusinessProfile) (<-chan Outcome, error) {
	runCtx, entry, err := f.begin(ctx)
	if err != nil {
		return nil, err
	}
	entry = entry.WithField("username", profile.Username)

	return deliver(func() Outcome {
		result := <-f.api.PostForm(runCtx, PathRegister, profile.Form(), "")

		f.mu.Lock()
		defer f.mu.Unlock()

		if err := runCtx.Err(); err != nil {
			return f.settleCancelled(entry, err)
		}
		if !result.OK() {
			return f.fail(entry, MsgRegisterFailed, statusError(result))
		}

		entry.WithField("message", result.Body.Message()).Info("Registered business")
		f.screen.ShowMessage(MsgRegistered)
		f.screen.SetSubmitEnabled(true)
		f.state = StateIdle
		f.release()

		return Outcome{State: StateRegistered}
	}), nil
}
