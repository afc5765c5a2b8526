package main

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProfile = BusinessProfile{
	Username:     "pantry",
	Password:     "s3cret",
	Email:        "hello@pantry.example",
	Address:      "1 Main St",
	Zip:          "12345",
	Name:         "Community Pantry",
	WorkPhone:    "555-0100",
	Instructions: "Ring the back door",
}

func TestBusinessProfileForm(t *testing.T) {
	assert.Equal(t, map[string]string{
		"username":     "pantry",
		"password":     "s3cret",
		"email":        "hello@pantry.example",
		"address":      "1 Main St",
		"zip":          "12345",
		"user_type":    "business",
		"name":         "Community Pantry",
		"work_phone":   "555-0100",
		"instructions": "Ring the back door",
	}, testProfile.Form())
}

func TestRegisterSuccess(t *testing.T) {
	api := newFakePoster()
	api.respond(PathRegister, http.StatusOK, Document{"message": "Successfully created new user"})
	screen := newRecordingScreen()
	flow := NewRegisterFlow(api, screen)

	outcome, err := flow.Submit(context.Background(), testProfile)
	require.NoError(t, err)
	assert.False(t, screen.snapshot().enabled)

	result := awaitOutcome(t, outcome)
	assert.Equal(t, StateRegistered, result.State)
	assert.NoError(t, result.Err)

	state := screen.snapshot()
	assert.Equal(t, []string{MsgRegistered}, state.messages)
	assert.Equal(t, 1, state.enables)
	assert.True(t, state.enabled)
	assert.Zero(t, state.clears)
	assert.Empty(t, state.navigations)

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, PathRegister, calls[0].path)
	assert.Equal(t, testProfile.Form(), calls[0].fields)
	assert.Empty(t, calls[0].token)
	assert.Equal(t, StateIdle, flow.State())
}

func TestRegisterServerError(t *testing.T) {
	api := newFakePoster()
	api.respond(PathRegister, http.StatusInternalServerError, Document{})
	screen := newRecordingScreen()
	flow := NewRegisterFlow(api, screen)

	outcome, err := flow.Submit(context.Background(), testProfile)
	require.NoError(t, err)

	result := awaitOutcome(t, outcome)
	assert.Equal(t, StateFailed, result.State)
	assert.ErrorIs(t, result.Err, ErrUnexpectedStatus)

	state := screen.snapshot()
	assert.Equal(t, []string{MsgRegisterFailed}, state.messages)
	assert.Equal(t, 1, state.clears)
	assert.Equal(t, 1, state.enables)
	assert.True(t, state.enabled)
}

func TestRegisterBusy(t *testing.T) {
	api := newFakePoster()
	gate := api.gate(PathRegister)
	api.respond(PathRegister, http.StatusOK, Document{})
	flow := NewRegisterFlow(api, newRecordingScreen())

	outcome, err := flow.Submit(context.Background(), testProfile)
	require.NoError(t, err)

	_, err = flow.Submit(context.Background(), testProfile)
	assert.ErrorIs(t, err, ErrFlowBusy)

	close(gate)
	assert.Equal(t, StateRegistered, awaitOutcome(t, outcome).State)
	assert.Len(t, api.Calls(), 1)
}

func TestRegisterClose(t *testing.T) {
	api := newFakePoster()
	api.gate(PathRegister)
	screen := newRecordingScreen()
	flow := NewRegisterFlow(api, screen)

	outcome, err := flow.Submit(context.Background(), testProfile)
	require.NoError(t, err)
	flow.Close()

	result := awaitOutcome(t, outcome)
	assert.Equal(t, StateCancelled, result.State)
	assert.Empty(t, screen.snapshot().messages)

	_, err = flow.Submit(context.Background(), testProfile)
	assert.ErrorIs(t, err, ErrFlowClosed)
}
