package main

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisSessions(t *testing.T) (*miniredis.Miniredis, *RedisSessions) {
	t.Helper()

	server := miniredis.RunT(t)
	db := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { db.Close() })

	return server, NewRedisSessions(db)
}

func TestRedisSessionStore(t *testing.T) {
	ctx := context.Background()
	server, sessions := newRedisSessions(t)
	store := sessions.ForUser("42")

	_, err := store.Get(ctx, KeyToken)
	assert.ErrorIs(t, err, ErrNoValue)

	require.NoError(t, store.Put(ctx, KeyToken, "abc"))
	require.NoError(t, store.Put(ctx, KeyUserType, "client"))
	assert.Equal(t, "abc", server.HGet("food_service_session:42", "token"))
	assert.Equal(t, "client", server.HGet("food_service_session:42", "user_type"))

	session, err := LoadSession(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, Session{Token: "abc", UserType: UserTypeClient}, session)

	require.NoError(t, store.Clear(ctx))
	assert.False(t, server.Exists("food_service_session:42"))
}

func TestRedisSessionsScopedPerUser(t *testing.T) {
	ctx := context.Background()
	_, sessions := newRedisSessions(t)

	require.NoError(t, sessions.ForUser("1").Put(ctx, KeyToken, "one"))
	_, err := sessions.ForUser("2").Get(ctx, KeyToken)
	assert.ErrorIs(t, err, ErrNoValue)
}

func TestRedisSessionStoreUnavailable(t *testing.T) {
	server, sessions := newRedisSessions(t)
	store := sessions.ForUser("1")
	server.Close()

	err := store.Put(context.Background(), KeyToken, "abc")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoValue)
}

func TestLoginWithRedisSessionStore(t *testing.T) {
	_, sessions := newRedisSessions(t)
	store := sessions.ForUser("7")

	api := newFakePoster()
	api.respond(PathLogin, 200, Document{"session_token": "abc"})
	api.respond(PathUserType, 200, Document{"user_type": "admin"})

	outcome, err := NewLoginFlow(api, store, newRecordingScreen()).Submit(context.Background(), Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, StateFailed, awaitOutcome(t, outcome).State)

	_, err = store.Get(context.Background(), KeyToken)
	assert.ErrorIs(t, err, ErrNoValue)
}
