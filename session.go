package main

import (
	"context"
	"errors"
	"sync"
)

const (
	KeyToken    = "token"
	KeyUserType = "user_type"
)

type UserType string

const (
	UserTypeUnknown  UserType = ""
	UserTypeClient   UserType = "client"
	UserTypeBusiness UserType = "business"
)

// ParseUserType recognizes exactly "client" and "business".
func ParseUserType(value string) UserType {
	switch UserType(value) {
	case UserTypeClient:
		return UserTypeClient
	case UserTypeBusiness:
		return UserTypeBusiness
	default:
		return UserTypeUnknown
	}
}

// Menu returns the screen a session of this type routes to.
func (t UserType) Menu() (Menu, bool) {
	switch t {
	case UserTypeClient:
		return MenuClient, true
	case UserTypeBusiness:
		return MenuBusiness, true
	default:
		return MenuNone, false
	}
}

type Session struct {
	Token    string
	UserType UserType
}

// Valid reports whether the session may be used for routing.
func (s Session) Valid() bool {
	return s.Token != "" && s.UserType != UserTypeUnknown
}

// SessionStore is the durable key-value record holding one session.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Clear(ctx context.Context) error
}

// LoadSession reads the stored session. Missing keys yield empty fields, not errors.
func LoadSession(ctx context.Context, store SessionStore) (Session, error) {
	token, err := store.Get(ctx, KeyToken)
	if err != nil && !errors.Is(err, ErrNoValue) {
		return Session{}, err
	}

	userType, err := store.Get(ctx, KeyUserType)
	if err != nil && !errors.Is(err, ErrNoValue) {
		return Session{}, err
	}

	return Session{Token: token, UserType: ParseUserType(userType)}, nil
}

// MemorySessionStore keeps the session in process memory.
type MemorySessionStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{values: make(map[string]string)}
}

func (m *MemorySessionStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.values[key]
	if !ok {
		return "", ErrNoValue
	}
	return value, nil
}

func (m *MemorySessionStore) Put(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *MemorySessionStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values = make(map[string]string)
	return nil
}

// MemorySessions hands out one in-memory store per user.
type MemorySessions struct {
	mu     sync.Mutex
	stores map[string]*MemorySessionStore
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{stores: make(map[string]*MemorySessionStore)}
}

func (m *MemorySessions) ForUser(userID string) SessionStore {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, ok := m.stores[userID]
	if !ok {
		store = NewMemorySessionStore()
		m.stores[userID] = store
	}
	return store
}

// SessionScope resolves the session store belonging to one user.
type SessionScope interface {
	ForUser(userID string) SessionStore
}
