// Package identity holds the signed-in user of a client and notifies
// subscribers when it changes.
package identity

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

type User struct {
	ID    uuid.UUID
	Name  string
	Token string
}

// Listener is called with the new user and whether anyone is signed in.
type Listener func(ctx context.Context, user User, signedIn bool)

type Session struct {
	mu        sync.RWMutex
	user      User
	signedIn  bool
	nextID    int
	listeners map[int]Listener
	logger    *slog.Logger
}

func NewSession(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		listeners: make(map[int]Listener),
		logger:    logger,
	}
}

func (s *Session) Current() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.signedIn
}

// Subscribe registers l and returns a function removing it again.
func (s *Session) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// SignIn replaces the current user and notifies every subscriber before
// returning. Signing in the same user again is not a change.
func (s *Session) SignIn(ctx context.Context, user User) {
	s.mu.Lock()
	if s.signedIn && s.user.ID == user.ID {
		s.user = user
		s.mu.Unlock()
		return
	}
	s.user = user
	s.signedIn = true
	s.mu.Unlock()
	s.logger.Info("signed in", slog.String("uid", user.ID.String()))
	s.notify(ctx, user, true)
}

func (s *Session) SignOut(ctx context.Context) {
	s.mu.Lock()
	if !s.signedIn {
		s.mu.Unlock()
		return
	}
	s.user = User{}
	s.signedIn = false
	s.mu.Unlock()
	s.logger.Info("signed out")
	s.notify(ctx, User{}, false)
}

func (s *Session) notify(ctx context.Context, user User, signedIn bool) {
	s.mu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()
	for _, l := range listeners {
		l(ctx, user, signedIn)
	}
}

// Token returns the bearer token of the signed-in user, empty when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Token
}
