// Package keychain keeps the signed-in user of the command line client in
// the OS keyring.
package keychain

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/limbo/ceoos/internal/identity"
	"github.com/zalando/go-keyring"
)

const (
	Service    = "ceoos"
	sessionKey = "session"
)

var (
	// ErrNotFound is returned when no session is stored
	ErrNotFound = errors.New("no stored session")
	// ErrUnavailable is returned when the OS keyring cannot be reached
	ErrUnavailable = errors.New("OS keyring is not available")
)

type storedSession struct {
	UserID uuid.UUID `json:"uid"`
	Name   string    `json:"name"`
	Token  string    `json:"token"`
}

type Store struct {
	service string
}

func New(service string) *Store {
	if service == "" {
		service = Service
	}
	return &Store{service: service}
}

func (s *Store) Save(user identity.User) error {
	if user.ID == uuid.Nil || user.Token == "" {
		return errors.New("session without user id or token")
	}
	data, err := sonic.Marshal(storedSession{UserID: user.ID, Name: user.Name, Token: user.Token})
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := keyring.Set(s.service, sessionKey, string(data)); err != nil {
		return fmt.Errorf("failed to store session in keyring: %w", err)
	}
	return nil
}

func (s *Store) Load() (identity.User, error) {
	raw, err := keyring.Get(s.service, sessionKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return identity.User{}, ErrNotFound
		}
		return identity.User{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var stored storedSession
	if err := sonic.UnmarshalString(raw, &stored); err != nil {
		return identity.User{}, fmt.Errorf("decoding session: %w", err)
	}
	if stored.UserID == uuid.Nil {
		return identity.User{}, ErrNotFound
	}
	return identity.User{ID: stored.UserID, Name: stored.Name, Token: stored.Token}, nil
}

// Delete removes the stored session. Deleting a missing session is not an error.
func (s *Store) Delete() error {
	err := keyring.Delete(s.service, sessionKey)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete session from keyring: %w", err)
	}
	return nil
}
