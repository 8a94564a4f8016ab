package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/ceoos/internal/error_values"
	"github.com/limbo/ceoos/internal/identity"
)

type credentials struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type authResponse struct {
	UID   string `json:"uid"`
	Token string `json:"token"`
}

// AuthClient performs account calls. It needs no token.
type AuthClient struct {
	c *Client
}

func NewAuthClient(baseURL string, opts ...Option) *AuthClient {
	return &AuthClient{c: NewClient(baseURL, nil, opts...)}
}

func (a *AuthClient) Register(ctx context.Context, name, password string) (uuid.UUID, error) {
	var resp authResponse
	err := a.c.do(ctx, http.MethodPost, "/auth/register", credentials{Name: name, Password: password}, &resp, errorvalues.ErrUserNotFound)
	if err != nil {
		if errors.Is(err, errorvalues.ErrRecordExists) {
			return uuid.Nil, fmt.Errorf("%w: %w", errorvalues.ErrUserExists, err)
		}
		return uuid.Nil, fmt.Errorf("registering: %w", err)
	}
	id, err := uuid.Parse(resp.UID)
	if err != nil {
		return uuid.Nil, errors.New("registering error: malformed uid in response")
	}
	return id, nil
}

// Login returns the identity to hand to identity.Session.SignIn.
func (a *AuthClient) Login(ctx context.Context, name, password string) (identity.User, error) {
	var resp authResponse
	err := a.c.do(ctx, http.MethodPost, "/auth/login", credentials{Name: name, Password: password}, &resp, errorvalues.ErrUserNotFound)
	if err != nil {
		return identity.User{}, fmt.Errorf("logging in: %w", err)
	}
	id, err := uuid.Parse(resp.UID)
	if err != nil || resp.Token == "" {
		return identity.User{}, errors.New("logging in error: malformed response")
	}
	return identity.User{ID: id, Name: name, Token: resp.Token}, nil
}
