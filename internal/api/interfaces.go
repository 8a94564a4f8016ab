package api

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/limbo/ceoos/pkg/entity"
)

type JWTServiceI interface {
	GenerateToken(user *entity.User) (string, error)
	ParseToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims identify the account a request acts for. uid is the same
// identifier the auth endpoints return.
type JWTClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}
