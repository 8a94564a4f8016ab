package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong name or password")
	ErrInvalidToken     = errors.New("invalid token")

	ErrNotAuthenticated = errors.New("user not authenticated")
	ErrRecordNotFound   = errors.New("record not found")
	ErrRecordPending    = errors.New("record is not stored yet")
	ErrRecordExists     = errors.New("record already exists")
	ErrMalformedImport  = errors.New("invalid backup file format")
	ErrStoreNotLoaded   = errors.New("storage not loaded")
	ErrUnknownTable     = errors.New("unknown table")
	ErrUnknownColumn    = errors.New("unknown column")
	ErrValidation       = errors.New("invalid request")
)
