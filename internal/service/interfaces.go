package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/limbo/ceoos/internal/schema"
	"github.com/limbo/ceoos/pkg/entity"
)

type RegisterRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Password string `validate:"required,min=8,max=72"`
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID.
	Login(ctx context.Context, name, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByName(ctx context.Context, name string) (*entity.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

type ListRowsRequest struct {
	Table   string `validate:"required,table_name"`
	OrderBy string `validate:"required,alphanum_underscore,max=64"`
}

type RowRequest struct {
	Table string `validate:"required,table_name"`
	ID    string `validate:"omitempty,uuid"`
}

type RowsServiceI interface {
	// Lists every row of the user, newest first
	List(ctx context.Context, uid uuid.UUID, req *ListRowsRequest) ([]schema.Row, error)
	// Returns the newest row matching filter, nil if none
	FindOne(ctx context.Context, uid uuid.UUID, table string, filter schema.Row) (schema.Row, error)
	// Stores row on behalf of uid. Any user_id in row is replaced
	Create(ctx context.Context, uid uuid.UUID, table string, row schema.Row) (schema.Row, error)
	// Applies changes to the row of uid
	Update(ctx context.Context, uid uuid.UUID, req *RowRequest, changes schema.Row) error
}
