package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/limbo/ceoos/internal/schema"
	"github.com/limbo/ceoos/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database and returns its id
	Create(ctx context.Context, user *entity.User) (uuid.UUID, error)
	// Looks up user by name. Can be used for login
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Deletes user together with every row the user owns
	Delete(ctx context.Context, uid uuid.UUID) error
}

type RowsRepositoryI interface {
	// Lists rows of userID in table, ordered by orderBy descending
	SelectAll(ctx context.Context, table string, userID uuid.UUID, orderBy string) ([]schema.Row, error)
	// Returns newest row of userID matching every filter column, nil if none
	SelectOne(ctx context.Context, table string, userID uuid.UUID, filter schema.Row) (schema.Row, error)
	// Inserts row (user_id included) and returns it as stored
	Insert(ctx context.Context, table string, row schema.Row) (schema.Row, error)
	// Applies changes to row with id owned by userID
	Update(ctx context.Context, table string, id string, userID uuid.UUID, changes schema.Row) error
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
