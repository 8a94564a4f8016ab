package service

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/ceoos/internal/error_values"
	"github.com/limbo/ceoos/internal/repository"
	"github.com/limbo/ceoos/internal/schema"
)

// RowsService scopes every row operation to the calling user.
type RowsService struct {
	repo repository.RowsRepositoryI
}

func NewRowsService(rowsRepo repository.RowsRepositoryI) *RowsService {
	return &RowsService{
		repo: rowsRepo,
	}
}

func (rs *RowsService) List(ctx context.Context, uid uuid.UUID, req *ListRowsRequest) ([]schema.Row, error) {
	if err := validate.Struct(*req); err != nil {
		return nil, fmt.Errorf("%w: %w", errorvalues.ErrValidation, validationErr(err))
	}
	rows, err := rs.repo.SelectAll(ctx, req.Table, uid, req.OrderBy)
	if err != nil {
		return nil, passthrough("listing rows", err)
	}
	return rows, nil
}

func (rs *RowsService) FindOne(ctx context.Context, uid uuid.UUID, table string, filter schema.Row) (schema.Row, error) {
	if err := validate.Var(table, "required,table_name"); err != nil {
		return nil, fmt.Errorf("%w: %w", errorvalues.ErrUnknownTable, validationErr(err))
	}
	row, err := rs.repo.SelectOne(ctx, table, uid, filter)
	if err != nil {
		return nil, passthrough("searching row", err)
	}
	return row, nil
}

func (rs *RowsService) Create(ctx context.Context, uid uuid.UUID, table string, row schema.Row) (schema.Row, error) {
	if err := validate.Var(table, "required,table_name"); err != nil {
		return nil, fmt.Errorf("%w: %w", errorvalues.ErrUnknownTable, validationErr(err))
	}
	owned := maps.Clone(row)
	if owned == nil {
		owned = schema.Row{}
	}
	owned[schema.ColUserID] = uid.String()
	stored, err := rs.repo.Insert(ctx, table, owned)
	if err != nil {
		return nil, passthrough("creating row", err)
	}
	return stored, nil
}

func (rs *RowsService) Update(ctx context.Context, uid uuid.UUID, req *RowRequest, changes schema.Row) error {
	if err := validate.Struct(*req); err != nil {
		if _, lookupErr := schema.Lookup(req.Table); lookupErr != nil {
			return lookupErr
		}
		return fmt.Errorf("%w: %s", errorvalues.ErrRecordNotFound, req.ID)
	}
	if req.ID == "" {
		return fmt.Errorf("%w: empty id", errorvalues.ErrRecordNotFound)
	}
	err := rs.repo.Update(ctx, req.Table, req.ID, uid, changes)
	if err != nil {
		return passthrough("updating row", err)
	}
	return nil
}

// passthrough keeps known sentinels matchable and hides driver errors
// behind a plain message.
func passthrough(op string, err error) error {
	for _, known := range []error{
		errorvalues.ErrUnknownTable,
		errorvalues.ErrUnknownColumn,
		errorvalues.ErrRecordNotFound,
		errorvalues.ErrRecordExists,
		errorvalues.ErrUserNotFound,
	} {
		if errors.Is(err, known) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return errors.New("repository " + op + " error: " + err.Error())
}
