package service_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/limbo/ceoos/internal/schema"
	"github.com/limbo/ceoos/pkg/entity"
	"github.com/stretchr/testify/mock"
)

type usersRepoMock struct {
	mock.Mock
}

func (m *usersRepoMock) Create(ctx context.Context, user *entity.User) (uuid.UUID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *usersRepoMock) FindByName(ctx context.Context, name string) (*entity.User, error) {
	args := m.Called(ctx, name)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *usersRepoMock) FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, uid)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *usersRepoMock) Delete(ctx context.Context, uid uuid.UUID) error {
	return m.Called(ctx, uid).Error(0)
}

type rowsRepoMock struct {
	mock.Mock
}

func (m *rowsRepoMock) SelectAll(ctx context.Context, table string, userID uuid.UUID, orderBy string) ([]schema.Row, error) {
	args := m.Called(ctx, table, userID, orderBy)
	rows, _ := args.Get(0).([]schema.Row)
	return rows, args.Error(1)
}

func (m *rowsRepoMock) SelectOne(ctx context.Context, table string, userID uuid.UUID, filter schema.Row) (schema.Row, error) {
	args := m.Called(ctx, table, userID, filter)
	row, _ := args.Get(0).(schema.Row)
	return row, args.Error(1)
}

func (m *rowsRepoMock) Insert(ctx context.Context, table string, row schema.Row) (schema.Row, error) {
	args := m.Called(ctx, table, row)
	stored, _ := args.Get(0).(schema.Row)
	return stored, args.Error(1)
}

func (m *rowsRepoMock) Update(ctx context.Context, table string, id string, userID uuid.UUID, changes schema.Row) error {
	return m.Called(ctx, table, id, userID, changes).Error(0)
}
