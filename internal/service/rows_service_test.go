package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/ceoos/internal/error_values"
	"github.com/limbo/ceoos/internal/schema"
	"github.com/limbo/ceoos/internal/service"
	"github.com/limbo/ceoos/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRowsServiceList(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New()
	testCases := []struct {
		Desc    string
		Req     service.ListRowsRequest
		Setup   func(m *rowsRepoMock)
		Len     int
		WantErr error
	}{
		{
			Desc: "listed",
			Req:  service.ListRowsRequest{Table: schema.DailyCheckIns, OrderBy: "date"},
			Setup: func(m *rowsRepoMock) {
				m.On("SelectAll", ctx, schema.DailyCheckIns, uid, "date").
					Return([]schema.Row{{"id": "a"}, {"id": "b"}}, nil)
			},
			Len: 2,
		},
		{
			Desc:    "unknown table",
			Req:     service.ListRowsRequest{Table: "users", OrderBy: "name"},
			WantErr: errorvalues.ErrValidation,
		},
		{
			Desc:    "malformed order column",
			Req:     service.ListRowsRequest{Table: schema.DailyCheckIns, OrderBy: "date desc"},
			WantErr: errorvalues.ErrValidation,
		},
		{
			Desc: "order column not allowed",
			Req:  service.ListRowsRequest{Table: schema.DailyCheckIns, OrderBy: "notes"},
			Setup: func(m *rowsRepoMock) {
				m.On("SelectAll", ctx, schema.DailyCheckIns, uid, "notes").
					Return(nil, errorvalues.ErrUnknownColumn)
			},
			WantErr: errorvalues.ErrUnknownColumn,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			repo := &rowsRepoMock{}
			if tc.Setup != nil {
				tc.Setup(repo)
			}
			rs := service.NewRowsService(repo)
			rows, err := rs.List(ctx, uid, &tc.Req)
			if tc.WantErr != nil {
				assert.ErrorIs(t, err, tc.WantErr)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, rows, tc.Len)
			repo.AssertExpectations(t)
		})
	}
}

func TestRowsServiceCreate(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New()
	t.Run("owner taken from caller", func(t *testing.T) {
		repo := &rowsRepoMock{}
		repo.On("Insert", ctx, schema.DailyCheckIns, schema.Row{"date": "2025-03-04", schema.ColUserID: uid.String()}).
			Return(schema.Row{"id": "x"}, nil)
		rs := service.NewRowsService(repo)
		input := schema.Row{"date": "2025-03-04", schema.ColUserID: uuid.NewString()}
		stored, err := rs.Create(ctx, uid, schema.DailyCheckIns, input)
		assert.NoError(t, err)
		assert.Equal(t, "x", stored["id"])
		assert.NotEqual(t, uid.String(), input[schema.ColUserID])
		repo.AssertExpectations(t)
	})
	t.Run("conflict kept", func(t *testing.T) {
		repo := &rowsRepoMock{}
		repo.On("Insert", ctx, schema.Goals, mock.Anything).Return(nil, errorvalues.ErrRecordExists)
		rs := service.NewRowsService(repo)
		_, err := rs.Create(ctx, uid, schema.Goals, schema.Row{"goal_type": "one_year"})
		assert.ErrorIs(t, err, errorvalues.ErrRecordExists)
	})
	t.Run("driver error hidden", func(t *testing.T) {
		repo := &rowsRepoMock{}
		repo.On("Insert", ctx, schema.Goals, mock.Anything).Return(nil, errors.New("conn reset"))
		rs := service.NewRowsService(repo)
		_, err := rs.Create(ctx, uid, schema.Goals, nil)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, errorvalues.ErrRecordExists)
	})
	t.Run("unknown table", func(t *testing.T) {
		rs := service.NewRowsService(&rowsRepoMock{})
		_, err := rs.Create(ctx, uid, "users", schema.Row{})
		assert.ErrorIs(t, err, errorvalues.ErrUnknownTable)
	})
}

func TestRowsServiceUpdate(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New()
	id := uuid.NewString()
	changes := schema.Row{"notes": "x"}
	t.Run("updated", func(t *testing.T) {
		repo := &rowsRepoMock{}
		repo.On("Update", ctx, schema.DailyCheckIns, id, uid, changes).Return(nil)
		rs := service.NewRowsService(repo)
		err := rs.Update(ctx, uid, &service.RowRequest{Table: schema.DailyCheckIns, ID: id}, changes)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
	t.Run("not found", func(t *testing.T) {
		repo := &rowsRepoMock{}
		repo.On("Update", ctx, schema.DailyCheckIns, id, uid, changes).Return(errorvalues.ErrRecordNotFound)
		rs := service.NewRowsService(repo)
		err := rs.Update(ctx, uid, &service.RowRequest{Table: schema.DailyCheckIns, ID: id}, changes)
		assert.ErrorIs(t, err, errorvalues.ErrRecordNotFound)
	})
	t.Run("temporary id", func(t *testing.T) {
		rs := service.NewRowsService(&rowsRepoMock{})
		err := rs.Update(ctx, uid, &service.RowRequest{Table: schema.DailyCheckIns, ID: "tmp-1"}, changes)
		assert.ErrorIs(t, err, errorvalues.ErrRecordNotFound)
	})
	t.Run("unknown table", func(t *testing.T) {
		rs := service.NewRowsService(&rowsRepoMock{})
		err := rs.Update(ctx, uid, &service.RowRequest{Table: "users", ID: id}, changes)
		assert.ErrorIs(t, err, errorvalues.ErrUnknownTable)
	})
}

func TestRowsServiceFindOne(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New()
	repo := &rowsRepoMock{}
	filter := schema.Row{"goal_type": "ten_year"}
	repo.On("SelectOne", ctx, schema.Goals, uid, filter).Return(nil, nil)
	rs := service.NewRowsService(repo)
	row, err := rs.FindOne(ctx, uid, schema.Goals, filter)
	assert.NoError(t, err)
	assert.Nil(t, row)
	_, err = rs.FindOne(ctx, uid, "nope", filter)
	assert.ErrorIs(t, err, errorvalues.ErrUnknownTable)
}

func TestUserServiceSentinels(t *testing.T) {
	ctx := context.Background()
	hash, err := service.Hash("right_password")
	if err != nil {
		t.Fatal(err)
	}
	t.Run("register validation", func(t *testing.T) {
		us := service.NewUserService(&usersRepoMock{})
		_, err := us.Register(ctx, &service.RegisterRequest{Name: "_bad", Password: "short"})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("register returns id", func(t *testing.T) {
		repo := &usersRepoMock{}
		id := uuid.New()
		repo.On("Create", ctx, mock.Anything).Return(id, nil)
		us := service.NewUserService(repo)
		user, err := us.Register(ctx, &service.RegisterRequest{Name: "ceo", Password: "right_password"})
		assert.NoError(t, err)
		assert.Equal(t, id, user.ID)
	})
	t.Run("login wrong password", func(t *testing.T) {
		repo := &usersRepoMock{}
		repo.On("FindByName", ctx, "ceo").Return(&entity.User{ID: uuid.New(), Name: "ceo", PasswordHash: hash}, nil)
		us := service.NewUserService(repo)
		_, err := us.Login(ctx, "ceo", "wrong_password")
		assert.ErrorIs(t, err, errorvalues.ErrWrongCredentials)
	})
	t.Run("login unknown user", func(t *testing.T) {
		repo := &usersRepoMock{}
		repo.On("FindByName", ctx, "ghost").Return(nil, errorvalues.ErrUserNotFound)
		us := service.NewUserService(repo)
		_, err := us.Login(ctx, "ghost", "whatever1")
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
}
