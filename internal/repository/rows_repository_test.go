package repository_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/lib/pq"
	errorvalues "github.com/limbo/ceoos/internal/error_values"
	"github.com/limbo/ceoos/internal/repository"
	"github.com/limbo/ceoos/internal/schema"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/pressly/goose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	userID = uuid.New()
)

func TestSelectAllRows(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewRowsRepoWithConn(conn)
	query := regexp.QuoteMeta(`SELECT to_jsonb(t) FROM daily_check_ins t WHERE t.user_id = $1 ORDER BY t.date DESC, t.created_at DESC;`)
	t.Run("listed", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"to_jsonb"}).
				AddRow([]byte(`{"id":"a","date":"2025-03-04","energy_mental":7}`)).
				AddRow([]byte(`{"id":"b","date":"2025-03-03","energy_mental":4}`)))
		rows, err := repo.SelectAll(ctx, schema.DailyCheckIns, userID, "date")
		assert.NoError(t, err)
		assert.Len(t, rows, 2)
		assert.Equal(t, "a", rows[0]["id"])
		assert.EqualValues(t, 7, rows[0]["energy_mental"])
	})
	t.Run("empty", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"to_jsonb"}))
		rows, err := repo.SelectAll(ctx, schema.DailyCheckIns, userID, "date")
		assert.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})
	t.Run("order by created_at only once", func(t *testing.T) {
		conn.ExpectQuery(regexp.QuoteMeta(`SELECT to_jsonb(t) FROM memory t WHERE t.user_id = $1 ORDER BY t.created_at DESC;`)).
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"to_jsonb"}))
		_, err := repo.SelectAll(ctx, schema.Memory, userID, schema.ColCreatedAt)
		assert.NoError(t, err)
	})
	t.Run("unknown table", func(t *testing.T) {
		_, err := repo.SelectAll(ctx, "users", userID, "name")
		assert.ErrorIs(t, err, errorvalues.ErrUnknownTable)
	})
	t.Run("order column not allowed", func(t *testing.T) {
		_, err := repo.SelectAll(ctx, schema.DailyCheckIns, userID, "notes; DROP TABLE users")
		assert.ErrorIs(t, err, errorvalues.ErrUnknownColumn)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(userID).
			WillReturnError(errors.New("db error"))
		_, err := repo.SelectAll(ctx, schema.DailyCheckIns, userID, "date")
		assert.Error(t, err)
	})
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestSelectOneRow(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewRowsRepoWithConn(conn)
	query := regexp.QuoteMeta(`SELECT to_jsonb(t) FROM goals t WHERE t.user_id = $1 AND t.goal_type = $2::text ORDER BY t.created_at DESC LIMIT 1;`)
	filter := schema.Row{schema.ColGoalType: "one_year"}
	t.Run("found", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(userID, "one_year").
			WillReturnRows(pgxmock.NewRows([]string{"to_jsonb"}).
				AddRow([]byte(`{"id":"g","goal_type":"one_year","critical_three":["a","b"]}`)))
		row, err := repo.SelectOne(ctx, schema.Goals, userID, filter)
		assert.NoError(t, err)
		assert.Equal(t, "g", row["id"])
		assert.Equal(t, []any{"a", "b"}, row["critical_three"])
	})
	t.Run("none", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(userID, "one_year").
			WillReturnError(pgx.ErrNoRows)
		row, err := repo.SelectOne(ctx, schema.Goals, userID, filter)
		assert.NoError(t, err)
		assert.Nil(t, row)
	})
	t.Run("without filter", func(t *testing.T) {
		conn.ExpectQuery(regexp.QuoteMeta(`SELECT to_jsonb(t) FROM north_star t WHERE t.user_id = $1 ORDER BY t.created_at DESC LIMIT 1;`)).
			WithArgs(userID).
			WillReturnError(pgx.ErrNoRows)
		row, err := repo.SelectOne(ctx, schema.NorthStar, userID, nil)
		assert.NoError(t, err)
		assert.Nil(t, row)
	})
	t.Run("filter column not allowed", func(t *testing.T) {
		_, err := repo.SelectOne(ctx, schema.Goals, userID, schema.Row{"theme": "x"})
		assert.ErrorIs(t, err, errorvalues.ErrUnknownColumn)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(userID, "one_year").
			WillReturnError(errors.New("db error"))
		_, err := repo.SelectOne(ctx, schema.Goals, userID, filter)
		assert.Error(t, err)
	})
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestInsertRow(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewRowsRepoWithConn(conn)
	query := regexp.QuoteMeta(`INSERT INTO daily_check_ins AS t (date, energy_mental, notes, user_id) VALUES ($1::date, $2::integer, $3::text, $4::uuid) RETURNING to_jsonb(t);`)
	row := schema.Row{
		"id":             "tmp-1",
		"date":           "2025-03-04",
		"energy_mental":  float64(7),
		"notes":          "calm",
		schema.ColUserID: userID.String(),
	}
	t.Run("inserted", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs("2025-03-04", int64(7), "calm", userID.String()).
			WillReturnRows(pgxmock.NewRows([]string{"to_jsonb"}).
				AddRow([]byte(`{"id":"0b8f7c57-3a4c-4f0e-9a55-1f1b51f0c2aa","date":"2025-03-04"}`)))
		stored, err := repo.Insert(ctx, schema.DailyCheckIns, row)
		assert.NoError(t, err)
		assert.Equal(t, "0b8f7c57-3a4c-4f0e-9a55-1f1b51f0c2aa", stored["id"])
	})
	t.Run("duplicate", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs("2025-03-04", int64(7), "calm", userID.String()).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		_, err := repo.Insert(ctx, schema.DailyCheckIns, row)
		assert.ErrorIs(t, err, errorvalues.ErrRecordExists)
	})
	t.Run("unknown owner", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs("2025-03-04", int64(7), "calm", userID.String()).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		_, err := repo.Insert(ctx, schema.DailyCheckIns, row)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	t.Run("json and list columns", func(t *testing.T) {
		conn.ExpectQuery(regexp.QuoteMeta(`INSERT INTO goals AS t (critical_three, goal_type, health, user_id) VALUES ($1::text[], $2::text, $3::jsonb, $4::uuid) RETURNING to_jsonb(t);`)).
			WithArgs([]string{"ship"}, "one_year", `{"goal":"run"}`, userID.String()).
			WillReturnRows(pgxmock.NewRows([]string{"to_jsonb"}).AddRow([]byte(`{"id":"g"}`)))
		_, err := repo.Insert(ctx, schema.Goals, schema.Row{
			"critical_three":    []any{"ship"},
			"goal_type":         "one_year",
			"health":            json.RawMessage(`{"goal":"run"}`),
			schema.ColUserID:    userID.String(),
			schema.ColCreatedAt: "2025-03-04T09:00:00Z",
		})
		assert.NoError(t, err)
	})
	t.Run("unknown column", func(t *testing.T) {
		_, err := repo.Insert(ctx, schema.DailyCheckIns, schema.Row{"mood": "x", schema.ColUserID: userID.String()})
		assert.ErrorIs(t, err, errorvalues.ErrUnknownColumn)
	})
	t.Run("missing owner", func(t *testing.T) {
		_, err := repo.Insert(ctx, schema.DailyCheckIns, schema.Row{"date": "2025-03-04"})
		assert.ErrorIs(t, err, errorvalues.ErrUnknownColumn)
	})
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestUpdateRow(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewRowsRepoWithConn(conn)
	rowID := uuid.New()
	query := regexp.QuoteMeta(`UPDATE daily_check_ins AS t SET energy_mental = $1::integer, updated_at = $2::timestamptz WHERE t.id = $3 AND t.user_id = $4;`)
	changes := schema.Row{"energy_mental": float64(9), schema.ColUpdatedAt: "2025-03-04T09:00:00Z"}
	t.Run("updated", func(t *testing.T) {
		conn.ExpectExec(query).
			WithArgs(int64(9), "2025-03-04T09:00:00Z", rowID, userID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		err := repo.Update(ctx, schema.DailyCheckIns, rowID.String(), userID, changes)
		assert.NoError(t, err)
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectExec(query).
			WithArgs(int64(9), "2025-03-04T09:00:00Z", rowID, userID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		err := repo.Update(ctx, schema.DailyCheckIns, rowID.String(), userID, changes)
		assert.ErrorIs(t, err, errorvalues.ErrRecordNotFound)
	})
	t.Run("malformed id", func(t *testing.T) {
		err := repo.Update(ctx, schema.DailyCheckIns, "tmp-123", userID, changes)
		assert.ErrorIs(t, err, errorvalues.ErrRecordNotFound)
	})
	t.Run("read-only column", func(t *testing.T) {
		err := repo.Update(ctx, schema.DailyCheckIns, rowID.String(), userID, schema.Row{schema.ColUserID: uuid.NewString()})
		assert.ErrorIs(t, err, errorvalues.ErrUnknownColumn)
	})
	t.Run("nothing to change", func(t *testing.T) {
		err := repo.Update(ctx, schema.DailyCheckIns, rowID.String(), userID, schema.Row{})
		assert.NoError(t, err)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectExec(query).
			WithArgs(int64(9), "2025-03-04T09:00:00Z", rowID, userID).
			WillReturnError(errors.New("db error"))
		err := repo.Update(ctx, schema.DailyCheckIns, rowID.String(), userID, changes)
		assert.Error(t, err)
	})
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestRowsIntegrational(t *testing.T) {
	if testing.Short() {
		t.Skip("needs docker")
	}
	cfg := setupRowsTestDB(t)
	repo := repository.NewRowsRepo(cfg)
	ctx := context.Background()
	var firstID string
	t.Run("insert", func(t *testing.T) {
		t.Run("success", func(t *testing.T) {
			for _, date := range []string{"2025-03-03", "2025-03-04"} {
				stored, err := repo.Insert(ctx, schema.DailyCheckIns, schema.Row{
					"date":           date,
					"energy_mental":  int64(6),
					"meaningful_win": "shipped",
					schema.ColUserID: userID.String(),
				})
				require.NoError(t, err)
				assert.Equal(t, date, stored["date"])
				assert.NotEmpty(t, stored[schema.ColID])
				assert.NotEmpty(t, stored[schema.ColCreatedAt])
				if firstID == "" {
					firstID = stored[schema.ColID].(string)
				}
			}
		})
		t.Run("same date twice", func(t *testing.T) {
			_, err := repo.Insert(ctx, schema.DailyCheckIns, schema.Row{
				"date":           "2025-03-04",
				schema.ColUserID: userID.String(),
			})
			assert.ErrorIs(t, err, errorvalues.ErrRecordExists)
		})
		t.Run("unknown user", func(t *testing.T) {
			_, err := repo.Insert(ctx, schema.DailyCheckIns, schema.Row{
				"date":           "2025-03-05",
				schema.ColUserID: uuid.NewString(),
			})
			assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
		})
	})
	t.Run("select all newest first", func(t *testing.T) {
		rows, err := repo.SelectAll(ctx, schema.DailyCheckIns, userID, "date")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "2025-03-04", rows[0]["date"])
		assert.Equal(t, "2025-03-03", rows[1]["date"])
	})
	t.Run("select all for other user", func(t *testing.T) {
		rows, err := repo.SelectAll(ctx, schema.DailyCheckIns, uuid.New(), "date")
		assert.NoError(t, err)
		assert.Empty(t, rows)
	})
	t.Run("update", func(t *testing.T) {
		err := repo.Update(ctx, schema.DailyCheckIns, firstID, userID, schema.Row{
			"energy_mental":     int64(9),
			schema.ColUpdatedAt: time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC).Format(time.RFC3339Nano),
		})
		require.NoError(t, err)
		row, err := repo.SelectOne(ctx, schema.DailyCheckIns, userID, schema.Row{"date": "2025-03-03"})
		require.NoError(t, err)
		assert.EqualValues(t, 9, row["energy_mental"])
		assert.Equal(t, "shipped", row["meaningful_win"])
	})
	t.Run("update foreign row", func(t *testing.T) {
		err := repo.Update(ctx, schema.DailyCheckIns, firstID, uuid.New(), schema.Row{"notes": "x"})
		assert.ErrorIs(t, err, errorvalues.ErrRecordNotFound)
	})
	t.Run("json and list columns", func(t *testing.T) {
		_, err := repo.Insert(ctx, schema.Goals, schema.Row{
			schema.ColGoalType: "one_year",
			"period_start":     int64(2025),
			"health":           json.RawMessage(`{"goal":"run","metric":"km"}`),
			"critical_three":   []string{"ship", "", "rest"},
			schema.ColUserID:   userID.String(),
		})
		require.NoError(t, err)
		row, err := repo.SelectOne(ctx, schema.Goals, userID, schema.Row{schema.ColGoalType: "one_year"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"goal": "run", "metric": "km"}, row["health"])
		assert.Equal(t, []any{"ship", "", "rest"}, row["critical_three"])
		missing, err := repo.SelectOne(ctx, schema.Goals, userID, schema.Row{schema.ColGoalType: "ten_year"})
		assert.NoError(t, err)
		assert.Nil(t, missing)
	})
}

type testPGConfig struct {
	connStr string
}

func (cfg *testPGConfig) ConnString() string {
	return cfg.connStr
}

func setupRowsTestDB(t *testing.T) *testPGConfig {
	container, err := postgres.Run(context.Background(), "postgres:17",
		postgres.WithUsername("test_user"),
		postgres.WithDatabase("barn"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatal("error running test container: " + err.Error())
	}
	connStr, err := container.ConnectionString(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	connStr += "sslmode=disable"
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatal(err)
	}
	err = goose.Up(conn, "../../migrations")
	if err != nil {
		t.Fatal(err)
	}
	_, err = conn.Exec(`INSERT INTO users (id, name, password_hash) VALUES ($1, $2, $3);`, userID, "test_name", "pass_hash")
	if err != nil {
		t.Fatal(err)
	}
	conn.Close()
	t.Cleanup(func() {
		container.Terminate(context.Background())
	})
	return &testPGConfig{
		connStr: connStr,
	}
}
