package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/ceoos/internal/error_values"
	"github.com/limbo/ceoos/internal/schema"
)

// RowsRepository serves every journal table through one set of queries.
// Table and column names are checked against the schema before they are
// put into SQL, values always travel as parameters.
type RowsRepository struct {
	conn PgConnection
}

func NewRowsRepo(cfg DBConfig) *RowsRepository {
	return &RowsRepository{
		conn: sharedPool(cfg, "rowsRepo"),
	}
}

func NewRowsRepoWithConn(conn PgConnection) *RowsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for rowsRepo: " + err.Error())
	}
	return &RowsRepository{
		conn: conn,
	}
}

func (rr *RowsRepository) SelectAll(ctx context.Context, table string, userID uuid.UUID, orderBy string) ([]schema.Row, error) {
	t, err := schema.Lookup(table)
	if err != nil {
		return nil, err
	}
	if !t.CanOrderBy(orderBy) {
		return nil, fmt.Errorf("%w: cannot order %s by %s", errorvalues.ErrUnknownColumn, table, orderBy)
	}
	order := "t." + orderBy + " DESC"
	if orderBy != schema.ColCreatedAt {
		order += ", t." + schema.ColCreatedAt + " DESC"
	}
	query := fmt.Sprintf(`SELECT to_jsonb(t) FROM %s t WHERE t.user_id = $1 ORDER BY %s;`, t.Name, order)
	rows, err := rr.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, errors.New("selecting rows error: " + err.Error())
	}
	defer rows.Close()
	result := make([]schema.Row, 0)
	for rows.Next() {
		var raw []byte
		if err = rows.Scan(&raw); err != nil {
			return nil, errors.New("scanning row error: " + err.Error())
		}
		row, err := decodeRow(raw)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("reading rows error: " + err.Error())
	}
	return result, nil
}

func (rr *RowsRepository) SelectOne(ctx context.Context, table string, userID uuid.UUID, filter schema.Row) (schema.Row, error) {
	t, err := schema.Lookup(table)
	if err != nil {
		return nil, err
	}
	conds := []string{"t.user_id = $1"}
	args := []any{userID}
	for _, col := range sortedKeys(filter) {
		if !t.CanFilterBy(col) {
			return nil, fmt.Errorf("%w: cannot filter %s by %s", errorvalues.ErrUnknownColumn, table, col)
		}
		kind, _ := t.Column(col)
		arg, err := toArg(kind, filter[col])
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf("t.%s = $%d::%s", col, len(args), kind))
	}
	query := fmt.Sprintf(`SELECT to_jsonb(t) FROM %s t WHERE %s ORDER BY t.created_at DESC LIMIT 1;`,
		t.Name, strings.Join(conds, " AND "))
	var raw []byte
	err = rr.conn.QueryRow(ctx, query, args...).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.New("selecting row error: " + err.Error())
	}
	return decodeRow(raw)
}

func (rr *RowsRepository) Insert(ctx context.Context, table string, row schema.Row) (schema.Row, error) {
	t, err := schema.Lookup(table)
	if err != nil {
		return nil, err
	}
	if _, ok := row[schema.ColUserID]; !ok {
		return nil, fmt.Errorf("%w: %s.%s is required", errorvalues.ErrUnknownColumn, table, schema.ColUserID)
	}
	cols := make([]string, 0, len(row))
	placeholders := make([]string, 0, len(row))
	args := make([]any, 0, len(row))
	for _, col := range sortedKeys(row) {
		// assigned by the database
		if col == schema.ColID || col == schema.ColCreatedAt || col == schema.ColUpdatedAt {
			continue
		}
		kind, err := t.Column(col)
		if err != nil {
			return nil, err
		}
		arg, err := toArg(kind, row[col])
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		cols = append(cols, col)
		placeholders = append(placeholders, fmt.Sprintf("$%d::%s", len(args), kind))
	}
	query := fmt.Sprintf(`INSERT INTO %s AS t (%s) VALUES (%s) RETURNING to_jsonb(t);`,
		t.Name, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	var raw []byte
	err = rr.conn.QueryRow(ctx, query, args...).Scan(&raw)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return nil, fmt.Errorf("%w: %s", errorvalues.ErrRecordExists, table)
			// Foreign key violation
			case "23503":
				return nil, errorvalues.ErrUserNotFound
			}
		}
		return nil, errors.New("inserting row error: " + err.Error())
	}
	return decodeRow(raw)
}

func (rr *RowsRepository) Update(ctx context.Context, table string, id string, userID uuid.UUID, changes schema.Row) error {
	t, err := schema.Lookup(table)
	if err != nil {
		return err
	}
	rowID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %s", errorvalues.ErrRecordNotFound, id)
	}
	sets := make([]string, 0, len(changes))
	args := make([]any, 0, len(changes)+2)
	for _, col := range sortedKeys(changes) {
		if col == schema.ColID || col == schema.ColUserID || col == schema.ColCreatedAt {
			return fmt.Errorf("%w: %s.%s is read-only", errorvalues.ErrUnknownColumn, table, col)
		}
		kind, err := t.Column(col)
		if err != nil {
			return err
		}
		arg, err := toArg(kind, changes[col])
		if err != nil {
			return err
		}
		args = append(args, arg)
		sets = append(sets, fmt.Sprintf("%s = $%d::%s", col, len(args), kind))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, rowID, userID)
	query := fmt.Sprintf(`UPDATE %s AS t SET %s WHERE t.id = $%d AND t.user_id = $%d;`,
		t.Name, strings.Join(sets, ", "), len(args)-1, len(args))
	ct, err := rr.conn.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: %s", errorvalues.ErrRecordExists, table)
		}
		return errors.New("updating row error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", errorvalues.ErrRecordNotFound, id)
	}
	return nil
}

func decodeRow(raw []byte) (schema.Row, error) {
	var row schema.Row
	if err := sonic.Unmarshal(raw, &row); err != nil {
		return nil, errors.New("decoding row error: " + err.Error())
	}
	return row, nil
}

// toArg converts a wire value into something pgx can bind to a column of
// kind. nil always stays nil.
func toArg(kind schema.Kind, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch kind {
	case schema.TextArray:
		switch list := v.(type) {
		case []string:
			return list, nil
		case []any:
			out := make([]string, 0, len(list))
			for _, item := range list {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("%w: list item %v is not text", errorvalues.ErrUnknownColumn, item)
				}
				out = append(out, s)
			}
			return out, nil
		}
		return nil, fmt.Errorf("%w: %T is not a list", errorvalues.ErrUnknownColumn, v)
	case schema.JSON:
		switch doc := v.(type) {
		case json.RawMessage:
			return string(doc), nil
		case []byte:
			return string(doc), nil
		}
		b, err := sonic.Marshal(v)
		if err != nil {
			return nil, errors.New("encoding json column error: " + err.Error())
		}
		return string(b), nil
	case schema.Integer:
		switch n := v.(type) {
		case float64:
			return int64(n), nil
		case json.Number:
			return n.Int64()
		}
	}
	return v, nil
}

func sortedKeys(row schema.Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
