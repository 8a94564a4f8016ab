package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	errorvalues "github.com/limbo/ceoos/internal/error_values"
	"github.com/limbo/ceoos/internal/schema"
	"github.com/limbo/ceoos/internal/service"
	"github.com/limbo/ceoos/pkg/httputil"
)

// @Summary List journal rows of the caller
// @Tags rows
// @Produce json
// @Param table path string true "Table name"
// @Param order query string false "Column to order by, newest first"
// @Security BearerAuth
// @Success 200 {array} map[string]any
// @Failure 400 {object} httputil.ErrorResponse
// @Router /rows/{table} [get]
func (s *Server) ListRows(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("list rows error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	table := chi.URLParam(r, "table")
	order := r.URL.Query().Get("order")
	if order == "" {
		order = schema.ColCreatedAt
		if t, err := schema.Lookup(table); err == nil && len(t.Order) > 0 {
			order = t.Order[0]
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	rows, err := s.rowsService.List(ctx, uid, &service.ListRowsRequest{
		Table:   table,
		OrderBy: order,
	})
	if err != nil {
		writeRowsError(w, logger, "list rows", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, rows)
	logger.Info("rows provided", slog.String("table", table), slog.Int("count", len(rows)))
}

// @Summary Newest row matching every query parameter
// @Tags rows
// @Produce json
// @Param table path string true "Table name"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} httputil.ErrorResponse
// @Router /rows/{table}/one [get]
func (s *Server) GetRow(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get row error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	table := chi.URLParam(r, "table")
	filter := schema.Row{}
	for col, values := range r.URL.Query() {
		if len(values) > 0 {
			filter[col] = values[0]
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	row, err := s.rowsService.FindOne(ctx, uid, table, filter)
	if err != nil {
		writeRowsError(w, logger, "get row", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, row)
}

// @Summary Store a journal row for the caller
// @Tags rows
// @Accept json
// @Produce json
// @Param table path string true "Table name"
// @Param row body map[string]any true "Column values"
// @Security BearerAuth
// @Success 201 {object} map[string]any
// @Failure 400 {object} httputil.ErrorResponse
// @Failure 409 {object} httputil.ErrorResponse
// @Router /rows/{table} [post]
func (s *Server) CreateRow(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create row error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var row schema.Row
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&row)
	if err != nil {
		logger.Error("create row error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	table := chi.URLParam(r, "table")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	stored, err := s.rowsService.Create(ctx, uid, table, row)
	if err != nil {
		writeRowsError(w, logger, "create row", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, stored)
	logger.Info("row created", slog.String("table", table))
}

// @Summary Change columns of a journal row
// @Tags rows
// @Accept json
// @Param table path string true "Table name"
// @Param id path string true "Row id"
// @Param changes body map[string]any true "Changed columns"
// @Security BearerAuth
// @Success 204
// @Failure 404 {object} httputil.ErrorResponse
// @Router /rows/{table}/{id} [patch]
func (s *Server) UpdateRow(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("update row error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var changes schema.Row
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&changes)
	if err != nil {
		logger.Error("update row error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	table := chi.URLParam(r, "table")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.rowsService.Update(ctx, uid, &service.RowRequest{
		Table: table,
		ID:    chi.URLParam(r, "id"),
	}, changes)
	if err != nil {
		writeRowsError(w, logger, "update row", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("row updated", slog.String("table", table))
}

func writeRowsError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, errorvalues.ErrUnknownTable),
		errors.Is(err, errorvalues.ErrUnknownColumn),
		errors.Is(err, errorvalues.ErrValidation):
		logger.Error(op+" error: bad request", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "unknown table or column", err)
	case errors.Is(err, errorvalues.ErrRecordNotFound):
		logger.Error(op + " error: unexist row")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "row doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrRecordExists):
		logger.Error(op + " error: duplicate row")
		httputil.WriteErrorResponse(w, http.StatusConflict, "row already exists", nil)
	case errors.Is(err, errorvalues.ErrUserNotFound):
		logger.Error(op + " error: unexist user")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "user doesn't exist", nil)
	default:
		logger.Error(op+" error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while "+op, nil)
	}
}
