package shared

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"perftrack/internal/platform/requestctx"
	"perftrack/internal/transport/http/api"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// WriteStoreError maps database failures onto the API error taxonomy:
// missing rows are 404, duplicate keys 409, broken references 400 and
// everything else an opaque 500.
func WriteStoreError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := requestctx.GetRequestID(r.Context())

	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "resource not found", reqID)
		return
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			api.Fail(w, http.StatusConflict, "conflict", "resource already exists", reqID)
			return
		case pgForeignKeyViolation:
			api.Fail(w, http.StatusBadRequest, "invalid_reference", "referenced resource does not exist", reqID)
			return
		}
	}

	slog.Error("store operation failed", "err", err, "path", r.URL.Path, "requestId", reqID)
	api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", reqID)
}
