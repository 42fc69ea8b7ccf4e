package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fastygo/careflow/domain"
)

// DB is the subset of *pgxpool.Pool used by the repositories.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type scanner interface {
	Scan(dest ...interface{}) error
}

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	// invalid_text_representation: a path id that is not a UUID.
	codeInvalidText         = "22P02"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == codeUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == codeForeignKeyViolation
}

// isMalformedID reports whether err is PostgreSQL rejecting an id literal.
// Such an id cannot match any row.
func isMalformedID(err error) bool {
	return pgErrorCode(err) == codeInvalidText
}

// notFound maps a missing row or a malformed id to target.
func notFound(err, target error) error {
	if errors.Is(err, pgx.ErrNoRows) || isMalformedID(err) {
		return target
	}
	return err
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullDate(d *domain.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.Time
}

// nullString stores empty optional text as NULL.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optString[T ~string](v *T) interface{} {
	if v == nil {
		return nil
	}
	return string(*v)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}
