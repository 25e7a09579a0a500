package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound indica que el registro no existe o no pertenece al owner.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indica una violacion de unicidad o una transicion ya aplicada.
	ErrConflict = errors.New("record conflict")
)

const pgUniqueViolation = "23505"

// normalizeErr traduce errores de los drivers a los sentinels del paquete.
func normalizeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return errors.Join(ErrConflict, err)
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && isSqliteUnique(liteErr) {
		return errors.Join(ErrConflict, err)
	}
	return err
}

func isSqliteUnique(err *sqlite.Error) bool {
	switch err.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// sin extended result codes solo llega el codigo base
		return strings.Contains(err.Error(), "UNIQUE constraint failed")
	}
	return false
}
