package errors

import (
	stderrs "errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// sqliteCode returns the extended result code of a modernc sqlite error
func sqliteCode(err error) (int, bool) {
	var e *sqlite.Error
	if !stderrs.As(err, &e) {
		return 0, false
	}
	return e.Code(), true
}

// sqliteErrorCode maps SQLite result codes the way DBErrorCode maps SQLSTATEs
func sqliteErrorCode(err error) (ErrorCode, bool) {
	code, ok := sqliteCode(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return ErrorCodeDuplicateKey, true
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL, sqlite3.SQLITE_CONSTRAINT_CHECK:
		return ErrorCodeValidation, true
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return ErrorCodeInvalidArgument, true
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_READONLY:
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}
