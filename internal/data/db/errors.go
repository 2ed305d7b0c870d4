package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err came from a unique constraint on
// either Postgres or SQLite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ContainsPattern turns a user search term into a LIKE pattern matching it
// anywhere, with LIKE wildcards in the term escaped. Case folding is left to
// the database so column and term go through the same LOWER(): use with
// ContainsInsensitiveSQL.
func ContainsPattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// ContainsInsensitiveSQL is the WHERE clause for a case-insensitive substring
// match of col against a ContainsPattern argument.
func ContainsInsensitiveSQL(col string) string {
	return "LOWER(" + col + `) LIKE LOWER(?) ESCAPE '\'`
}

// PriorityRankSQL ranks task priorities so ORDER BY ... DESC puts URGENT first.
const PriorityRankSQL = "CASE priority WHEN 'URGENT' THEN 4 WHEN 'HIGH' THEN 3 WHEN 'MEDIUM' THEN 2 WHEN 'LOW' THEN 1 ELSE 0 END"
