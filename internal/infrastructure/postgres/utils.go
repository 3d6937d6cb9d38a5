package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// nullString NULL para cadenas vacías (columnas FK opcionales).
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullDate NULL para fechas sin valor.
func nullDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
