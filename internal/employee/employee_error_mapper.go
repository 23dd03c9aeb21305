package employee

import (
	"errors"

	employeeerrors "go-madrasah/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var uniqueConstraintErrors = map[string]error{
	"uq_employees_code":  employeeerrors.ErrEmployeeCodeAlreadyExists,
	"uq_employees_email": employeeerrors.ErrEmailTaken,
	"uq_employees_user":  employeeerrors.ErrUserAlreadyLinked,
}

func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if mapped, ok := uniqueConstraintErrors[pgErr.ConstraintName]; ok {
			return mapped
		}
	}
	return err
}
