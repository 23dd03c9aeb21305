package employeeerrors

import (
	"net/http"

	"go-madrasah/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound  = apperror.New(apperror.CodeNotFound, "Employee not found", http.StatusNotFound)
	ErrInvalidEmployeeID = apperror.New(apperror.CodeInvalidInput, "Invalid employee ID", http.StatusBadRequest)
)

// Uniqueness is per madrasah; the same teacher may be on staff at two tenants.
var (
	ErrEmployeeCodeAlreadyExists = apperror.New(apperror.CodeConflict, "Employee code already exists in this madrasah", http.StatusConflict)
	ErrEmailTaken                = apperror.New(apperror.CodeConflict, "Another employee in this madrasah uses this email", http.StatusConflict)
	ErrUserAlreadyLinked         = apperror.New(apperror.CodeConflict, "This user account is already linked to an employee", http.StatusConflict)
)

var (
	ErrInvalidJoinedAt = apperror.New(apperror.CodeInvalidInput, "joined_at must be a date in YYYY-MM-DD format", http.StatusBadRequest)
	ErrInvalidSalary   = apperror.New(apperror.CodeInvalidInput, "monthly_salary must be a non-negative amount", http.StatusBadRequest)
)
