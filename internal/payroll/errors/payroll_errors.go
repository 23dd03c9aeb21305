package payrollerrors

import (
	"net/http"

	"go-madrasah/internal/shared/apperror"
)

var (
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidRunID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll run id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll period, expected year and month 1-12",
		http.StatusBadRequest,
	)
	ErrInvalidMoneyValue = apperror.New(
		apperror.CodeInvalidInput,
		"amounts must be valid non-negative numbers",
		http.StatusBadRequest,
	)
	ErrInvalidSettings = apperror.New(
		apperror.CodeValidation,
		"invalid payroll settings",
		http.StatusBadRequest,
	)
	ErrInvalidBonus = apperror.New(
		apperror.CodeValidation,
		"bonus needs an amount for fixed type or a percentage for percentage type",
		http.StatusBadRequest,
	)
	ErrBonusTargetRequired = apperror.New(
		apperror.CodeValidation,
		"bonus applicable to a department or individuals needs a target",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll status filter",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrStructureNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary structure not found",
		http.StatusNotFound,
	)
	ErrAdvanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"advance not found",
		http.StatusNotFound,
	)
	ErrBonusNotFound = apperror.New(
		apperror.CodeNotFound,
		"bonus not found",
		http.StatusNotFound,
	)
	ErrRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll run not found",
		http.StatusNotFound,
	)
	ErrItemNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll item not found",
		http.StatusNotFound,
	)
	ErrRunExists = apperror.New(
		apperror.CodeConflict,
		"payroll already processed for this period",
		http.StatusConflict,
	)
	ErrNoPayableEmployees = apperror.New(
		apperror.CodeInvalidState,
		"no active employees to process",
		http.StatusBadRequest,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid payroll status transition",
		http.StatusBadRequest,
	)
	ErrRunNotEditable = apperror.New(
		apperror.CodeInvalidState,
		"payroll items can only be changed while the run is DRAFT",
		http.StatusBadRequest,
	)
	ErrDeleteNotAllowed = apperror.New(
		apperror.CodeInvalidState,
		"payroll run can only be deleted while DRAFT or REJECTED",
		http.StatusBadRequest,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeValidation,
		"rejection reason is required",
		http.StatusBadRequest,
	)
)
