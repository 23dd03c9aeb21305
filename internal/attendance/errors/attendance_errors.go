package attendanceerrors

import (
	"net/http"

	"go-madrasah/internal/shared/apperror"
)

var (
	ErrInvalidPersonID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid person id",
		http.StatusBadRequest,
	)
	ErrInvalidClassID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid class id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"date_from must be before or equal date_to",
		http.StatusBadRequest,
	)
	ErrInvalidTime = apperror.New(
		apperror.CodeInvalidInput,
		"invalid time, expected HH:MM",
		http.StatusBadRequest,
	)
	ErrFutureDate = apperror.New(
		apperror.CodeInvalidInput,
		"attendance cannot be recorded for a future date",
		http.StatusBadRequest,
	)
	ErrPastDateNotAllowed = apperror.New(
		apperror.CodeForbidden,
		"past attendance can only be changed through an edit request",
		http.StatusForbidden,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance record not found",
		http.StatusNotFound,
	)
	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodeConflict,
		"already checked in for today",
		http.StatusConflict,
	)
	ErrCheckInNotFound = apperror.New(
		apperror.CodeInvalidState,
		"check in not found for today",
		http.StatusBadRequest,
	)
	ErrAlreadyCheckedOut = apperror.New(
		apperror.CodeConflict,
		"already checked out for today",
		http.StatusConflict,
	)
	ErrEditRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance edit request not found",
		http.StatusNotFound,
	)
	ErrEditRequestPending = apperror.New(
		apperror.CodeConflict,
		"a pending edit request already exists for this record",
		http.StatusConflict,
	)
	ErrEditRequestNotPending = apperror.New(
		apperror.CodeInvalidState,
		"edit request is no longer pending",
		http.StatusBadRequest,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection reason is required",
		http.StatusBadRequest,
	)
	ErrEmptyBatch = apperror.New(
		apperror.CodeInvalidInput,
		"sync batch has no records",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid month or year",
		http.StatusBadRequest,
	)
)
