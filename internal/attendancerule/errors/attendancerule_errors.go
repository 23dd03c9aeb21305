package attendanceruleerrors

import (
	"net/http"

	"go-madrasah/internal/shared/apperror"
)

var (
	ErrRuleNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance rule not found",
		http.StatusNotFound,
	)
	ErrInvalidRuleID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid attendance rule id",
		http.StatusBadRequest,
	)
	ErrInvalidTime = apperror.New(
		apperror.CodeInvalidInput,
		"invalid time, expected HH:MM",
		http.StatusBadRequest,
	)
	ErrInvalidSchoolHours = apperror.New(
		apperror.CodeInvalidInput,
		"school_start_time must be before school_end_time",
		http.StatusBadRequest,
	)
	ErrInvalidThresholds = apperror.New(
		apperror.CodeInvalidInput,
		"absent_threshold_minutes must be greater than late_threshold_minutes",
		http.StatusBadRequest,
	)
	ErrInvalidWeekday = apperror.New(
		apperror.CodeInvalidInput,
		"excluded_days contains an unknown weekday",
		http.StatusBadRequest,
	)
	ErrClassRequired = apperror.New(
		apperror.CodeInvalidInput,
		"class_id is required for class_wise rules",
		http.StatusBadRequest,
	)
	ErrShiftRequired = apperror.New(
		apperror.CodeInvalidInput,
		"shift is required for shift_wise rules",
		http.StatusBadRequest,
	)
)
