package attendancerule

type CreateRuleRequest struct {
	RuleType               string   `json:"rule_type" binding:"required,oneof=general class_wise shift_wise"`
	ClassID                *string  `json:"class_id" binding:"omitempty,uuid"`
	Shift                  *string  `json:"shift" binding:"omitempty,max=30"`
	LateThresholdMinutes   int      `json:"late_threshold_minutes" binding:"gte=0,lte=720"`
	AbsentThresholdMinutes int      `json:"absent_threshold_minutes" binding:"gte=0,lte=720"`
	HalfDayCheckoutTime    string   `json:"half_day_checkout_time" binding:"required"`
	SchoolStartTime        string   `json:"school_start_time" binding:"required"`
	SchoolEndTime          string   `json:"school_end_time" binding:"required"`
	ExcludedDays           []string `json:"excluded_days"`
	IsActive               *bool    `json:"is_active"`
}

type UpdateRuleRequest = CreateRuleRequest

type RuleResponse struct {
	ID                     string   `json:"id"`
	TenantID               string   `json:"tenant_id"`
	RuleType               string   `json:"rule_type"`
	ClassID                *string  `json:"class_id,omitempty"`
	Shift                  *string  `json:"shift,omitempty"`
	LateThresholdMinutes   int      `json:"late_threshold_minutes"`
	AbsentThresholdMinutes int      `json:"absent_threshold_minutes"`
	HalfDayCheckoutTime    string   `json:"half_day_checkout_time"`
	SchoolStartTime        string   `json:"school_start_time"`
	SchoolEndTime          string   `json:"school_end_time"`
	ExcludedDays           []string `json:"excluded_days"`
	IsActive               bool     `json:"is_active"`
	IsDefault              bool     `json:"is_default"`
	CreatedAt              string   `json:"created_at,omitempty"`
	UpdatedAt              string   `json:"updated_at,omitempty"`
}

type ListRulesFilter struct {
	RuleType string `form:"rule_type" binding:"omitempty,oneof=general class_wise shift_wise"`
}
