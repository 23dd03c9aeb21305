package notification

// NotifyRequest is what producers hand to the dispatcher. PersonID/PersonType
// let the worker look up the recipient when RecipientID is empty.
type NotifyRequest struct {
	TenantID       string
	EventType      string
	Data           map[string]string
	TargetRole     string
	RecipientID    string
	RecipientEmail string
	PersonID       string
	PersonType     string
}

type ListInboxFilter struct {
	UnreadOnly bool `form:"unread_only"`
	Page       int  `form:"-"`
	PageSize   int  `form:"-"`
}

type NotificationResponse struct {
	ID        string         `json:"id"`
	EventType string         `json:"event_type"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Priority  string         `json:"priority"`
	Data      map[string]any `json:"data,omitempty"`
	IsRead    bool           `json:"is_read"`
	ReadAt    *string        `json:"read_at,omitempty"`
	CreatedAt string         `json:"created_at"`
}

type SettingsRequest struct {
	AttendanceNotificationsEnabled *bool `json:"attendance_notifications_enabled" binding:"required"`
	EmailEnabled                   *bool `json:"email_enabled" binding:"required"`
}

type SettingsResponse struct {
	AttendanceNotificationsEnabled bool `json:"attendance_notifications_enabled"`
	EmailEnabled                   bool `json:"email_enabled"`
}
