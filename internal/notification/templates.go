package notification

import "strings"

const (
	EventAttendanceAbsent     = "attendance_absent"
	EventAttendanceLate       = "attendance_late"
	EventStaffAttendanceLate  = "staff_attendance_late"
	EventFeeDueReminder       = "fee_due_reminder"
	EventFeeOverdue           = "fee_overdue"
	EventFeePaymentReceived   = "fee_payment_received"
	EventAdmissionSubmitted   = "admission_submitted"
	EventAdmissionApproved    = "admission_approved"
	EventAdmissionRejected    = "admission_rejected"
	EventExamScheduled        = "exam_scheduled"
	EventResultPublished      = "result_published"
	EventCalendarEvent        = "calendar_event"
	EventTimetableUpdate      = "timetable_update"
	EventTransportRouteChange = "transport_route_change"
	EventPayrollProcessed     = "payroll_processed"
	EventGeneralAnnouncement  = "general_announcement"
)

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const (
	TargetParent  = "parent"
	TargetStudent = "student"
	TargetStaff   = "staff"
	TargetAdmin   = "admin"
	TargetAll     = "all"
)

type Template struct {
	Title      string
	Body       string
	Priority   string
	TargetRole string
}

var templates = map[string]Template{
	EventAttendanceAbsent: {
		Title:      "Absence Alert",
		Body:       "{student_name} was marked absent on {date}. Reason: {reason}.",
		Priority:   PriorityHigh,
		TargetRole: TargetParent,
	},
	EventAttendanceLate: {
		Title:      "Late Arrival",
		Body:       "{student_name} arrived late on {date} at {check_in}.",
		Priority:   PriorityNormal,
		TargetRole: TargetParent,
	},
	EventStaffAttendanceLate: {
		Title:      "Late Check-in",
		Body:       "{staff_name} checked in late on {date} at {check_in}.",
		Priority:   PriorityNormal,
		TargetRole: TargetAdmin,
	},
	EventFeeDueReminder: {
		Title:      "Fee Due Reminder",
		Body:       "Fee of {amount} for {student_name} is due on {due_date}.",
		Priority:   PriorityNormal,
		TargetRole: TargetParent,
	},
	EventFeeOverdue: {
		Title:      "Fee Overdue",
		Body:       "Fee of {amount} for {student_name} was due on {due_date} and is now overdue.",
		Priority:   PriorityHigh,
		TargetRole: TargetParent,
	},
	EventFeePaymentReceived: {
		Title:      "Payment Received",
		Body:       "We received {amount} for {student_name}. Receipt: {receipt_no}.",
		Priority:   PriorityLow,
		TargetRole: TargetParent,
	},
	EventAdmissionSubmitted: {
		Title:      "Admission Submitted",
		Body:       "Admission application for {student_name} has been submitted.",
		Priority:   PriorityNormal,
		TargetRole: TargetAdmin,
	},
	EventAdmissionApproved: {
		Title:      "Admission Approved",
		Body:       "Admission for {student_name} has been approved.",
		Priority:   PriorityHigh,
		TargetRole: TargetParent,
	},
	EventAdmissionRejected: {
		Title:      "Admission Update",
		Body:       "Admission for {student_name} was not approved. {reason}",
		Priority:   PriorityHigh,
		TargetRole: TargetParent,
	},
	EventExamScheduled: {
		Title:      "Exam Scheduled",
		Body:       "{exam_name} is scheduled on {date}.",
		Priority:   PriorityNormal,
		TargetRole: TargetStudent,
	},
	EventResultPublished: {
		Title:      "Results Published",
		Body:       "Results for {exam_name} are now available.",
		Priority:   PriorityNormal,
		TargetRole: TargetParent,
	},
	EventCalendarEvent: {
		Title:      "{event_title}",
		Body:       "{event_title} on {date}.",
		Priority:   PriorityLow,
		TargetRole: TargetAll,
	},
	EventTimetableUpdate: {
		Title:      "Timetable Updated",
		Body:       "The timetable for {class_name} has changed.",
		Priority:   PriorityNormal,
		TargetRole: TargetStudent,
	},
	EventTransportRouteChange: {
		Title:      "Transport Route Change",
		Body:       "Route {route_name} has changed: {details}.",
		Priority:   PriorityHigh,
		TargetRole: TargetParent,
	},
	EventPayrollProcessed: {
		Title:      "Salary Processed",
		Body:       "Your salary for {month} {year} has been processed. Net payable: {net_payable}.",
		Priority:   PriorityNormal,
		TargetRole: TargetStaff,
	},
	EventGeneralAnnouncement: {
		Title:      "{title}",
		Body:       "{message}",
		Priority:   PriorityNormal,
		TargetRole: TargetAll,
	},
}

// TemplateFor falls back to the general announcement for unknown events.
func TemplateFor(eventType string) Template {
	if t, ok := templates[eventType]; ok {
		return t
	}
	return templates[EventGeneralAnnouncement]
}

// Render substitutes {key} placeholders. Placeholders without data are left
// as they are so a missing field is visible rather than silently blank.
func Render(text string, data map[string]string) string {
	if len(data) == 0 {
		return text
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
