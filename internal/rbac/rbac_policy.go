package rbac

const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RolePrincipal  = "principal"
	RoleAccountant = "accountant"
	RoleTeacher    = "teacher"
	RoleStaff      = "staff"
	RoleDevice     = "device"
)

const (
	ResourceAttendance     = "attendance"
	ResourceAttendanceRule = "attendance_rule"
	ResourceReport         = "attendance_report"
	ResourceLeave          = "leave"
	ResourcePayroll        = "payroll"
	ResourcePayrollSetup   = "payroll_setup"
	ResourceNotification   = "notification"
	ResourceEmployee       = "employee"
)

// ActionBackdate lets a role write or edit attendance for past dates directly
// instead of going through an edit request.
const ActionBackdate = "backdate"

type Permission struct {
	Role     string
	Resource string
	Action   string
}

// RoleInheritance makes Role receive every permission of Parent.
type RoleInheritance struct {
	Role   string
	Parent string
}

var DefaultPermissions = []Permission{
	{RoleTeacher, ResourceAttendance, "read"},
	{RoleTeacher, ResourceAttendance, "create"},
	{RoleTeacher, ResourceAttendance, "update"},
	{RoleTeacher, ResourceAttendanceRule, "read"},
	{RoleTeacher, ResourceReport, "read"},
	{RoleTeacher, ResourceLeave, "create"},
	{RoleTeacher, ResourceLeave, "read"},
	{RoleTeacher, ResourceNotification, "read"},

	{RoleStaff, ResourceLeave, "create"},
	{RoleStaff, ResourceLeave, "read"},
	{RoleStaff, ResourceNotification, "read"},

	{RoleDevice, ResourceAttendance, "sync"},

	{RoleAccountant, ResourcePayroll, "read"},
	{RoleAccountant, ResourcePayroll, "create"},
	{RoleAccountant, ResourcePayroll, "update"},
	{RoleAccountant, ResourcePayrollSetup, "read"},
	{RoleAccountant, ResourcePayrollSetup, "update"},
	{RoleAccountant, ResourceReport, "read"},
	{RoleAccountant, ResourceLeave, "read"},
	{RoleAccountant, ResourceNotification, "read"},
	{RoleAccountant, ResourceEmployee, "read"},

	{RolePrincipal, ResourceAttendance, "approve"},
	{RolePrincipal, ResourceAttendance, "sync"},
	{RolePrincipal, ResourceAttendance, ActionBackdate},
	{RolePrincipal, ResourceAttendance, "audit"},
	{RolePrincipal, ResourceAttendanceRule, "create"},
	{RolePrincipal, ResourceAttendanceRule, "update"},
	{RolePrincipal, ResourceAttendanceRule, "delete"},
	{RolePrincipal, ResourceLeave, "approve"},
	{RolePrincipal, ResourcePayroll, "read"},
	{RolePrincipal, ResourcePayroll, "approve"},
	{RolePrincipal, ResourceEmployee, "read"},

	{RoleAdmin, ResourcePayroll, "lock"},
	{RoleAdmin, ResourcePayroll, "pay"},
	{RoleAdmin, ResourcePayroll, "delete"},
	{RoleAdmin, ResourceLeave, "delete"},
	{RoleAdmin, ResourceNotification, "update"},
	{RoleAdmin, ResourceEmployee, "create"},
	{RoleAdmin, ResourceEmployee, "update"},
	{RoleAdmin, ResourceEmployee, "delete"},
}

var DefaultInheritance = []RoleInheritance{
	{RolePrincipal, RoleTeacher},
	{RoleAdmin, RolePrincipal},
	{RoleAdmin, RoleAccountant},
	{RoleSuperAdmin, RoleAdmin},
}
