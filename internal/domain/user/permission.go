package user

type Permission string

const (
	// Employee permissions
	PermissionEmployeeViewAll Permission = "employee.view_all"

	// Payroll permissions
	PermissionPayrollView      Permission = "payroll.view"
	PermissionPayrollCalculate Permission = "payroll.calculate"
	PermissionRubricManage     Permission = "payroll.manage_rubrics"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionEmployeeViewAll,
		PermissionPayrollView,
		PermissionPayrollCalculate,
		PermissionRubricManage,
	},
	RoleAccountant: {
		PermissionEmployeeViewAll,
		PermissionPayrollView,
		PermissionPayrollCalculate,
		PermissionRubricManage,
	},
	RoleManager: {
		PermissionEmployeeViewAll,
		PermissionPayrollView,
	},
	RoleEmployee: {},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
