package user

// Role enum
type Role string

const (
	RoleOwner      Role = "owner"      // Company owner - full access
	RoleAccountant Role = "accountant" // Runs payroll and maintains the rubric catalog
	RoleManager    Role = "manager"    // Reads payslips of the company
	RoleEmployee   Role = "employee"   // No payroll access
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAccountant, RoleManager, RoleEmployee:
		return true
	}
	return false
}
