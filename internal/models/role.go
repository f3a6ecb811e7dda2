package models

type Role string

const (
	RoleCustomer   Role = "customer"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// CanManage reports whether the role may run back-office transitions.
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}
