package auth

// Roles form a closed set; anything else is rejected at registration.
const (
	RoleAdmin    = "admin"
	RoleSalesRep = "sales_rep"
)

// Capability names every privileged action. Authorization is a table lookup
// keyed by role, never an ad hoc conditional at the call site.
type Capability string

const (
	CapManageCatalog      Capability = "manage_catalog"
	CapManageUsers        Capability = "manage_users"
	CapRecordSale         Capability = "record_sale"
	CapDeleteSale         Capability = "delete_sale"
	CapViewCompanyWide    Capability = "view_company_wide"
	CapAdjustStock        Capability = "adjust_stock"
	CapInitializeDatabase Capability = "initialize_database"
)

var rolePermissions = map[string]map[Capability]bool{
	RoleAdmin: {
		CapManageCatalog:      true,
		CapManageUsers:        true,
		CapRecordSale:         true,
		CapDeleteSale:         true,
		CapViewCompanyWide:    true,
		CapAdjustStock:        true,
		CapInitializeDatabase: true,
	},
	RoleSalesRep: {
		CapManageCatalog: true,
		CapRecordSale:    true,
		CapAdjustStock:   true,
	},
}

// HasCapability reports whether role may perform cap. Unknown roles have no
// capabilities.
func HasCapability(role string, cap Capability) bool {
	return rolePermissions[role][cap]
}

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	_, ok := rolePermissions[role]
	return ok
}
