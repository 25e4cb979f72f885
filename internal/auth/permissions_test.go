package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdminHasAllCapabilities(t *testing.T) {
	for _, cap := range []Capability{
		CapManageCatalog, CapManageUsers, CapRecordSale, CapDeleteSale,
		CapViewCompanyWide, CapAdjustStock, CapInitializeDatabase,
	} {
		require.True(t, HasCapability(RoleAdmin, cap), "admin should have %s", cap)
	}
}

func TestSalesRepCapabilities(t *testing.T) {
	require.True(t, HasCapability(RoleSalesRep, CapRecordSale))
	require.True(t, HasCapability(RoleSalesRep, CapManageCatalog))
	require.True(t, HasCapability(RoleSalesRep, CapAdjustStock))

	require.False(t, HasCapability(RoleSalesRep, CapDeleteSale))
	require.False(t, HasCapability(RoleSalesRep, CapManageUsers))
	require.False(t, HasCapability(RoleSalesRep, CapViewCompanyWide))
}

func TestUnknownRoleHasNoCapabilities(t *testing.T) {
	require.False(t, HasCapability("intern", CapRecordSale))
	require.False(t, HasCapability("", CapRecordSale))
}

func TestValidRole(t *testing.T) {
	require.True(t, ValidRole(RoleAdmin))
	require.True(t, ValidRole(RoleSalesRep))
	require.False(t, ValidRole("superuser"))
}
