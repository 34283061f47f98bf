package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHomePath(t *testing.T) {
	require.Equal(t, "/admin/films", RoleAdmin.HomePath())
	require.Equal(t, "/staff/offers", RoleStaff.HomePath())
	require.Equal(t, "/customer/dashboard", RoleCustomer.HomePath())
	require.Equal(t, "/", Role("ghost").HomePath())
}

func TestAccountPrincipalUsesDomainRowID(t *testing.T) {
	customerID := uint64(3)
	staffID := uint64(5)

	customer := Account{ID: 10, Username: "mike", Role: RoleCustomer, CustomerID: &customerID}
	require.Equal(t, Principal{ID: 3, Username: "mike", Role: RoleCustomer}, customer.Principal())

	staff := Account{ID: 11, Username: "jane", Role: RoleStaff, StaffID: &staffID}
	require.Equal(t, Principal{ID: 5, Username: "jane", Role: RoleStaff}, staff.Principal())
}
