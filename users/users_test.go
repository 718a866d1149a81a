package users_test

import (
	"testing"

	"github.com/jsw-dev/portfolio-server/users"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Run("known roles", func(t *testing.T) {
		role, err := users.ParseRole("ADMIN")
		require.NoError(t, err)
		require.Equal(t, users.RoleAdmin, role)

		role, err = users.ParseRole("VISITOR")
		require.NoError(t, err)
		require.Equal(t, users.RoleVisitor, role)
	})

	t.Run("unknown role is rejected, not defaulted", func(t *testing.T) {
		_, err := users.ParseRole("SUPERUSER")
		require.Error(t, err)

		_, err = users.ParseRole("")
		require.Error(t, err)
	})
}

func TestRoleCapabilities(t *testing.T) {
	t.Run("visitor", func(t *testing.T) {
		require.True(t, users.RoleVisitor.Can(users.CapViewPortfolio))
		require.True(t, users.RoleVisitor.Can(users.CapManageAccount))
		require.False(t, users.RoleVisitor.Can(users.CapManageContent))
		require.False(t, users.RoleVisitor.Can(users.CapManageAccounts))
	})

	t.Run("admin has everything the visitor has", func(t *testing.T) {
		for _, c := range users.RoleVisitor.Capabilities() {
			require.True(t, users.RoleAdmin.Can(c))
		}
		require.True(t, users.RoleAdmin.Can(users.CapManageContent))
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := users.HashPassword("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hash)

	require.True(t, users.CheckPasswordHash("hunter2", hash))
	require.False(t, users.CheckPasswordHash("hunter3", hash))
	require.False(t, users.CheckPasswordHash("hunter2", "not-a-hash"))
}

func TestUserDeleted(t *testing.T) {
	u := &users.User{Email: "user@example.com"}
	require.False(t, u.Deleted())
}
