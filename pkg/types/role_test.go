package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRole_Valid(t *testing.T) {
	require.True(t, RoleMember.Valid())
	require.True(t, RoleManager.Valid())
	require.True(t, RoleAdmin.Valid())
	require.False(t, Role("owner").Valid())
}

func TestRole_CanResolveApprovals(t *testing.T) {
	require.False(t, RoleMember.CanResolveApprovals())
	require.True(t, RoleManager.CanResolveApprovals())
	require.True(t, RoleAdmin.CanResolveApprovals())
}

func TestRole_SeesAllSubscriptions(t *testing.T) {
	require.False(t, RoleMember.SeesAllSubscriptions())
	require.True(t, RoleManager.SeesAllSubscriptions())
	require.True(t, RoleAdmin.SeesAllSubscriptions())
}
