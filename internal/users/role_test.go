package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"user", "guide", "admin"} {
		r, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, s, r.String())
		assert.True(t, r.IsValid())
	}

	for _, s := range []string{"", "USER", "superuser"} {
		_, err := ParseRole(s)
		assert.Error(t, err, s)
	}
}

func TestCanSelfRegister(t *testing.T) {
	assert.True(t, RoleUser.CanSelfRegister())
	assert.True(t, RoleGuide.CanSelfRegister())
	assert.False(t, RoleAdmin.CanSelfRegister())
	assert.False(t, Role("root").CanSelfRegister())
}
