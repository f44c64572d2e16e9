package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChannel_FreshIdentity(t *testing.T) {
	a := NewChannel("Default Channel", true)
	b := NewChannel("Default Channel", true)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.CreatedAt.IsZero())
	assert.Equal(t, "UTC", a.CreatedAt.Location().String())
}

func TestChannel_JSONLayout(t *testing.T) {
	ch := NewChannel("Premium Channel", false)

	data, err := json.Marshal(ch)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, k := range []string{"id", "name", "allow_global_login", "created_at"} {
		assert.Contains(t, raw, k)
	}
}

func TestSysUser_JSONLayout(t *testing.T) {
	data, err := json.Marshal(NewDefaultUser())
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"admin@example.com","password":"password123","isLoggedIn":false}`, string(data))
}

func TestSysUser_IsLegacy(t *testing.T) {
	u := SysUser{Email: "mirsat@example.com"}
	assert.True(t, u.IsLegacy())

	u.Email = DefaultUserEmail
	assert.False(t, u.IsLegacy())
}
