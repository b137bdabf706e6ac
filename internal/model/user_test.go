package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_PasswordHashNeverSerialized(t *testing.T) {
	user := User{
		ID:           1,
		Email:        "a@x.com",
		PasswordHash: "$2a$12$secret",
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	raw, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")

	raw, err = json.Marshal(user.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.Contains(t, string(raw), `"email":"a@x.com"`)
}
