package api

import (
	"testing"
	"time"

	"user-api/internal/model"

	"github.com/stretchr/testify/require"
)

func TestPasswordConfirmed(t *testing.T) {
	pw, other := "password1", "password2"
	require.True(t, UpdateUserRequest{}.PasswordConfirmed())
	require.True(t, UpdateUserRequest{Password: &pw, PasswordConfirmation: &pw}.PasswordConfirmed())
	require.False(t, UpdateUserRequest{Password: &pw}.PasswordConfirmed())
	require.False(t, UpdateUserRequest{Password: &pw, PasswordConfirmation: &other}.PasswordConfirmed())
}

func TestNewUserResponses(t *testing.T) {
	now := time.Now()
	out := NewUserResponses([]model.User{{ID: 1, Name: "a", Email: "a@example.com", PasswordHash: "h", CreatedAt: now}})
	require.Len(t, out, 1)
	require.Equal(t, UserResponse{ID: 1, Name: "a", Email: "a@example.com", CreatedAt: now}, out[0])

	require.NotNil(t, NewUserResponses(nil))
}
