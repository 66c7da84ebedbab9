package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(ttl time.Duration) *JWTService {
	return NewJWTService("test-signing-key", "bigoffice", "bigoffice-api", ttl)
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService(time.Hour)

	token, err := svc.GenerateActorToken("11111111-1111-1111-1111-111111111111", "hr", "hr.officer")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", claims.Subject)
	assert.Equal(t, "hr", claims.Role)
	assert.Equal(t, "hr.officer", claims.Username)
}

func TestValidateToken_WrongKey(t *testing.T) {
	token, err := newTestService(time.Hour).GenerateActorToken("11111111-1111-1111-1111-111111111111", "admin", "")
	require.NoError(t, err)

	other := NewJWTService("different-key", "bigoffice", "bigoffice-api", time.Hour)
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestService(-time.Minute)
	token, err := svc.GenerateActorToken("11111111-1111-1111-1111-111111111111", "hr", "")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestMiddlewareAdapter(t *testing.T) {
	svc := newTestService(time.Hour)
	token, err := svc.GenerateActorToken("22222222-2222-2222-2222-222222222222", "manager", "m.khan")
	require.NoError(t, err)

	claims, err := NewMiddlewareAdapter(svc).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "22222222-2222-2222-2222-222222222222", claims.UserID)
}
