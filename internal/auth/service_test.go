package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavindu-dev/furnicraft-backend/pkg/config"
	pkgerrors "github.com/kavindu-dev/furnicraft-backend/pkg/errors"
)

func testService(t *testing.T) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		Admin:   config.AdminConfig{Username: "admin", Password: "s3cure-pass"},
		Session: config.SessionConfig{Secret: "unit-test-secret", TTLMinutes: 60},
		Now:     func() time.Time { return time.Now() },
	})
	require.NoError(t, err)
	return svc
}

func TestLoginMintsVerifiableSession(t *testing.T) {
	svc := testService(t)

	result, err := svc.Login(context.Background(), LoginInput{Username: "admin", Password: "s3cure-pass"})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.Equal(t, "admin", result.Username)

	claims, err := svc.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := testService(t)

	_, err := svc.Login(context.Background(), LoginInput{Username: "admin", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLoginRejectsWrongUsernameWithSameError(t *testing.T) {
	svc := testService(t)

	_, wrongUser := svc.Login(context.Background(), LoginInput{Username: "root", Password: "s3cure-pass"})
	_, wrongPass := svc.Login(context.Background(), LoginInput{Username: "admin", Password: "nope"})

	require.Error(t, wrongUser)
	require.Error(t, wrongPass)
	assert.Equal(t, wrongPass.Error(), wrongUser.Error())
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc := testService(t)

	result, err := svc.Login(context.Background(), LoginInput{Username: "admin", Password: "s3cure-pass"})
	require.NoError(t, err)

	_, err = svc.Verify(result.Token + "x")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestNewServiceRequiresConfig(t *testing.T) {
	_, err := NewService(ServiceParams{
		Session: config.SessionConfig{Secret: "s", TTLMinutes: 60},
	})
	assert.Error(t, err)

	_, err = NewService(ServiceParams{
		Admin: config.AdminConfig{Username: "admin", Password: "pw"},
	})
	assert.Error(t, err)
}
