package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/life-bridge/internal/domain"
	apperrors "github.com/spec-kit/life-bridge/pkg/util/errorutil"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	session, err := f.auth.Register(f.ctx, RegisterInput{
		Name:       "Dan",
		Email:      "Dan@Example.com",
		Password:   "secret1",
		BloodGroup: "A+",
		Role:       "donor",
		Address:    "12 Main St",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "dan@example.com", session.User.Email)
	assert.Equal(t, domain.RoleDonor, session.User.Role)
	assert.False(t, session.User.IsAdmin)

	claims, err := f.auth.TokenManager().ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)

	login, err := f.auth.Login(f.ctx, LoginInput{Email: "dan@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, login.User.ID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	input := RegisterInput{Name: "Dan", Email: "dan@example.com", Password: "secret1", Role: "donor"}
	_, err := f.auth.Register(f.ctx, input)
	require.NoError(t, err)

	_, err = f.auth.Register(f.ctx, input)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Register(f.ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1", Role: "admin"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = f.auth.Register(f.ctx, RegisterInput{Name: "Ada", Email: "not-an-email", Password: "secret1", Role: "donor"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = f.auth.Register(f.ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1", Role: "donor", BloodGroup: "Q"})
	derr := apperrors.ToDomainError(err)
	assert.Contains(t, derr.Details, "validGroups")

	_, err = f.auth.Register(f.ctx, RegisterInput{Email: "ada@example.com"})
	derr = apperrors.ToDomainError(err)
	assert.ElementsMatch(t, []string{"name", "password", "role"}, derr.Details["fields"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Register(f.ctx, RegisterInput{Name: "Dan", Email: "dan@example.com", Password: "secret1", Role: "donor"})
	require.NoError(t, err)

	_, err = f.auth.Login(f.ctx, LoginInput{Email: "dan@example.com", Password: "wrong"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	_, err = f.auth.Login(f.ctx, LoginInput{Email: "nobody@example.com", Password: "wrong"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}
