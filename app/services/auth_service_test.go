package services_test

import (
	"testing"

	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/app/repositories"
	"github.com/eventnest/eventnest/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *services.AuthService {
	return services.NewAuthService(db, repositories.NewUserRepository(db))
}

func TestSignupCreatesUserAndProfile(t *testing.T) {
	db := newTestDB(t)
	auth := newAuthService(db)

	user, err := auth.Signup(services.SignupInput{
		Username: "asha",
		Email:    "Asha@Example.com",
		Password: "correct horse",
		FullName: "Asha Rahman",
		Phone:    "+8801712345678",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email) // normalised
	assert.NotEqual(t, "correct horse", user.Password)
	assert.False(t, user.Staff)

	var profile models.UserProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, "Asha Rahman", profile.FullName)
}

func TestSignupRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	auth := newAuthService(db)

	_, err := auth.Signup(services.SignupInput{
		Username: "asha", Email: "asha@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = auth.Signup(services.SignupInput{
		Username: "asha", Email: "other@example.com", Password: "correct horse",
	})
	assert.ErrorIs(t, err, services.ErrUsernameTaken)

	_, err = auth.Signup(services.SignupInput{
		Username: "asha2", Email: "asha@example.com", Password: "correct horse",
	})
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestLoginByUsernameOrEmail(t *testing.T) {
	db := newTestDB(t)
	auth := newAuthService(db)

	created, err := auth.Signup(services.SignupInput{
		Username: "asha", Email: "asha@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	byName, err := auth.Login("asha", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byEmail, err := auth.Login("Asha@Example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	auth := newAuthService(db)

	_, err := auth.Signup(services.SignupInput{
		Username: "asha", Email: "asha@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = auth.Login("asha", "wrong horse")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Unknown identities fail the same way as wrong passwords.
	_, err = auth.Login("nobody", "whatever")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}
