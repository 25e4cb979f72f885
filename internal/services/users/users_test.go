package users

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tradedesk-system/internal/apperr"
	"tradedesk-system/internal/auth"
	"tradedesk-system/internal/database/models"
)

func testService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return NewService(db, auth.NewTokenManager("test-secret")), db
}

func validInput() RegisterInput {
	return RegisterInput{
		Username: "newrep",
		Email:    "newrep@example.com",
		Password: "abcdef",
		FullName: "New Rep",
	}
}

func TestRegisterDefaultsToSalesRep(t *testing.T) {
	svc, _ := testService(t)

	user, token, err := svc.Register(validInput())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, auth.RoleSalesRep, user.Role)
	require.True(t, user.IsActive)
	require.NotEqual(t, "abcdef", user.Password, "password must be stored hashed")
}

func TestRegisterPasswordLength(t *testing.T) {
	svc, _ := testService(t)

	in := validInput()
	in.Password = "abc12"
	_, _, err := svc.Register(in)
	require.Error(t, err)
	require.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	require.Contains(t, apperr.MessageOf(err), "at least 6 characters")

	in.Password = "abcdef"
	_, _, err = svc.Register(in)
	require.NoError(t, err)
}

func TestRegisterCollectsAllProblems(t *testing.T) {
	svc, _ := testService(t)

	_, _, err := svc.Register(RegisterInput{
		Username: "x!",
		Email:    "not-an-email",
		Password: "123",
		FullName: "a",
		Role:     "superuser",
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	msg := apperr.MessageOf(err)
	require.Contains(t, msg, "username")
	require.Contains(t, msg, "email")
	require.Contains(t, msg, "password")
	require.Contains(t, msg, "full_name")
	require.Contains(t, msg, "role")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := testService(t)

	_, _, err := svc.Register(validInput())
	require.NoError(t, err)

	dup := validInput()
	dup.Email = "other@example.com"
	_, _, err = svc.Register(dup)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := testService(t)

	_, _, err := svc.Register(validInput())
	require.NoError(t, err)

	dup := validInput()
	dup.Username = "otherrep"
	_, _, err = svc.Register(dup)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRegisterLowercasesEmail(t *testing.T) {
	svc, _ := testService(t)

	in := validInput()
	in.Email = "NewRep@Example.COM"
	user, _, err := svc.Register(in)
	require.NoError(t, err)
	require.Equal(t, "newrep@example.com", user.Email)
}

func TestLoginSuccessRecordsLastLogin(t *testing.T) {
	svc, db := testService(t)

	registered, _, err := svc.Register(validInput())
	require.NoError(t, err)
	require.Nil(t, registered.LastLogin)

	user, token, err := svc.Login("newrep", "abcdef")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, registered.ID, user.ID)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	require.NotNil(t, reloaded.LastLogin)
}

func TestLoginFailures(t *testing.T) {
	svc, db := testService(t)

	_, _, err := svc.Register(validInput())
	require.NoError(t, err)

	t.Run("missing fields", func(t *testing.T) {
		_, _, err := svc.Login("", "")
		require.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	})

	t.Run("unknown username", func(t *testing.T) {
		_, _, err := svc.Login("nobody", "abcdef")
		require.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login("newrep", "wrong!")
		require.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	})

	t.Run("inactive account", func(t *testing.T) {
		require.NoError(t, db.Model(&models.User{}).Where("username = ?", "newrep").Update("is_active", false).Error)
		_, _, err := svc.Login("newrep", "abcdef")
		require.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	})
}

func TestResolve(t *testing.T) {
	svc, db := testService(t)

	user, _, err := svc.Register(validInput())
	require.NoError(t, err)

	resolved, err := svc.Resolve(user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Username, resolved.Username)

	_, err = svc.Resolve(999)
	require.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)
	_, err = svc.Resolve(user.ID)
	require.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}
