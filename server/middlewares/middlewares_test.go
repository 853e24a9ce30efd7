package middlewares

import (
	"context"
	"testing"

	"github.com/blogsphere/blogsphere/model"
	"github.com/blogsphere/blogsphere/utils"
	"github.com/stretchr/testify/require"
)

func TestFakeVerifierParsesTokens(t *testing.T) {
	v := FakeVerifier{}

	claims, err := v.VerifyIDToken(context.Background(), "uid-1|a@b.com|Alice|http://pic")
	require.NoError(t, err)
	require.Equal(t, "uid-1", claims.UID)
	require.Equal(t, "a@b.com", claims.Email)
	require.Equal(t, "Alice", claims.Name)
	require.Equal(t, "http://pic", claims.Picture)

	claims, err = v.VerifyIDToken(context.Background(), "uid-2|b@c.com")
	require.NoError(t, err)
	require.Equal(t, "uid-2", claims.UID)
	require.Empty(t, claims.Name)

	_, err = v.VerifyIDToken(context.Background(), "garbage")
	require.Error(t, err)
}

func TestSyncUserFirstSignupGetsAdmin(t *testing.T) {
	db := utils.NewTestDB(t)

	first, err := syncUser(db, &TokenClaims{UID: "uid-1", Email: "first@example.com"})
	require.NoError(t, err)
	require.Equal(t, model.UserRoleAdmin, first.Role)
	// No name claim falls back to the email prefix.
	require.Equal(t, "first", first.Name)

	second, err := syncUser(db, &TokenClaims{UID: "uid-2", Email: "second@example.com", Name: "Second"})
	require.NoError(t, err)
	require.Equal(t, model.UserRoleUser, second.Role)
	require.Equal(t, "Second", second.Name)

	// Settings rows are created alongside the users.
	var count int64
	db.Model(&model.UserSettings{}).Count(&count)
	require.EqualValues(t, 2, count)
}

func TestSyncUserOverwritesProviderOwnedFields(t *testing.T) {
	db := utils.NewTestDB(t)

	created, err := syncUser(db, &TokenClaims{UID: "uid-1", Email: "a@example.com", Name: "Old Name"})
	require.NoError(t, err)

	synced, err := syncUser(db, &TokenClaims{
		UID:     "uid-1",
		Email:   "new@example.com",
		Name:    "New Name",
		Picture: "http://avatar",
	})
	require.NoError(t, err)
	require.Equal(t, created.Id, synced.Id)

	var user model.User
	db.Where("id = ?", created.Id).First(&user)
	require.Equal(t, "New Name", user.Name)
	require.Equal(t, "new@example.com", user.Email)
	require.Equal(t, "http://avatar", user.AvatarUrl)

	var count int64
	db.Model(&model.User{}).Count(&count)
	require.EqualValues(t, 1, count)
}
