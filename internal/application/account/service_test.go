package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quilkalam-api/internal/config"
	"quilkalam-api/internal/domain/service"
	"quilkalam-api/internal/infrastructure/identity"
	"quilkalam-api/internal/testutil"
	apperrors "quilkalam-api/pkg/errors"
)

func newService(t *testing.T) (*Service, *testutil.Repos, *testutil.FakeBlobStore, *identity.JWTProvider) {
	t.Helper()
	repos := testutil.NewRepos(t)
	blobs := &testutil.FakeBlobStore{}
	provider := identity.NewJWTProvider(&config.JWTConfig{Secret: "test-secret", Issuer: "test", Expiration: time.Hour})
	return NewService(repos.Users, provider, blobs), repos, blobs, provider
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _, provider := newService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, " 5552223333 ", "hunter22", "Writer")
	require.NoError(t, err)
	assert.Equal(t, "5552223333", res.User.PhoneNumber)
	assert.Equal(t, "Writer", res.User.DisplayName)
	assert.NotEqual(t, "hunter22", res.User.PasswordHash)

	id, err := provider.Verify(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id.UserID)

	_, err = svc.Register(ctx, "5552223333", "another1", "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	login, err := svc.Login(ctx, "5552223333", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)
	assert.NotEmpty(t, login.Token)

	_, err = svc.Login(ctx, "5552223333", "wrong-pass")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	assert.Equal(t, "invalid phone number or password", apperrors.AsAppError(err).Message)

	_, err = svc.Login(ctx, "0000000000", "hunter22")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "12345", "hunter22", "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))

	_, err = svc.Register(ctx, "5552223333", "short", "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))
}

func TestLogin_InactiveUserRejected(t *testing.T) {
	svc, repos, _, _ := newService(t)
	ctx := context.Background()

	user := repos.CreateUser(t, "5554445555", "Dormant")
	require.NoError(t, repos.Users.UpdateFields(ctx, user.ID, map[string]any{"is_active": false}))

	_, err := svc.Login(ctx, "5554445555", "secret123")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestUpdateProfile(t *testing.T) {
	svc, repos, blobs, _ := newService(t)
	ctx := context.Background()
	id := testutil.Identity(repos.CreateUser(t, "5556667777", "Before"))

	_, err := svc.UpdateProfile(ctx, id, ProfilePatch{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))

	bad := "not-an-email"
	_, err = svc.UpdateProfile(ctx, id, ProfilePatch{Email: &bad})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))

	name, email, image := "After", "writer@example.com", "data:image/png;base64,AAAA"
	user, err := svc.UpdateProfile(ctx, id, ProfilePatch{DisplayName: &name, Email: &email, ProfileImage: &image})
	require.NoError(t, err)
	assert.Equal(t, "After", user.DisplayName)
	assert.Equal(t, "writer@example.com", user.Email)
	assert.Equal(t, "https://cdn.test/profiles/blob-1.png", user.ProfileImageURL)
	assert.Equal(t, []string{"profiles"}, blobs.Puts)

	bio := ""
	user, err = svc.UpdateProfile(ctx, id, ProfilePatch{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "After", user.DisplayName)

	_, err = svc.GetProfile(ctx, service.Identity{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestUploadImage(t *testing.T) {
	svc, repos, blobs, _ := newService(t)
	ctx := context.Background()
	id := testutil.Identity(repos.CreateUser(t, "5558889999", "Uploader"))

	ref, err := svc.UploadImage(ctx, id, "data:image/png;base64,AAAA", "")
	require.NoError(t, err)
	assert.Equal(t, "uploads/blob-1.png", ref.Key)

	ref, err = svc.UploadImage(ctx, id, "data:image/png;base64,AAAA", "covers")
	require.NoError(t, err)
	assert.Equal(t, "covers/blob-2.png", ref.Key)

	_, err = svc.UploadImage(ctx, id, "https://example.com/x.png", "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))

	blobs.Err = errors.New("disk full")
	_, err = svc.UploadImage(ctx, id, "data:image/png;base64,AAAA", "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStorageError))
}
