package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitcollab/internal/application/dto"
	"gitcollab/internal/application/service"
	"gitcollab/internal/domain/errs"
	"gitcollab/internal/domain/identity"
	"gitcollab/internal/domain/user"
)

func TestUserService_LoginWithGitHub_CreatesThenReuses(t *testing.T) {
	users := newMockUserRepository()
	identities := newMockIdentityStore()
	publisher := &recordingPublisher{}
	svc := service.NewUserService(users, identities, publisher, nil)

	login := service.GitHubLogin{ExternalID: "42", Login: "octocat", Email: "octo@example.com", AccessToken: "tok-1"}

	first, err := svc.LoginWithGitHub(context.Background(), login)
	require.NoError(t, err)
	assert.Equal(t, "octocat", first.Username)
	assert.Equal(t, "octo@example.com", first.Email)
	assert.True(t, first.GitHubLinked)
	assert.Equal(t, []string{user.EventTypeUserCreated}, publisher.types())

	login.AccessToken = "tok-2"
	second, err := svc.LoginWithGitHub(context.Background(), login)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, users.users, 1)

	uid, _ := user.ParseUserID(first.ID)
	ident, err := identities.Lookup(context.Background(), uid, identity.ProviderGitHub)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", ident.Credential())
}

func TestUserService_LoginWithGitHub_UsernameTaken(t *testing.T) {
	users := newMockUserRepository()
	users.add("octocat")
	svc := service.NewUserService(users, newMockIdentityStore(), nil, nil)

	resp, err := svc.LoginWithGitHub(context.Background(), service.GitHubLogin{ExternalID: "7", Login: "octocat"})
	require.NoError(t, err)
	assert.Equal(t, "octocat-2", resp.Username)
	assert.Equal(t, "octocat", resp.GitHubUsername)
}

func TestUserService_LoginWithGitHub_InvalidEmailIgnored(t *testing.T) {
	svc := service.NewUserService(newMockUserRepository(), newMockIdentityStore(), nil, nil)

	resp, err := svc.LoginWithGitHub(context.Background(), service.GitHubLogin{ExternalID: "7", Login: "octocat", Email: "not-an-email"})
	require.NoError(t, err)
	assert.Empty(t, resp.Email)
}

func TestUserService_LoginWithGitHub_Errors(t *testing.T) {
	tests := []struct {
		name    string
		login   service.GitHubLogin
		prepare func(*mockUserRepository, *mockIdentityStore)
		check   func(t *testing.T, err error)
	}{
		{
			name:  "missing external id",
			login: service.GitHubLogin{Login: "octocat"},
			check: func(t *testing.T, err error) { assert.True(t, errs.HasCode(err, errs.CodeInvalidInput)) },
		},
		{
			name:    "identity store down",
			login:   service.GitHubLogin{ExternalID: "1", Login: "octocat"},
			prepare: func(_ *mockUserRepository, ids *mockIdentityStore) { ids.shouldError = true },
			check:   func(t *testing.T, err error) { assert.ErrorContains(t, err, "store error") },
		},
		{
			name:    "user repository down",
			login:   service.GitHubLogin{ExternalID: "1", Login: "octocat"},
			prepare: func(users *mockUserRepository, _ *mockIdentityStore) { users.shouldError = true },
			check:   func(t *testing.T, err error) { assert.ErrorContains(t, err, "repository error") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newMockUserRepository()
			ids := newMockIdentityStore()
			if tt.prepare != nil {
				tt.prepare(users, ids)
			}
			svc := service.NewUserService(users, ids, nil, nil)

			_, err := svc.LoginWithGitHub(context.Background(), tt.login)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestUserService_GetAndUpdate(t *testing.T) {
	users := newMockUserRepository()
	u := users.add("alice")
	svc := service.NewUserService(users, newMockIdentityStore(), nil, nil)

	got, err := svc.GetUserByID(context.Background(), u.ID().String())
	require.NoError(t, err)
	assert.False(t, got.GitHubLinked)

	_, err = svc.GetUserByID(context.Background(), "garbage")
	assert.True(t, errs.HasCode(err, errs.CodeInvalidInput))

	_, err = svc.GetUserByID(context.Background(), user.NewUserID().String())
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	email := "alice@example.com"
	updated, err := svc.UpdateUser(context.Background(), u.ID().String(), &dto.UpdateUserRequest{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)

	bad := "nope"
	_, err = svc.UpdateUser(context.Background(), u.ID().String(), &dto.UpdateUserRequest{Email: &bad})
	assert.True(t, errs.HasCode(err, errs.CodeInvalidInput))
}

func TestUserService_ListUsers(t *testing.T) {
	users := newMockUserRepository()
	users.add("alice")
	users.add("bob")
	users.add("carol")
	svc := service.NewUserService(users, newMockIdentityStore(), nil, nil)

	resp, err := svc.ListUsers(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, resp.Users, 1)
	assert.Equal(t, "carol", resp.Users[0].Username)
	assert.Equal(t, int64(2), resp.Pagination.TotalPages)
}

func TestUserService_GetUserByUsername(t *testing.T) {
	users := newMockUserRepository()
	u := users.add("alice")
	identities := newMockIdentityStore()
	identities.link(u, "alice-gh", "tok")
	svc := service.NewUserService(users, identities, nil, nil)

	got, err := svc.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID().String(), got.ID)
	assert.Equal(t, "alice-gh", got.GitHubUsername)

	_, err = svc.GetUserByUsername(context.Background(), "bob")
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = svc.GetUserByUsername(context.Background(), "")
	assert.True(t, errs.HasCode(err, errs.CodeInvalidInput))
}
