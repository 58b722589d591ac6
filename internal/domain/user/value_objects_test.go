package user_test

import (
	"strings"
	"testing"

	"gitcollab/internal/domain/user"
)

func TestNewEmail(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		wantErr   bool
		wantEmpty bool
	}{
		{"valid email", "test@example.com", false, false},
		{"valid email with subdomain", "user@mail.example.com", false, false},
		{"empty email is allowed", "", false, true},
		{"blank email is allowed", "   ", false, true},
		{"invalid format no @", "notanemail", true, false},
		{"invalid format no domain", "test@", true, false},
		{"too long email", strings.Repeat("a", 256) + "@example.com", true, false},
		{"uppercase converted to lowercase", "TEST@EXAMPLE.COM", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := user.NewEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewEmail() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && email.IsEmpty() != tt.wantEmpty {
				t.Errorf("NewEmail() IsEmpty = %v, want %v", email.IsEmpty(), tt.wantEmpty)
			}
		})
	}
}

func TestNewUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid username", "octocat", false},
		{"single character", "x", false},
		{"valid with underscore", "test_user", false},
		{"valid with hyphen", "test-user", false},
		{"valid with numbers", "user123", false},
		{"too long", strings.Repeat("a", 51), true},
		{"empty username", "", true},
		{"invalid characters", "test@user", true},
		{"spaces", "test user", true},
		{"username with spaces trimmed", "  testuser  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			username, err := user.NewUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewUsername() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && username.String() == "" {
				t.Errorf("NewUsername() returned empty string for valid username")
			}
		})
	}
}

func TestUserIDEquals(t *testing.T) {
	id1 := user.NewUserID()
	id2 := user.NewUserID()

	if id1.Equals(id2) {
		t.Error("Different UserIDs should not be equal")
	}

	if !id1.Equals(id1) {
		t.Error("Same UserID should be equal to itself")
	}

	if id1.IsZero() || !(user.UserID{}).IsZero() {
		t.Error("IsZero should only hold for the zero value")
	}
}

func TestUsernameEqualsIgnoresCase(t *testing.T) {
	username1, _ := user.NewUsername("OctoCat")
	username2, _ := user.NewUsername("octocat")
	username3, _ := user.NewUsername("otheruser")

	if !username1.Equals(username2) {
		t.Error("Usernames differing only in case should be equal")
	}

	if username1.Equals(username3) {
		t.Error("Different usernames should not be equal")
	}
}
