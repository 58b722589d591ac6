package user

import (
	"fmt"
	"time"
)

// User is a member of gitcollab. Users own projects and file contributor requests.
type User struct {
	id        UserID
	username  Username
	email     Email
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates a new User entity with validation
func NewUser(username, email string) (*User, error) {
	usernameVO, err := NewUsername(username)
	if err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}

	emailVO, err := NewEmail(email)
	if err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}

	now := time.Now().UTC()
	return &User{
		id:        NewUserID(),
		username:  usernameVO,
		email:     emailVO,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstitute recreates a User entity from persistence
func Reconstitute(id, username, email string, createdAt, updatedAt time.Time) (*User, error) {
	userID, err := ParseUserID(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	usernameVO, err := NewUsername(username)
	if err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}

	emailVO, err := NewEmail(email)
	if err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}

	return &User{
		id:        userID,
		username:  usernameVO,
		email:     emailVO,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

// UpdateEmail updates the user's email
func (u *User) UpdateEmail(newEmail string) error {
	emailVO, err := NewEmail(newEmail)
	if err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}

	u.email = emailVO
	u.updatedAt = time.Now().UTC()
	return nil
}

// UpdateUsername follows a rename of the linked GitHub account.
func (u *User) UpdateUsername(newUsername string) error {
	usernameVO, err := NewUsername(newUsername)
	if err != nil {
		return fmt.Errorf("invalid username: %w", err)
	}

	u.username = usernameVO
	u.updatedAt = time.Now().UTC()
	return nil
}

// Getters

func (u *User) ID() UserID {
	return u.id
}

func (u *User) Username() Username {
	return u.username
}

func (u *User) Email() Email {
	return u.email
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// String returns string representation (for debugging)
func (u *User) String() string {
	return fmt.Sprintf("User{id: %s, username: %s}", u.id.String(), u.username.String())
}
