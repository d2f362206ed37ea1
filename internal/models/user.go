package models

import (
	"fmt"
	"strings"
)

// User is a platform account. Recently played and favorite songs are stored
// in join tables keyed by the user id rather than on the document itself.
type User struct {
	entity
	email string
	name  string
}

// NewUser creates a User with the given email and display name.
func NewUser(sequence int, email, name string) *User {
	return &User{entity: newEntity(sequence), email: strings.TrimSpace(email), name: name}
}

func (u *User) Email() string        { return u.email }
func (u *User) Name() string         { return u.name }
func (u *User) SetName(name string)  { u.name = name }
func (u *User) SetEmail(email string) { u.email = strings.TrimSpace(email) }

// Validate checks required fields.
func (u *User) Validate() error {
	if u.email == "" {
		return fmt.Errorf("user email is required")
	}
	if !strings.Contains(u.email, "@") {
		return fmt.Errorf("user email is malformed: %s", u.email)
	}
	return nil
}
