package client

import (
	"context"
	"time"
)

// User is the account view returned by the server.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Client interface {
	Signup(ctx context.Context, email string, password []byte, name string) (*User, error)
	Signin(ctx context.Context, email string, password []byte) (*User, error)
	Refresh(ctx context.Context) error
	Signout(ctx context.Context) error
	SignoutAll(ctx context.Context) error
	Profile(ctx context.Context) (*User, error)
	Health(ctx context.Context) error
	LoggedIn() bool
}
