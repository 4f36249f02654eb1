package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

// getSimpleText and getPassword point to the interactive input helpers and
// are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getNewPassword = GetNewPassword

// Signup prompts for email, password and name and creates an account. The
// new session becomes the current one.
func (a *App) Signup(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getNewPassword(os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}
	defer common.WipeByteArray(password)

	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}

	u, err := a.api.Signup(ctx, email, password, name)
	if err != nil {
		report("Signup failed", err)
		return err
	}

	a.user = u
	printlnFn(fmt.Sprintf("Welcome, %s!", u.Name))
	return nil
}

func (a *App) Signin(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.api.Signin(ctx, email, password)
	if err != nil {
		report("Signin failed", err)
		return err
	}

	a.user = u
	printlnFn(fmt.Sprintf("Signed in as %s", u.Email))
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.api.Refresh(ctx); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.user = nil
		}
		report("Refresh failed", err)
		return err
	}
	printlnFn("Access token refreshed")
	return nil
}

// Signout ends the current session. Local state is cleared even when the
// server cannot be reached.
func (a *App) Signout(ctx context.Context) error {
	err := a.api.Signout(ctx)
	a.user = nil
	if err != nil {
		report("Signout failed", err)
		return err
	}
	printlnFn("Signed out")
	return nil
}

func (a *App) SignoutAll(ctx context.Context) error {
	if err := a.api.SignoutAll(ctx); err != nil {
		report("Signout failed", err)
		return err
	}
	a.user = nil
	printlnFn("Signed out from all sessions")
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	u, err := a.api.Profile(ctx)
	if err != nil {
		report("Profile failed", err)
		return err
	}

	a.user = u
	printlnFn(fmt.Sprintf("ID:      %s", u.ID))
	printlnFn(fmt.Sprintf("Email:   %s", u.Email))
	printlnFn(fmt.Sprintf("Name:    %s", u.Name))
	printlnFn(fmt.Sprintf("Created: %s", u.CreatedAt.Local().Format("2006-01-02 15:04")))
	return nil
}

// report prints a one-line failure, followed by any field errors.
func report(prefix string, err error) {
	printlnFn(fmt.Sprintf("%s: %s", prefix, err.Error()))

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		for _, d := range apiErr.Details {
			printlnFn(fmt.Sprintf("  %s: %s", d.Field, d.Message))
		}
	}
}
