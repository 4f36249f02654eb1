package cli

import (
	"bufio"
	"context"
	"io"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
)

type fakeClient struct {
	loggedIn bool

	email, name string
	password    []byte

	user       *client.User
	signupErr  error
	signinErr  error
	refreshErr error
	signoutErr error
	allErr     error
	profileErr error
	healthErr  error

	calls []string
}

func (f *fakeClient) Signup(_ context.Context, email string, password []byte, name string) (*client.User, error) {
	f.calls = append(f.calls, "signup")
	f.email, f.name, f.password = email, name, append([]byte(nil), password...)
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	f.loggedIn = true
	return f.user, nil
}

func (f *fakeClient) Signin(_ context.Context, email string, password []byte) (*client.User, error) {
	f.calls = append(f.calls, "signin")
	f.email, f.password = email, append([]byte(nil), password...)
	if f.signinErr != nil {
		return nil, f.signinErr
	}
	f.loggedIn = true
	return f.user, nil
}

func (f *fakeClient) Refresh(context.Context) error {
	f.calls = append(f.calls, "refresh")
	return f.refreshErr
}

func (f *fakeClient) Signout(context.Context) error {
	f.calls = append(f.calls, "signout")
	f.loggedIn = false
	return f.signoutErr
}

func (f *fakeClient) SignoutAll(context.Context) error {
	f.calls = append(f.calls, "signout-all")
	if f.allErr != nil {
		return f.allErr
	}
	f.loggedIn = false
	return nil
}

func (f *fakeClient) Profile(context.Context) (*client.User, error) {
	f.calls = append(f.calls, "profile")
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.user, nil
}

func (f *fakeClient) Health(context.Context) error {
	f.calls = append(f.calls, "health")
	return f.healthErr
}

func (f *fakeClient) LoggedIn() bool { return f.loggedIn }

// captureOutput records everything printed through printlnFn.
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		s := ""
		for i, v := range a {
			if i > 0 {
				s += " "
			}
			s += toString(v)
		}
		lines = append(lines, s)
		return len(s), nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

// stubInputs answers text prompts from answers in order and returns password
// for every password prompt.
func stubInputs(t *testing.T, password []byte, answers ...string) {
	t.Helper()
	origST, origGP, origNP := getSimpleText, getPassword, getNewPassword
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(answers) {
			return "", io.EOF
		}
		i++
		return answers[i-1], nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return password, nil }
	getNewPassword = getPassword
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
		getNewPassword = origNP
	})
}
