package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_EmbeddedInOrder(t *testing.T) {
	names, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"00001_create_users.sql", "00002_create_refresh_tokens.sql"}, names)
}

func TestMigrations_HaveUpAndDown(t *testing.T) {
	names, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)

	for _, n := range names {
		b, err := fs.ReadFile(Migrations, n)
		require.NoError(t, err)
		body := string(b)
		assert.True(t, strings.Contains(body, "-- +goose Up"), "%s lacks Up", n)
		assert.True(t, strings.Contains(body, "-- +goose Down"), "%s lacks Down", n)
	}
}

func TestMigrations_UniqueConstraints(t *testing.T) {
	users, err := fs.ReadFile(Migrations, "00001_create_users.sql")
	require.NoError(t, err)
	assert.Contains(t, string(users), "CONSTRAINT users_email_key UNIQUE (email)")

	tokens, err := fs.ReadFile(Migrations, "00002_create_refresh_tokens.sql")
	require.NoError(t, err)
	assert.Contains(t, string(tokens), "CONSTRAINT refresh_tokens_token_key UNIQUE (token)")
	assert.Contains(t, string(tokens), "ON DELETE CASCADE")
}
