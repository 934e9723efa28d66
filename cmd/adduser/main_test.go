package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"budgetbloom/internal/auth"
	"budgetbloom/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CreatesUser(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "users.db")
	var stdout, stderr bytes.Buffer

	err := run([]string{"-email", "Ada@Example.com", "-db", dbPath}, strings.NewReader("correct horse\n"), &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Password: ")
	assert.Contains(t, stdout.String(), "User ada@example.com created successfully")

	repo, err := storage.NewSQLiteRepository(dbPath)
	require.NoError(t, err)
	defer repo.Close()

	u, err := repo.GetUserByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword("correct horse", u.PasswordHash))
}

func TestRun_DuplicateUser(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "users.db")
	args := []string{"-email", "ada@example.com", "-password", "correct horse", "-db", dbPath}

	require.NoError(t, run(args, strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{}))

	err := run(args, strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, "user ada@example.com already exists", err.Error())
}

func TestRun_Validation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "users.db")

	tests := []struct {
		name    string
		args    []string
		stdin   string
		wantErr string
	}{
		{"missing email", []string{"-db", dbPath}, "", "missing required flags: email"},
		{"empty password", []string{"-email", "a@b.c", "-db", dbPath}, "   \n", "password cannot be empty"},
		{"no password input", []string{"-email", "a@b.c", "-db", dbPath}, "", "failed to read password"},
		{"short password", []string{"-email", "a@b.c", "-password", "short", "-db", dbPath}, "", "at least 8 characters"},
		{"bad email", []string{"-email", "nobody", "-password", "long enough", "-db", dbPath}, "", "a valid email is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args, strings.NewReader(tt.stdin), &bytes.Buffer{}, &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
