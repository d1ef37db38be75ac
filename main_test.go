package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"friendgraph/utils"
)

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	userID := utils.GenerateUUID()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"token", userID})
	require.NoError(t, rootCmd.Execute())

	claims, err := utils.ParseToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestTokenCommand_RejectsInvalidID(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"token", "nope"})

	assert.Error(t, rootCmd.Execute())
}

func TestMigrateCommand_SQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file:"+t.TempDir()+"/migrate.db")

	rootCmd.SetArgs([]string{"migrate"})
	require.NoError(t, rootCmd.Execute())
}
