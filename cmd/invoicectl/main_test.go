package main

import (
	"bytes"
	"strings"
	"testing"

	"invoice_server/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHashPassword(t *testing.T) {
	out, err := run("hash-password", "s3cret")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"), hash)
	assert.True(t, utils.CheckPasswordHash("s3cret", hash))
}

func TestHashPassword_RequiresArgument(t *testing.T) {
	_, err := run("hash-password")
	assert.Error(t, err)
}

func TestMigrate_RejectsDirection(t *testing.T) {
	_, err := run("migrate", "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid argument")
}
