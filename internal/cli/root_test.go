package cli_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/user-registry/internal/cli"
	"github.com/dtroode/user-registry/internal/token"
)

func TestIssueCmd_SignsWithSecretFlag(t *testing.T) {
	var out bytes.Buffer

	root := cli.NewRootCmdForTest()
	root.SetOut(&out)
	root.SetArgs([]string{"issue", "ops", "--secret", "s3cret", "--ttl", "5m"})
	require.NoError(t, root.Execute())

	operator, err := token.NewJWT("s3cret").ParseAccessToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "ops", operator)
}

func TestIssueCmd_DefaultsToConfiguredSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	var out bytes.Buffer

	root := cli.NewRootCmdForTest()
	root.SetOut(&out)
	root.SetArgs([]string{"issue", "ops"})
	require.NoError(t, root.Execute())

	_, err := token.NewJWT("from-env").ParseAccessToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)

	_, err = token.NewJWT("devsecret").ParseAccessToken(strings.TrimSpace(out.String()))
	assert.Error(t, err)
}

func TestIssueCmd_RequiresOperator(t *testing.T) {
	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"issue"})
	assert.Error(t, root.Execute())
}

func TestIssueCmd_RejectsNonPositiveTTL(t *testing.T) {
	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"issue", "ops", "--ttl=" + (-time.Minute).String()})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ttl must be positive")
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer

	root := cli.NewRootCmdForTest()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "tokengen dev")
}
