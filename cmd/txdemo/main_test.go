package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunScenarios(t *testing.T) {
	var out bytes.Buffer
	err := runScenarios(context.Background(), &out, filepath.Join(t.TempDir(), "demo.db"), nil)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	require.True(t, strings.HasPrefix(lines[1], "runtime\trolled_back\tfalse\t"))
	require.True(t, strings.HasPrefix(lines[2], "checked\tcommitted\ttrue\t"))
	require.True(t, strings.HasPrefix(lines[3], "rollback-for\trolled_back\tfalse\t"))
	require.Equal(t, "success\tcommitted\ttrue\t-", lines[4])
}

func TestScenariosCmd(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"scenarios", "--db", filepath.Join(t.TempDir(), "cmd.db")})
	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "rollback-for\trolled_back")
}

func TestOrderCmd_SQLite(t *testing.T) {
	t.Setenv("STORAGE", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "orders.db"))
	t.Setenv("IDEMPOTENCY_BACKEND", "none")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"order", "insufficient"})
	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "outcome=committed")
	require.Contains(t, out.String(), "status=waiting")

	root = newRootCmd()
	out.Reset()
	root.SetOut(&out)
	root.SetArgs([]string{"order", "exception"})
	require.Error(t, root.Execute())
	require.Contains(t, out.String(), "outcome=rolled_back")
}
