package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestParseCmd_Stdin(t *testing.T) {
	out, _, err := execute(t, "rb 0x000E3B41\r\nwb 0x00012000 0x42\r\nrd 0x00000010 32\r\nwp 0x0F\r\nsd xm01\r\n", "parse")
	require.NoError(t, err)
	require.Equal(t, "rb 0x000e3b41\nwb 0x00012000 0x42\nrd 0x00000010 32\nwp 15\nsd xm01\n", out)
}

func TestParseCmd_EmptyInput(t *testing.T) {
	out, _, err := execute(t, "", "parse")
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestParseCmd_StopsOnError(t *testing.T) {
	out, stderr, err := execute(t, "wp 1\r\nwp 1024\r\nwp 2\r\n", "parse")
	require.ErrorContains(t, err, "line 2")
	require.Equal(t, "wp 1\n", out)
	require.Contains(t, stderr, "SYNTAX_ERROR")
}

func TestParseCmd_Resync(t *testing.T) {
	out, _, err := execute(t, "wp 1\r\nxx 1\r\nwp 2\nsd x01\r\n", "parse", "--resync")
	require.ErrorContains(t, err, "2 malformed line(s)")
	require.Equal(t, "wp 1\nsd x01\n", out)
}

func TestParseCmd_TruncatedLastLine(t *testing.T) {
	out, _, err := execute(t, "wp 1\r\nwp 2", "parse", "--resync")
	require.ErrorContains(t, err, "1 malformed line(s)")
	require.Equal(t, "wp 1\n", out)
}

func TestParseCmd_File(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "cmds.txt")
	require.NoError(t, os.WriteFile(input, []byte("sd x256\r\n"), 0o600))

	out, _, err := execute(t, "", "parse", input)
	require.NoError(t, err)
	require.Equal(t, "sd x256\n", out)

	_, _, err = execute(t, "", "parse", filepath.Join(dir, "missing.txt"))
	require.ErrorContains(t, err, "open input")
}

func TestParseCmd_ConfigResync(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "link.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("resync: true\nlog:\n  level: error\n"), 0o600))

	out, _, err := execute(t, "bad\r\nwp 7\r\n", "--config", cfg, "parse")
	require.Error(t, err)
	require.Equal(t, "wp 7\n", out)
}

func TestParseCmd_VerboseLogsCommands(t *testing.T) {
	_, stderr, err := execute(t, "wp 7\r\n", "-v", "parse")
	require.NoError(t, err)
	require.Contains(t, stderr, `"msg":"command parsed"`)
	require.Contains(t, stderr, `"component":"parse"`)
}

func TestVersionCmd(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	require.Contains(t, out, "devcmd v"+Version)
}
