package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-manu/rfind/fmte"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTree creates:
//
//	root/a.txt
//	root/b.log
//	root/sub/
//	root/sub/c.txt
func createTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("aaa"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.log"), []byte("bb"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "c.txt"), []byte("c"), 0644))
	return root
}

func runCLI(t *testing.T, args ...string) (int, []string, string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	fmte.SetErrOutput(&stderr)
	code := run(args, &stdout, &stderr)
	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return code, nil, stderr.String()
	}
	return code, strings.Split(out, "\n"), stderr.String()
}

func TestRun_ListsEverything(t *testing.T) {
	root := createTree(t)
	code, lines, _ := runCLI(t, root)
	assert.Equal(t, exitCodeSuccess, code)
	// os.ReadDir lists names in sorted order
	assert.Equal(t, []string{"a.txt", "b.log", "sub", "sub/c.txt"}, lines)
}

func TestRun_TypeFilters(t *testing.T) {
	root := createTree(t)

	code, lines, _ := runCLI(t, "--type", "f", root)
	assert.Equal(t, exitCodeSuccess, code)
	assert.Equal(t, []string{"a.txt", "b.log", "sub/c.txt"}, lines)

	code, lines, _ = runCLI(t, "--type=d", root)
	assert.Equal(t, exitCodeSuccess, code)
	assert.Equal(t, []string{"sub"}, lines)
}

func TestRun_NameAndExclusions(t *testing.T) {
	root := createTree(t)

	code, lines, _ := runCLI(t, "--name", "*.txt", root)
	assert.Equal(t, exitCodeSuccess, code)
	assert.Equal(t, []string{"a.txt", "sub/c.txt"}, lines)

	code, lines, _ = runCLI(t, "--exclude", "sub", "--exclude", "a.txt", root)
	assert.Equal(t, exitCodeSuccess, code)
	assert.Equal(t, []string{"b.log", "sub/c.txt"}, lines)
}

func TestRun_LongFormat(t *testing.T) {
	root := createTree(t)
	code, lines, _ := runCLI(t, "-l", "--type", "d", root)
	assert.Equal(t, exitCodeSuccess, code)
	require.Len(t, lines, 1)
	fields := strings.Split(lines[0], "\t")
	require.Len(t, fields, 7)
	assert.Equal(t, "drwxr-xr-x", fields[0])
	assert.Equal(t, "           0", fields[5])
	assert.Equal(t, "sub", fields[6])
}

func TestRun_InvalidArguments(t *testing.T) {
	root := createTree(t)

	code, lines, stderr := runCLI(t, "--type", "x", root)
	assert.Equal(t, exitCodeInvalidFilter, code)
	assert.Empty(t, lines)
	assert.Contains(t, stderr, "unknown type: x")

	code, _, _ = runCLI(t, "--name", "[a-", root)
	assert.Equal(t, exitCodeInvalidFilter, code)

	code, _, _ = runCLI(t)
	assert.Equal(t, exitCodeInvalidNumArgs, code)

	code, _, _ = runCLI(t, root, root)
	assert.Equal(t, exitCodeInvalidNumArgs, code)

	code, _, _ = runCLI(t, "--exclusions", filepath.Join(root, "missing.txt"), root)
	assert.Equal(t, exitCodeExclusionFilesError, code)
}

func TestRun_TraversalErrorExitsNonZero(t *testing.T) {
	root := createTree(t)
	code, lines, stderr := runCLI(t, filepath.Join(root, "a.txt"))
	assert.Equal(t, exitCodeTraversalError, code)
	assert.Empty(t, lines)
	assert.Contains(t, stderr, "not a directory")

	code, _, stderr = runCLI(t, filepath.Join(root, "nowhere"))
	assert.Equal(t, exitCodeTraversalError, code)
	assert.Contains(t, stderr, "location unreachable")
}

func TestRun_HelpAndVersion(t *testing.T) {
	code, lines, _ := runCLI(t, "--version")
	assert.Equal(t, exitCodeSuccess, code)
	assert.Equal(t, []string{version}, lines)

	code, lines, _ = runCLI(t, "-h")
	assert.Equal(t, exitCodeSuccess, code)
	assert.Contains(t, strings.Join(lines, "\n"), "--type")
	assert.NotContains(t, strings.Join(lines, "\n"), "--agent")
}

func TestHandlePanic_ExitsWithUnexpectedErrorCode(t *testing.T) {
	code := -1
	exit = func(c int) { code = c }
	defer func() { exit = os.Exit }()

	func() {
		defer handlePanic()
		panic("boom")
	}()
	assert.Equal(t, exitCodeUnexpectedError, code)
	assert.NotEqual(t, exitCodeTraversalError, code)
}
