package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunBeautifiesStdin(t *testing.T) {
	code, out, errOut := runCLI(t, "<a><b/></a>")
	require.Equal(t, 0, code, errOut)
	require.Equal(t, "<a>\n  <b/>\n</a>\n", out)
}

func TestRunModeFlags(t *testing.T) {
	code, out, errOut := runCLI(t, "<a>\n  <b>x</b>\n</a>", "-m", "minify")
	require.Equal(t, 0, code, errOut)
	require.Equal(t, "<a><b>x</b></a>\n", out)

	code, out, errOut = runCLI(t, `<a x="1"/>`, "--mode", "js", "--indent", "1")
	require.Equal(t, 0, code, errOut)
	require.Equal(t, "{\n \"a\": {\n  \"attributes\": {\n   \"@x\": \"1\"\n  }\n }\n}\n", out)
}

func TestRunLogsFallback(t *testing.T) {
	code, out, errOut := runCLI(t, "<a><b></a>", "-m", "json")
	require.Equal(t, 0, code)
	require.Contains(t, out, "Failed to convert XML to JSON")
	require.Contains(t, errOut, "input could not be fully formatted")
	require.Contains(t, errOut, "mode=json")
}

func TestRunFilesAndURLs(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.xml")
	second := filepath.Join(dir, "b.xml")
	require.NoError(t, os.WriteFile(first, []byte("<a><x/></a>"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("<b/>"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<c><y/></c>"))
	}))
	defer srv.Close()

	code, out, errOut := runCLI(t, "", first, "file://"+second, srv.URL)
	require.Equal(t, 0, code, errOut)
	require.Equal(t, "<a>\n  <x/>\n</a>\n<b/>\n<c>\n  <y/>\n</c>\n", out)
}

func TestRunOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.xml")
	code, out, errOut := runCLI(t, "<a><b/></a>", "-o", path, "-c", "on")
	require.Equal(t, 0, code, errOut)
	require.Empty(t, out)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "\x1b[", "forced color writes ANSI even to files")
}

func TestRunErrors(t *testing.T) {
	code, _, errOut := runCLI(t, "", filepath.Join(t.TempDir(), "missing.xml"))
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "format ")

	code, _, errOut = runCLI(t, "<a/>", "--mode", "zzz")
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "invalid config")

	code, _, _ = runCLI(t, "<a/>", "--no-such-flag")
	require.Equal(t, 2, code)

	code, _, errOut = runCLI(t, "<a/>", "--config", filepath.Join(t.TempDir(), "nope.toml"))
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "config:")
}

func TestRunListings(t *testing.T) {
	code, out, _ := runCLI(t, "", "--list-modes")
	require.Equal(t, 0, code)
	require.Equal(t, "beautify\ncompress\njson\n", out)

	code, out, _ = runCLI(t, "", "--list-themes")
	require.Equal(t, 0, code)
	require.Contains(t, strings.Split(out, "\n"), "monokai")
}

func TestResolveColor(t *testing.T) {
	cases := map[string]bool{
		"on":  true,
		"off": false,
		"1":   true,
		"0":   false,
	}
	for input, want := range cases {
		got, err := resolveColor(input, &bytes.Buffer{})
		require.NoError(t, err, input)
		require.Equal(t, want, got, input)
	}
	got, err := resolveColor("auto", &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, got, "buffers are never terminals")
	_, err = resolveColor("nope", &bytes.Buffer{})
	require.Error(t, err)
}

func TestResolveWidth(t *testing.T) {
	var buf bytes.Buffer
	require.Equal(t, 42, resolveWidth(42, &buf))
	t.Setenv("COLUMNS", "77")
	require.Equal(t, 77, resolveWidth(0, &buf))
	t.Setenv("COLUMNS", "junk")
	require.Equal(t, defaultWidth, resolveWidth(0, &buf))
}

func TestRunKeepsOutputFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xml")
	require.NoError(t, os.WriteFile(path, []byte("previous\n"), 0o644))

	code, _, _ := runCLI(t, "", filepath.Join(dir, "missing.xml"), "-o", path)
	require.Equal(t, 1, code)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "previous\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary output must be removed")

	code, _, errOut := runCLI(t, "<a><b/></a>", "-o", path, "-m", "compress")
	require.Equal(t, 0, code, errOut)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "<a><b/></a>\n", string(data))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}
