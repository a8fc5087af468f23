package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const sumProgram = `int total;
int add(int a, int b) { return a + b; }
void main() { total = add(2, 3); printf(total); }
`

func runCLI(t *testing.T, fs afero.Fs, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errb bytes.Buffer
	code = run(args, fs, &out, &errb)
	return code, out.String(), errb.String()
}

func TestRunWritesIR(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "prog.cmm", []byte(sumProgram), 0644))

	code, stdout, _ := runCLI(t, fs, "--no-cache", "prog.cmm")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "Semantic Error(s): 0. Semantic Warning(s): 0.\n", stdout)

	ir, err := afero.ReadFile(fs, "prog.ir")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(ir), "entry main_, 1\nfunc add_int_int\n"))
	assert.Contains(t, string(ir), "callf &0, add_int_int, 2\n")
}

func TestRunOutputFlag(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "prog.cmm", []byte(sumProgram), 0644))

	code, _, _ := runCLI(t, fs, "--no-cache", "-o", "build/out.txt", "prog.cmm")
	require.Equal(t, exitOK, code)

	exists, err := afero.Exists(fs, "build/out.txt")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = afero.Exists(fs, "prog.ir")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		stdout string
	}{
		{"semantic", "void main() { x = 1; }", "1:15 **SEMANTIC ERROR** Variable x has not been declared\n"},
		{"syntax", "void main() { int x }", "1:21 **ERROR** expected next token to be ;, got } instead\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "bad.cmm", []byte(tt.src), 0644))

			code, stdout, _ := runCLI(t, fs, "--no-cache", "bad.cmm")
			assert.Equal(t, exitCompile, code)
			assert.True(t, strings.HasPrefix(stdout, tt.stdout), stdout)

			exists, err := afero.Exists(fs, "bad.ir")
			require.NoError(t, err)
			assert.False(t, exists, "no IR is written after errors")
		})
	}
}

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no source", nil},
		{"two sources", []string{"a.cmm", "b.cmm"}},
		{"unknown flag", []string{"--nope", "a.cmm"}},
		{"missing file", []string{"--no-cache", "missing.cmm"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := runCLI(t, afero.NewMemMapFs(), tt.args...)
			assert.Equal(t, exitUsage, code)
			assert.Empty(t, stdout)
		})
	}
}

func TestRunVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, afero.NewMemMapFs(), "--version")
	assert.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(stdout, "cmmc "+Version+" ("))
}

func TestRunUsesCache(t *testing.T) {
	fs := afero.NewMemMapFs()
	cacheDir := t.TempDir()
	src := "void v;\n" + sumProgram
	require.NoError(t, afero.WriteFile(fs, "prog.cmm", []byte(src), 0644))

	code, first, logs := runCLI(t, fs, "--cache-dir", cacheDir, "--log-level", "debug", "prog.cmm")
	require.Equal(t, exitOK, code)
	assert.Contains(t, logs, "cache store")
	want, err := afero.ReadFile(fs, "prog.ir")
	require.NoError(t, err)
	require.NoError(t, fs.Remove("prog.ir"))

	code, second, logs := runCLI(t, fs, "--cache-dir", cacheDir, "--log-level", "debug", "prog.cmm")
	require.Equal(t, exitOK, code)
	assert.Contains(t, logs, "cache hit")
	assert.Equal(t, first, second, "cached diagnostics are replayed")
	assert.Contains(t, second, "**SEMANTIC WARNING**")

	got, err := afero.ReadFile(fs, "prog.ir")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDefaultCMMCache(t *testing.T) {
	t.Setenv("CMMCACHE", filepath.Join("tmp", "cmm"))
	assert.Equal(t, filepath.Join("tmp", "cmm"), defaultCMMCache())

	t.Setenv("CMMCACHE", "")
	assert.True(t, strings.HasSuffix(defaultCMMCache(), "cmmc"))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "prog.ir", outputPath("prog.cmm"))
	assert.Equal(t, filepath.Join("dir", "a.b.ir"), outputPath(filepath.Join("dir", "a.b.cmm")))
	assert.Equal(t, "noext.ir", outputPath("noext"))
}
