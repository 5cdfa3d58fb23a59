package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const glext = `#ifndef __gl_glext_h_
#define __gl_glext_h_ 1
#ifndef GL_EXT_foo
#define GL_EXT_foo 1
typedef void (APIENTRYP PFNGLFOOEXTPROC) (GLint x);
#ifdef GL_GLEXT_PROTOTYPES
GLAPI void APIENTRY glFooEXT (GLint x);
#endif
#endif /* GL_EXT_foo */
#endif
`

func sourceDir(t *testing.T, header string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "include", "GL"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "include", "GL", "glext.h"), []byte(header), 0o644))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cli := NewCLI()
	cli.SetArgs(args)
	cli.SetOut(&out)
	cli.SetErr(io.Discard)

	err := cli.Execute()
	return out.String(), err
}

func TestRun(t *testing.T) {
	dir := sourceDir(t, glext)

	out, err := execute(t, dir)
	require.NoError(t, err)

	assert.Contains(t, out, "1 features loaded from ")
	assert.Contains(t, out, "1 features written to ")
	assert.Contains(t, out, "Example implementation file written to ")

	header, err := os.ReadFile(filepath.Join(dir, "include", "GL", "glextl.h"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(header), "#ifndef GLEXTL_H\n"))
	assert.Contains(t, string(header), `if(strcmp(name,"GL_EXT_foo") == 0) return __isLoadedGL_EXT_foo;`)

	example, err := os.ReadFile(filepath.Join(dir, "glextl_impl.cpp"))
	require.NoError(t, err)
	assert.Equal(t, "\n#define GLEXTL_IMPLEMENTATION\n#include <GL/glextl.h>\n\n", string(example))

	// a second run produces the same bytes
	_, err = execute(t, dir)
	require.NoError(t, err)
	again, err := os.ReadFile(filepath.Join(dir, "include", "GL", "glextl.h"))
	require.NoError(t, err)
	assert.Equal(t, header, again)
}

func TestRunNoArguments(t *testing.T) {
	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Too few arguments")
	assert.Contains(t, out, "Usage:")
}

func TestRunHelp(t *testing.T) {
	for _, flag := range []string{"-h", "--help"} {
		out, err := execute(t, flag)
		require.NoError(t, err)
		assert.Contains(t, out, "glextl [flags] SOURCE_DIR")
	}
}

func TestRunTooManyArguments(t *testing.T) {
	_, err := execute(t, "a", "b")
	assert.Error(t, err)
}

func TestRunInputNotFound(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir)
	require.ErrorIs(t, err, ErrInputNotFound)

	_, statErr := os.Stat(filepath.Join(dir, "include", "GL", "glextl.h"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunNoFeatures(t *testing.T) {
	dir := sourceDir(t, "#ifndef __gl_glext_h_\n#define __gl_glext_h_ 1\n#endif\n")

	_, err := execute(t, dir)
	require.ErrorIs(t, err, ErrNoFeatures)

	_, statErr := os.Stat(filepath.Join(dir, "include", "GL", "glextl.h"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunOutputOpenFailure(t *testing.T) {
	dir := sourceDir(t, glext)
	// the example destination is a directory, so it cannot be created
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "glextl_impl.cpp"), 0o755))

	_, err := execute(t, dir)
	require.ErrorIs(t, err, ErrOutputOpen)

	// the header was written before the failure and is left in place
	_, statErr := os.Stat(filepath.Join(dir, "include", "GL", "glextl.h"))
	assert.NoError(t, statErr)
}

func TestRunFlagsAndConfig(t *testing.T) {
	dir := sourceDir(t, glext)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "glextl.toml"), []byte(`
header = "out/loader.h"

[names]
prefix = "myGL"
`), 0o644))

	_, err := execute(t, "--impl-out", "out/loader.c", dir)
	require.NoError(t, err)

	header, err := os.ReadFile(filepath.Join(dir, "out", "loader.h"))
	require.NoError(t, err)
	assert.Contains(t, string(header), "GLboolean myGLLoadAll(PFNGLGETPROC* proc);")

	_, err = os.Stat(filepath.Join(dir, "out", "loader.c"))
	assert.NoError(t, err)
}

func TestCheck(t *testing.T) {
	dir := sourceDir(t, glext)

	out, err := execute(t, "--check", dir)
	require.ErrorIs(t, err, ErrStale)
	assert.Contains(t, out, "+#ifndef GLEXTL_H")

	_, err = execute(t, dir)
	require.NoError(t, err)

	out, err = execute(t, "--check", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated files are up to date")

	// a changed header makes the output stale again
	require.NoError(t, os.WriteFile(filepath.Join(dir, "include", "GL", "glext.h"),
		[]byte(strings.ReplaceAll(glext, "GL_EXT_foo", "GL_EXT_bar")), 0o644))

	out, err = execute(t, "--check", dir)
	require.ErrorIs(t, err, ErrStale)
	assert.Contains(t, out, `-    if(strcmp(name,"GL_EXT_foo") == 0) return __isLoadedGL_EXT_foo;`)
	assert.Contains(t, out, `+    if(strcmp(name,"GL_EXT_bar") == 0) return __isLoadedGL_EXT_bar;`)
}
