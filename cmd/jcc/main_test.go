package main

import (
	"bytes"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgsValid(t *testing.T) {
	var out bytes.Buffer
	a, err := parseArgs([]string{"-ast-only", "-o", "out.s", "in.c"}, &out)
	require.NoError(t, err)
	assert.True(t, a.astOnly)
	assert.Equal(t, "out.s", a.outputPath)
	assert.Equal(t, "in.c", a.inputPath)
	assert.Empty(t, out.String())
}

func TestParseArgsWrongArityPrintsUsageToStdout(t *testing.T) {
	var out bytes.Buffer
	_, err := parseArgs(nil, &out)
	require.Error(t, err)
	assert.Equal(t, flag.ErrHelp, err)
	assert.Contains(t, out.String(), "usage: jcc")
	assert.NotEmpty(t, out.String())
}

func TestParseArgsTooManyPositionalPrintsUsageToStdout(t *testing.T) {
	var out bytes.Buffer
	_, err := parseArgs([]string{"a.c", "b.c"}, &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "usage: jcc")
}

func TestParseArgsUnknownFlagReportsErrorToStdout(t *testing.T) {
	var out bytes.Buffer
	_, err := parseArgs([]string{"-bogus", "a.c"}, &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "flag provided but not defined")
}

func TestOutputPathFor(t *testing.T) {
	assert.Equal(t, "foo.s", outputPathFor("foo.c"))
	assert.Equal(t, "foo.s", outputPathFor("foo.h"))
	assert.Equal(t, "foo.txt.s", outputPathFor("foo.txt"))
}
