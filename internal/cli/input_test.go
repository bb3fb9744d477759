package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(newReader("  Li Wei \n"), "Name", &out)
	require.NoError(t, err)
	assert.Equal(t, "Li Wei", got)
	assert.Equal(t, "Name\n> ", out.String())
}

func TestGetSimpleText_EOFWithPartialLine(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(newReader("no newline"), "Name", &out)
	require.NoError(t, err)
	assert.Equal(t, "no newline", got)
}

func TestGetSimpleText_EOFEmpty(t *testing.T) {
	var out bytes.Buffer
	_, err := GetSimpleText(newReader(""), "Name", &out)
	require.Error(t, err)
}

func TestGetDefaultedText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetDefaultedText(newReader("\n"), "Train", "K101", &out)
	require.NoError(t, err)
	assert.Equal(t, "K101", got)
	assert.Contains(t, out.String(), "[K101]")

	got, err = GetDefaultedText(newReader("C55\n"), "Train", "K101", &out)
	require.NoError(t, err)
	assert.Equal(t, "C55", got)
}

func TestGetYesNo(t *testing.T) {
	cases := []struct {
		input string
		def   bool
		want  bool
	}{
		{"y\n", false, true},
		{"Y\n", false, true},
		{"yes\n", false, true},
		{"n\n", true, false},
		{"no\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"whatever\n", true, false},
	}

	for _, tc := range cases {
		var out bytes.Buffer
		got, err := GetYesNo(newReader(tc.input), "Deadhead?", tc.def, &out)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "input %q default %v", tc.input, tc.def)
	}
}

func TestGetYesNo_PromptHint(t *testing.T) {
	var out bytes.Buffer
	_, err := GetYesNo(newReader("\n"), "Deadhead?", false, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "(y/N)")

	out.Reset()
	_, err = GetYesNo(newReader("\n"), "Deadhead?", true, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "(Y/n)")
}
