package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs_SpaceSeparated(t *testing.T) {
	args := []string{"-d", "sqlite", "-x", "noise", "-n", "worklog.db"}
	got := FilterArgs(args, []string{"-d", "-n"})
	assert.Equal(t, []string{"-d", "sqlite", "-n", "worklog.db"}, got)
}

func TestFilterArgs_EqualsForm(t *testing.T) {
	args := []string{"--d=sqlite", "-n=worklog.db", "--other=1"}
	got := FilterArgs(args, []string{"--d", "-n"})
	assert.Equal(t, []string{"--d=sqlite", "-n=worklog.db"}, got)
}

func TestFilterArgs_FlagWithoutValue(t *testing.T) {
	args := []string{"-d", "-n", "worklog.db"}
	got := FilterArgs(args, []string{"-d", "-n"})
	assert.Equal(t, []string{"-d", "-n", "worklog.db"}, got)
}

func TestFilterArgs_Empty(t *testing.T) {
	got := FilterArgs(nil, []string{"-d"})
	assert.Empty(t, got)

	got = FilterArgs([]string{"-x", "1"}, []string{"-d"})
	assert.Empty(t, got)
}
