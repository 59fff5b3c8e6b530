package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "ticketdash dev\n", out.String())
}

func TestRootFlags(t *testing.T) {
	root := newRootCmd()
	repo := root.Flags().Lookup("repo")
	require.NotNil(t, repo)
	assert.Equal(t, ".", repo.DefValue)
	assert.NotNil(t, root.Flags().Lookup("config"))
}

func TestRootRejectsArgs(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"extra"})
	assert.Error(t, root.Execute())
}
