//go:build unit || !integration

package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadInputStopsPastLimit(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(strings.Repeat("x", 100)))

	b, err := ReadInput(cmd, "-", 10)
	require.NoError(t, err)
	assert.Len(t, b, 11)
}

func TestReadInputUnderLimit(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("small"))

	b, err := ReadInput(cmd, "", 10)
	require.NoError(t, err)
	assert.Equal(t, "small", string(b))
}

func TestReadInputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("y", 50)), 0o600))

	b, err := ReadInput(&cobra.Command{}, path, 20)
	require.NoError(t, err)
	assert.Len(t, b, 21)

	_, err = ReadInput(&cobra.Command{}, filepath.Join(t.TempDir(), "missing"), 20)
	assert.ErrorContains(t, err, "failed to read")
}
