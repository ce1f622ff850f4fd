//go:build unit || !integration

package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	info, err := parse("v1.4.2", "d612b63", "2023-11-14T22:13:20Z")
	require.NoError(t, err)
	assert.Equal(t, "1", info.Major)
	assert.Equal(t, "4", info.Minor)
	assert.Equal(t, "d612b63", info.GitCommit)
	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), info.BuildDate)
}

func TestParseInvalid(t *testing.T) {
	_, err := parse("not-a-version", "", "")
	assert.Error(t, err)

	_, err = parse("v1.0.0", "", "yesterday")
	assert.Error(t, err)
}

func TestGetDefault(t *testing.T) {
	info, err := Get()
	require.NoError(t, err)
	assert.Equal(t, GITVERSION, info.GitVersion)
}
