//go:build unit || !integration

package flags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raiden-network/raiden-services/cmd/util/output"
	"github.com/raiden-network/raiden-services/pkg/messages"
)

func TestOutputFormatFlag(t *testing.T) {
	format := output.TableFormat
	flag := OutputFormatFlag(&format)

	require.NoError(t, flag.Set("yaml"))
	assert.Equal(t, output.YAMLFormat, format)
	assert.Equal(t, "yaml", flag.String())

	assert.Error(t, flag.Set("xml"))
	assert.Equal(t, output.YAMLFormat, format)
}

func TestMessageTypeFlag(t *testing.T) {
	var tag string
	flag := MessageTypeFlag(&tag)

	require.NoError(t, flag.Set(messages.TypeFeeInfo))
	assert.Equal(t, messages.TypeFeeInfo, tag)

	assert.Error(t, flag.Set("Ping"))
	assert.Equal(t, messages.TypeFeeInfo, tag)
}
