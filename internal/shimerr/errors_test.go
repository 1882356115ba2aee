package shimerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceError_Is(t *testing.T) {
	err := New(ErrExecutableNotFound, "/usr/bin/mvn", "")
	assert.True(t, errors.Is(err, ErrExecutableNotFound))
	assert.False(t, errors.Is(err, ErrConfig))
	assert.True(t, IsExecutableNotFound(err))
}

func TestResourceError_Message(t *testing.T) {
	err := New(ErrDownload, "https://example.com/tool.zip", "connection reset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "https://example.com/tool.zip")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestExtractResource(t *testing.T) {
	err := New(ErrShimNotFound, "node", "")
	assert.Equal(t, "node", ExtractResource(err))
	assert.Equal(t, "", ExtractResource(errors.New("plain")))
}
