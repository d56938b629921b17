package rederr

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("processing page: %w", NoMatch("nothing found after %d passes", 4))

	assert.True(t, errors.Is(err, ErrNoMatch))
	assert.False(t, errors.Is(err, ErrSave))
}

func TestErrorUnwrapsCause(t *testing.T) {
	err := Save(io.ErrShortWrite, "failed to write output")

	assert.True(t, errors.Is(err, io.ErrShortWrite))
	assert.True(t, errors.Is(err, ErrSave))
	assert.Equal(t, "failed to write output: short write", err.Error())
}

func TestWithDocument(t *testing.T) {
	base := DocumentLoad(nil, "unexpected HTTP status 404")
	tagged := base.WithDocument("loop-17.pdf")

	assert.Empty(t, base.Document)
	assert.Equal(t, "unexpected HTTP status 404 [loop-17.pdf]", tagged.Error())
}

func TestCodeOf(t *testing.T) {
	code, ok := CodeOf(fmt.Errorf("wrapped: %w", AlreadyAnnotated("marker present")))
	require.True(t, ok)
	assert.Equal(t, CodeAlreadyAnnotated, code)

	_, ok = CodeOf(io.EOF)
	assert.False(t, ok)
}
